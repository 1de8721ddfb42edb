package npdm

import (
	"fmt"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/npdm/internal/binary"
)

// CapabilityWord is one encoded kernel capability word together with the
// index of the input entry that produced it.
type CapabilityWord struct {
	Entry int
	Type  CapabilityType
	Word  uint32
}

// encodeKernelCapabilities validates and packs the capability list in input
// order. An entry may expand into several words (map, syscalls).
func encodeKernelCapabilities(v *validator, p fieldPath, caps []KernelCapability) []CapabilityWord {
	if !v.entries(p, len(caps), MaxKernelCapabilities) {
		return nil
	}

	var out []CapabilityWord
	for i, c := range caps {
		words := encodeCapability(v, p.index(i), c)
		if v.failed() {
			return nil
		}
		for _, w := range words {
			out = append(out, CapabilityWord{Entry: i, Type: c.CapabilityType(), Word: w})
		}
	}
	return out
}

// kernelCapabilityBlob serialises capability words as little-endian u32s.
func kernelCapabilityBlob(words []CapabilityWord) []byte {
	w := binary.NewLE()
	for _, cw := range words {
		w.U32(cw.Word)
	}
	return w.Bytes()
}

func encodeCapability(v *validator, p fieldPath, c KernelCapability) []uint32 {
	val := p.key("value")

	c, ok := derefCapability(c)
	if !ok {
		v.fail(errors.FieldMissing(errors.PhaseEncode, val))
		return nil
	}

	switch c := c.(type) {
	case KernelFlags:
		return []uint32{encodeKernelFlags(v, val, c)}
	case Syscalls:
		return encodeSyscalls(v, val, c)
	case MemoryMap:
		return encodeMemoryMap(v, val, c)
	case MapPage:
		return []uint32{encodeMapPage(v, val, c)}
	case MapRegion:
		return []uint32{encodeMapRegion(v, val, c)}
	case IRQPair:
		return []uint32{encodeIRQPair(v, val, c)}
	case ApplicationType:
		return []uint32{encodeApplicationType(v, val, c)}
	case MinKernelVersion:
		return []uint32{encodeMinKernelVersion(v, val, c)}
	case HandleTableSize:
		return []uint32{encodeHandleTableSize(v, val, c)}
	case DebugFlags:
		return []uint32{encodeDebugFlags(v, val, c)}
	case nil:
		v.fail(errors.FieldMissing(errors.PhaseEncode, p.key("type")))
		return nil
	default:
		v.fail(errors.UnknownVariant(errors.PhaseEncode, p.key("type"),
			"kernel capability type", string(c.CapabilityType())))
		return nil
	}
}

// derefCapability turns pointer variants into values. It reports false for
// a typed nil pointer, which carries a type but no value.
func derefCapability(c KernelCapability) (KernelCapability, bool) {
	switch c := c.(type) {
	case *KernelFlags:
		return deref(c)
	case *Syscalls:
		return deref(c)
	case *MemoryMap:
		return deref(c)
	case *MapPage:
		return deref(c)
	case *MapRegion:
		return deref(c)
	case *IRQPair:
		return deref(c)
	case *ApplicationType:
		return deref(c)
	case *MinKernelVersion:
		return deref(c)
	case *HandleTableSize:
		return deref(c)
	case *DebugFlags:
		return deref(c)
	case *UnknownCapability:
		return deref(c)
	}
	return c, true
}

func deref[T KernelCapability](c *T) (KernelCapability, bool) {
	if c == nil {
		return nil, false
	}
	return *c, true
}

func encodeKernelFlags(v *validator, p fieldPath, c KernelFlags) uint32 {
	word := tag(CapKernelFlags)
	word |= kfHighestThreadPriority.put(v.field(p.key("highest_thread_priority"), c.HighestThreadPriority, kfHighestThreadPriority))
	word |= kfLowestThreadPriority.put(v.field(p.key("lowest_thread_priority"), c.LowestThreadPriority, kfLowestThreadPriority))
	word |= kfLowestCPUID.put(uint64(v.u8(p.key("lowest_cpu_id"), c.LowestCPUID)))
	word |= kfHighestCPUID.put(uint64(v.u8(p.key("highest_cpu_id"), c.HighestCPUID)))
	return word
}

// encodeSyscalls emits one word per non-empty group of 24 syscall numbers,
// in ascending group order.
func encodeSyscalls(v *validator, p fieldPath, c Syscalls) []uint32 {
	var groups [(MaxSyscall + 1) / SyscallsPerGroup]uint32
	seen := make(map[uint64]string, len(c.Entries))

	for i, sc := range c.Entries {
		key := sc.Name
		if key == "" {
			key = errors.Index(i)
		}
		ep := p.key(key)
		n := v.uint(ep, sc.Number, 0, MaxSyscall)
		if v.failed() {
			return nil
		}
		if prev, dup := seen[n]; dup {
			e := errors.Duplicate(errors.PhaseValidate, ep, n)
			e.Detail = fmt.Sprintf("syscall %#x already granted by %q", n, prev)
			v.fail(e)
			return nil
		}
		seen[n] = key
		groups[n/SyscallsPerGroup] |= 1 << (n % SyscallsPerGroup)
	}

	var words []uint32
	for idx, bitmap := range groups {
		if bitmap == 0 {
			continue
		}
		words = append(words, tag(CapSyscalls)|scBitmap.put(uint64(bitmap))|scGroup.put(uint64(idx)))
	}
	return words
}

// encodeMemoryMap emits the address word then the size word. The first
// word's high bit carries is_ro, the second's carries is_io.
func encodeMemoryMap(v *validator, p fieldPath, c MemoryMap) []uint32 {
	first := tag(CapMap)
	first |= mapAddress.put(v.field(p.key("address"), c.Address, mapAddress))
	if v.flag(p.key("is_ro"), c.IsRO) {
		first |= mapFlag.put(1)
	}

	second := tag(CapMap)
	second |= mapSize.put(v.field(p.key("size"), c.Size, mapSize))
	if v.flag(p.key("is_io"), c.IsIO) {
		second |= mapFlag.put(1)
	}
	return []uint32{first, second}
}

func encodeMapPage(v *validator, p fieldPath, c MapPage) uint32 {
	return tag(CapMapPage) | mapPageAddress.put(v.field(p, c.Page, mapPageAddress))
}

func encodeMapRegion(v *validator, p fieldPath, c MapRegion) uint32 {
	if !v.entries(p, len(c.Regions), MaxMapRegions) {
		return 0
	}
	word := tag(CapMapRegion)
	for i, r := range c.Regions {
		rp := p.index(i)
		f := mapRegionType(i)
		word |= f.put(v.field(rp.key("region_type"), r.Type, f))
		if v.flag(rp.key("is_ro"), r.IsRO) {
			word |= mapRegionRO(i).put(1)
		}
	}
	return word
}

func encodeIRQPair(v *validator, p fieldPath, c IRQPair) uint32 {
	if v.failed() {
		return 0
	}
	if len(c.IRQs) != IRQSlots {
		v.fail(errors.Constraint(errors.PhaseValidate, p, len(c.IRQs),
			fmt.Sprintf("exactly %d entries", IRQSlots)))
		return 0
	}
	word := tag(CapIRQPair)
	for i, irq := range c.IRQs {
		f := irqSlot(i)
		n := uint64(IRQNone)
		if irq.IsSet() {
			n = v.field(p.index(i), irq, f)
		}
		word |= f.put(n)
	}
	return word
}

func encodeApplicationType(v *validator, p fieldPath, c ApplicationType) uint32 {
	return tag(CapApplicationType) | appType.put(v.uintOr(p, c.Type, 0, maxApplicationType, 0))
}

func encodeMinKernelVersion(v *validator, p fieldPath, c MinKernelVersion) uint32 {
	return tag(CapMinKernelVersion) | minKernelVersion.put(uint64(v.u16(p, c.Version)))
}

func encodeHandleTableSize(v *validator, p fieldPath, c HandleTableSize) uint32 {
	return tag(CapHandleTableSize) | handleTableSize.put(v.field(p, c.Size, handleTableSize))
}

func encodeDebugFlags(v *validator, p fieldPath, c DebugFlags) uint32 {
	allow := v.flagOr(p.key("allow_debug"), c.AllowDebug, false)
	forceProd := v.flagOr(p.key("force_debug_prod"), c.ForceDebugProd, false)
	force := v.flagOr(p.key("force_debug"), c.ForceDebug, false)

	set := 0
	for _, b := range []bool{allow, forceProd, force} {
		if b {
			set++
		}
	}
	if set > 1 {
		v.fail(errors.MutuallyExclusive(errors.PhaseValidate, p,
			"allow_debug", "force_debug_prod", "force_debug"))
		return 0
	}

	word := tag(CapDebugFlags)
	if allow {
		word |= debugAllow.put(1)
	}
	if forceProd {
		word |= debugForceProd.put(1)
	}
	if force {
		word |= debugForce.put(1)
	}
	return word
}
