package npdm

import (
	"fmt"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/npdm/internal/binary"
)

type metaHeader struct {
	signatureKeyGeneration uint32
	flags                  uint8
	mainThreadPriority     uint8
	defaultCPUID           uint8
	systemResourceSize     uint32
	version                uint32
	mainThreadStackSize    uint32
	name                   string
}

func resolveMeta(v *validator, cfg *Config) metaHeader {
	var h metaHeader

	h.signatureKeyGeneration = v.u32Or(fieldPath{"signature_key_generation"}, cfg.SignatureKeyGeneration, 0)

	if v.flag(fieldPath{"is_64_bit"}, cfg.Is64Bit) {
		h.flags |= metaFlagIs64Bit
	}
	h.flags |= uint8(v.uint(fieldPath{"address_space_type"}, cfg.AddressSpaceType, 0, maxAddressSpaceType)) << metaShiftAddressSpace
	if v.flagOr(fieldPath{"optimize_memory_allocation"}, cfg.OptimizeMemoryAllocation, false) {
		h.flags |= metaFlagOptimizeMemoryAllocation
	}
	if v.flagOr(fieldPath{"disable_device_address_space_merge"}, cfg.DisableDeviceAddressSpaceMerge, false) {
		h.flags |= metaFlagDisableDeviceAddressMerge
	}
	if v.flagOr(fieldPath{"enable_alias_region_extra_size"}, cfg.EnableAliasRegionExtraSize, false) {
		h.flags |= metaFlagEnableAliasRegionExtraSize
	}
	if v.flagOr(fieldPath{"prevent_code_reads"}, cfg.PreventCodeReads, false) {
		h.flags |= metaFlagPreventCodeReads
	}

	h.mainThreadPriority = uint8(v.uint(fieldPath{"main_thread_priority"}, cfg.MainThreadPriority, 0, 0x3F))
	h.defaultCPUID = v.u8(fieldPath{"default_cpu_id"}, cfg.DefaultCPUID)
	h.systemResourceSize = uint32(v.uintOr(fieldPath{"system_resource_size"}, cfg.SystemResourceSize, 0, MaxSystemResourceSize, 0))
	h.version = v.u32Or(fieldPath{"version"}, cfg.Version, 0)

	stack := fieldPath{"main_thread_stack_size"}
	h.mainThreadStackSize = v.u32(stack, cfg.MainThreadStackSize)
	if !v.failed() && h.mainThreadStackSize%MainThreadStackAlign != 0 {
		v.fail(errors.Constraint(errors.PhaseValidate, stack,
			fmt.Sprintf("%#x", h.mainThreadStackSize),
			fmt.Sprintf("multiple of %#x", MainThreadStackAlign)))
	}

	h.name = v.ascii(fieldPath{"name"}, cfg.Name, MaxNameLen)
	return h
}

// write lays out the fixed META region. The returned slot covers the tail
// fields that the orchestrator patches once ACID and ACI0 are placed.
func (h metaHeader) write() (encodedSection, binary.Slot) {
	w := binary.NewLE()

	w.WriteFixedString(MetaMagic, 4)
	w.U32(h.signatureKeyGeneration)

	w.SeekTo(metaOffFlags)
	w.U8(h.flags)

	w.SeekTo(metaOffPriority)
	w.U8(h.mainThreadPriority)
	w.U8(h.defaultCPUID)

	w.SeekTo(metaOffSystemResource)
	w.U32(h.systemResourceSize)
	w.U32(h.version)
	w.U32(h.mainThreadStackSize)

	w.WriteFixedString(h.name, MaxNameLen)
	w.Zero(productCodeSize)

	w.SeekTo(metaOffTail)
	tail := w.Reserve(0x10)

	return encodedSection{name: MetaMagic, data: w.Bytes()}, tail
}
