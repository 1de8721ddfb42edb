package loader

import (
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/npdm"
)

// capabilities decodes kernel_capabilities entries of the form
// {"type": ..., "value": ...}. Unrecognised types decode to
// npdm.UnknownCapability and are rejected by npdm.Build.
func (d *decoder) capabilities(n *yaml.Node, path []string) []npdm.KernelCapability {
	var caps []npdm.KernelCapability
	for i, item := range d.list(n, path) {
		c := d.capability(item, appendPath(path, errors.Index(i)))
		if d.failed() {
			return nil
		}
		caps = append(caps, c)
	}
	return caps
}

func (d *decoder) capability(n *yaml.Node, path []string) npdm.KernelCapability {
	o := d.object(n, path)
	if o == nil {
		return nil
	}
	typeNode, typePath := o.require("type")
	if typeNode == nil {
		return nil
	}
	if typeNode.ShortTag() != tagStr {
		d.mismatch(typeNode, typePath, "string")
		return nil
	}

	value, valuePath := o.lookup("value")
	switch t := npdm.CapabilityType(typeNode.Value); t {
	case npdm.CapKernelFlags:
		v := d.valueObject(o, value, valuePath)
		return npdm.KernelFlags{
			HighestThreadPriority: v.intField("highest_thread_priority"),
			LowestThreadPriority:  v.intField("lowest_thread_priority"),
			LowestCPUID:           v.intField("lowest_cpu_id"),
			HighestCPUID:          v.intField("highest_cpu_id"),
		}

	case npdm.CapSyscalls:
		v := d.valueObject(o, value, valuePath)
		if v == nil {
			return nil
		}
		var sc npdm.Syscalls
		for _, name := range v.keys {
			num, numPath := v.lookup(name)
			sc.Entries = append(sc.Entries, npdm.Syscall{Name: name, Number: d.int(num, numPath)})
		}
		return sc

	case npdm.CapMap:
		v := d.valueObject(o, value, valuePath)
		return npdm.MemoryMap{
			Address: v.intField("address"),
			IsRO:    v.boolField("is_ro"),
			Size:    v.intField("size"),
			IsIO:    v.boolField("is_io"),
		}

	case npdm.CapMapPage:
		return npdm.MapPage{Page: d.int(value, valuePath)}

	case npdm.CapMapRegion:
		var mr npdm.MapRegion
		for i, item := range d.list(d.requireValue(o, value, valuePath), valuePath) {
			r := d.object(item, appendPath(valuePath, errors.Index(i)))
			if r == nil {
				return nil
			}
			mr.Regions = append(mr.Regions, npdm.Region{
				Type: r.intField("region_type"),
				IsRO: r.boolField("is_ro"),
			})
		}
		return mr

	case npdm.CapIRQPair:
		var irq npdm.IRQPair
		for i, item := range d.list(d.requireValue(o, value, valuePath), valuePath) {
			irq.IRQs = append(irq.IRQs, d.int(item, appendPath(valuePath, errors.Index(i))))
		}
		return irq

	case npdm.CapApplicationType:
		return npdm.ApplicationType{Type: d.int(value, valuePath)}

	case npdm.CapMinKernelVersion:
		return npdm.MinKernelVersion{Version: d.int(value, valuePath)}

	case npdm.CapHandleTableSize:
		return npdm.HandleTableSize{Size: d.int(value, valuePath)}

	case npdm.CapDebugFlags:
		v := d.valueObject(o, value, valuePath)
		return npdm.DebugFlags{
			AllowDebug:     v.boolField("allow_debug"),
			ForceDebugProd: v.boolField("force_debug_prod"),
			ForceDebug:     v.boolField("force_debug"),
		}

	default:
		Logger().Debug("unrecognised kernel capability",
			zap.String("path", errors.FormatPath(path)),
			zap.String("type", string(t)))
		return npdm.UnknownCapability{Type: string(t)}
	}
}

// requireValue reports a missing "value" key.
func (d *decoder) requireValue(o *object, value *yaml.Node, path []string) *yaml.Node {
	if value == nil {
		d.missing(path, o.node)
	}
	return value
}

func (d *decoder) valueObject(o *object, value *yaml.Node, path []string) *object {
	if d.requireValue(o, value, path) == nil {
		return nil
	}
	return d.object(value, path)
}
