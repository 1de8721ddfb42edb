package loader

import (
	"bytes"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/npdm"
)

// Load reads and decodes a descriptor configuration file.
func Load(path string) (*npdm.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	Logger().Debug("read config", zap.String("path", path), zap.Int("bytes", len(data)))
	return Parse(data)
}

// Parse decodes a JSON or YAML configuration document. Only the shape of the
// document is checked here; ranges and cross-field rules are left to
// npdm.Build.
func Parse(data []byte) (*npdm.Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "empty document")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ParseFailed("configuration", err)
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root = doc.Content[0]
	}

	d := &decoder{}
	cfg := d.config(root)
	if d.err != nil {
		return nil, d.err
	}
	return cfg, nil
}

func (d *decoder) config(n *yaml.Node) *npdm.Config {
	o := d.object(n, nil)
	if o == nil {
		return nil
	}

	if o.has("process_category") {
		o.used["process_category"] = true
		d.fail(errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Path("process_category").
			Detail("process_category is no longer supported, set version instead").
			Build())
		return nil
	}

	cfg := &npdm.Config{
		Name:                   o.textField("name"),
		Version:                o.intField("version"),
		SignatureKeyGeneration: o.intField("signature_key_generation"),
		ProgramID:              o.intField("program_id", "title_id"),
		ProgramIDRangeMin:      o.intField("program_id_range_min", "title_id_range_min"),
		ProgramIDRangeMax:      o.intField("program_id_range_max", "title_id_range_max"),

		Is64Bit:                        o.boolField("is_64_bit"),
		AddressSpaceType:               o.intField("address_space_type"),
		OptimizeMemoryAllocation:       o.boolField("optimize_memory_allocation"),
		DisableDeviceAddressSpaceMerge: o.boolField("disable_device_address_space_merge"),
		EnableAliasRegionExtraSize:     o.boolField("enable_alias_region_extra_size"),
		PreventCodeReads:               o.boolField("prevent_code_reads"),
		MainThreadPriority:             o.intField("main_thread_priority"),
		MainThreadStackSize:            o.intField("main_thread_stack_size"),
		DefaultCPUID:                   o.intField("default_cpu_id"),
		SystemResourceSize:             o.intField("system_resource_size"),

		IsRetail:            o.boolField("is_retail"),
		UnqualifiedApproval: o.boolField("unqualified_approval"),
		PoolPartition:       o.intField("pool_partition"),
	}

	fs, fsPath := o.require("filesystem_access")
	cfg.FilesystemAccess = d.filesystemAccess(fs, fsPath)

	host, hostPath := o.require("service_host")
	cfg.ServiceHost = d.strings(host, hostPath)
	access, accessPath := o.require("service_access")
	cfg.ServiceAccess = d.strings(access, accessPath)

	caps, capsPath := o.require("kernel_capabilities")
	cfg.KernelCapabilities = d.capabilities(caps, capsPath)

	if d.failed() {
		return nil
	}
	for _, k := range o.unused() {
		Logger().Debug("ignoring unknown key", zap.String("key", k))
	}
	return cfg
}

func (d *decoder) filesystemAccess(n *yaml.Node, path []string) npdm.FilesystemAccess {
	var fa npdm.FilesystemAccess
	if n == nil {
		return fa
	}
	o := d.object(n, path)
	if o == nil {
		return fa
	}

	fa.Permissions = o.intField("permissions")

	coi, coiPath := o.lookup("content_owner_ids")
	for i, item := range d.list(coi, coiPath) {
		fa.ContentOwnerIDs = append(fa.ContentOwnerIDs, d.int(item, appendPath(coiPath, errors.Index(i))))
	}

	sdoi, sdoiPath := o.lookup("save_data_owner_ids")
	for i, item := range d.list(sdoi, sdoiPath) {
		e := d.object(item, appendPath(sdoiPath, errors.Index(i)))
		if e == nil {
			break
		}
		fa.SaveDataOwnerIDs = append(fa.SaveDataOwnerIDs, npdm.SaveDataOwner{
			Accessibility: e.intField("accessibility"),
			ID:            e.intField("id"),
		})
	}

	for _, k := range o.unused() {
		Logger().Debug("ignoring unknown key", zap.String("key", errors.FormatPath(appendPath(path, k))))
	}
	return fa
}
