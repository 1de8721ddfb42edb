package npdm

import (
	"github.com/wippyai/npdmgen/errors"
)

// program is a fully validated Config. Everything the section writers need
// is already range checked, so writing cannot fail.
type program struct {
	meta     metaHeader
	acid     acidHeader
	aci      aciHeader
	services []byte
	caps     []CapabilityWord
	kernel   []byte
}

// resolve runs every validation over cfg and returns the first failure.
// Service names and kernel capabilities are encoded here as well, since
// their encoders are the only place their constraints are checked.
func resolve(cfg *Config) (*program, error) {
	if cfg == nil {
		return nil, errors.InvalidInput(errors.PhaseValidate, "nil config")
	}

	v := &validator{}
	p := &program{}

	p.services = encodeServiceAccess(v, cfg.ServiceHost, cfg.ServiceAccess)
	p.caps = encodeKernelCapabilities(v, fieldPath{"kernel_capabilities"}, cfg.KernelCapabilities)
	p.meta = resolveMeta(v, cfg)
	p.acid = resolveAcid(v, cfg)
	p.aci = resolveAci(v, cfg)

	if v.err != nil {
		return nil, v.err
	}
	p.kernel = kernelCapabilityBlob(p.caps)
	return p, nil
}
