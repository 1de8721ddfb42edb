package npdm

import (
	"github.com/wippyai/npdmgen/npdm/internal/binary"
)

type acidHeader struct {
	flags         uint32
	programIDMin  uint64
	programIDMax  uint64
	fsPermissions uint64
}

func resolveAcid(v *validator, cfg *Config) acidHeader {
	var h acidHeader

	if v.flag(fieldPath{"is_retail"}, cfg.IsRetail) {
		h.flags |= acidFlagRetail
	}
	if v.flagOr(fieldPath{"unqualified_approval"}, cfg.UnqualifiedApproval, false) {
		h.flags |= acidFlagUnqualifiedApproval
	}
	h.flags |= uint32(v.uint(fieldPath{"pool_partition"}, cfg.PoolPartition, 0, maxPoolPartition)) << acidShiftPoolPartition

	h.programIDMin = v.u64(fieldPath{"program_id_range_min"}, cfg.ProgramIDRangeMin)
	h.programIDMax = v.u64(fieldPath{"program_id_range_max"}, cfg.ProgramIDRangeMax)
	h.fsPermissions = v.u64(fieldPath{"filesystem_access", "permissions"}, cfg.FilesystemAccess.Permissions)
	return h
}

// write lays out the ACID region: zeroed signature and public key, the
// header, the filesystem access control block, then the shared service and
// kernel capability tables on 0x10 boundaries.
func (h acidHeader) write(services, kernel []byte) encodedSection {
	w := binary.NewLE()

	sig := w.Reserve(signatureSize)
	key := w.Reserve(publicKeySize)

	w.WriteFixedString(AcidMagic, 4)
	size := w.Reserve(4)
	w.Skip(4)
	w.U32(h.flags)
	w.U64(h.programIDMin)
	w.U64(h.programIDMax)
	table := w.Reserve(offsetTableSize)

	facOff := w.Pos()
	w.U8(fsAccessVersion)
	w.U8(0) // content owner id count
	w.U8(0) // save data owner id count
	w.SeekTo(facOff + 4)
	w.U64(h.fsPermissions)
	w.Zero(4 * 8) // content owner id min/max, save data owner id min/max
	facSize := w.Pos() - facOff

	w.Align(SectionAlign)
	sacOff := w.Pos()
	w.WriteBytes(services)

	w.Align(SectionAlign)
	kcOff := w.Pos()
	w.WriteBytes(kernel)

	total := w.Pos()
	w.PatchU32(size, uint32(total-signatureSize))
	w.PatchU32(table,
		uint32(facOff), uint32(facSize),
		uint32(sacOff), uint32(len(services)),
		uint32(kcOff), uint32(len(kernel)),
	)

	return encodedSection{
		name: AcidMagic,
		data: w.Bytes(),
		tables: []Table{
			{Name: TableSignature, Offset: sig.Off, Size: sig.Len},
			{Name: TablePublicKey, Offset: key.Off, Size: key.Len},
			{Name: TableFSAccess, Offset: facOff, Size: facSize},
			{Name: TableServices, Offset: sacOff, Size: len(services)},
			{Name: TableKernelCaps, Offset: kcOff, Size: len(kernel)},
		},
	}
}
