package npdm

import (
	"github.com/wippyai/npdmgen/npdm/internal/binary"
)

type saveDataOwner struct {
	accessibility uint8
	id            uint64
}

type aciHeader struct {
	programID      uint64
	fsPermissions  uint64
	contentOwners  []uint64
	saveDataOwners []saveDataOwner
}

func resolveAci(v *validator, cfg *Config) aciHeader {
	var h aciHeader
	fs := fieldPath{"filesystem_access"}

	coi := fs.key("content_owner_ids")
	for i, id := range cfg.FilesystemAccess.ContentOwnerIDs {
		h.contentOwners = append(h.contentOwners, v.u64(coi.index(i), id))
	}

	sdoi := fs.key("save_data_owner_ids")
	for i, o := range cfg.FilesystemAccess.SaveDataOwnerIDs {
		ep := sdoi.index(i)
		h.saveDataOwners = append(h.saveDataOwners, saveDataOwner{
			accessibility: uint8(v.uint(ep.key("accessibility"), o.Accessibility, 1, 3)),
			id:            v.u64(ep.key("id"), o.ID),
		})
	}

	h.fsPermissions = v.u64(fs.key("permissions"), cfg.FilesystemAccess.Permissions)
	h.programID = v.u64(fieldPath{"program_id"}, cfg.ProgramID)
	return h
}

// write lays out the ACI0 region. Owner id lists are omitted entirely,
// count included, when empty.
func (h aciHeader) write(services, kernel []byte) encodedSection {
	w := binary.NewLE()

	w.WriteFixedString(AciMagic, 4)
	w.Skip(0xC)
	w.U64(h.programID)
	w.Skip(8)
	table := w.Reserve(offsetTableSize)

	fahOff := w.Pos()
	w.U32(fsAccessVersion)
	w.U64(h.fsPermissions)
	fahTable := w.Reserve(0x10)

	coiOff := w.Pos()
	if len(h.contentOwners) > 0 {
		w.U32(uint32(len(h.contentOwners)))
	}
	for _, id := range h.contentOwners {
		w.U64(id)
	}
	coiSize := w.Pos() - coiOff

	sdoiOff := w.Pos()
	if len(h.saveDataOwners) > 0 {
		w.U32(uint32(len(h.saveDataOwners)))
	}
	for _, o := range h.saveDataOwners {
		w.U8(o.accessibility)
	}
	w.Align(4)
	for _, o := range h.saveDataOwners {
		w.U64(o.id)
	}
	sdoiSize := w.Pos() - sdoiOff

	fahSize := w.Pos() - fahOff
	w.PatchU32(fahTable,
		uint32(coiOff-fahOff), uint32(coiSize),
		uint32(sdoiOff-fahOff), uint32(sdoiSize),
	)

	w.Align(SectionAlign)
	sacOff := w.Pos()
	w.WriteBytes(services)

	w.Align(SectionAlign)
	kcOff := w.Pos()
	w.WriteBytes(kernel)

	w.PatchU32(table,
		uint32(fahOff), uint32(fahSize),
		uint32(sacOff), uint32(len(services)),
		uint32(kcOff), uint32(len(kernel)),
	)

	return encodedSection{
		name: AciMagic,
		data: w.Bytes(),
		tables: []Table{
			{Name: TableFSAccessHead, Offset: fahOff, Size: fahSize},
			{Name: TableContentOwners, Offset: coiOff, Size: coiSize},
			{Name: TableSaveOwners, Offset: sdoiOff, Size: sdoiSize},
			{Name: TableServices, Offset: sacOff, Size: len(services)},
			{Name: TableKernelCaps, Offset: kcOff, Size: len(kernel)},
		},
	}
}
