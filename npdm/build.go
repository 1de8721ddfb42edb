package npdm

import (
	"github.com/wippyai/npdmgen/npdm/internal/binary"
)

// Descriptor is an encoded program descriptor and the map of where each of
// its parts landed.
type Descriptor struct {
	Bytes  []byte
	Layout Layout
}

// Layout describes the placement of every region and sub-table. All offsets
// are absolute within Descriptor.Bytes.
type Layout struct {
	Size         int
	Sections     []Section
	Capabilities []CapabilityWord
}

// Section is one top-level region (META, ACID or ACI0).
type Section struct {
	Name   string
	Offset int
	Size   int
	Tables []Table
}

// Table is a sub-table inside a section.
type Table struct {
	Name   string
	Offset int
	Size   int
}

// End returns the offset one past the last byte of s.
func (s Section) End() int {
	return s.Offset + s.Size
}

// Section returns the section with the given magic.
func (l Layout) Section(name string) (Section, bool) {
	for _, s := range l.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

type encodedSection struct {
	name   string
	data   []byte
	tables []Table // relative to the section start
}

// Build validates cfg and encodes it. Either the whole descriptor is
// produced or an *errors.Error is returned; nothing is partially written.
func Build(cfg *Config) (*Descriptor, error) {
	p, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	meta, tail := p.meta.write()
	acid := p.acid.write(p.services, p.kernel)
	aci := p.aci.write(p.services, p.kernel)

	w := binary.NewLE()
	layout := Layout{Capabilities: p.caps}

	place := func(s encodedSection) Section {
		w.Align(SectionAlign)
		placed := Section{Name: s.name, Offset: w.Pos(), Size: len(s.data)}
		for _, t := range s.tables {
			t.Offset += placed.Offset
			placed.Tables = append(placed.Tables, t)
		}
		w.WriteBytes(s.data)
		layout.Sections = append(layout.Sections, placed)
		return placed
	}

	place(meta)
	acidAt := place(acid)
	aciAt := place(aci)

	w.PatchU32(tail,
		uint32(aciAt.Offset), uint32(aciAt.Size),
		uint32(acidAt.Offset), uint32(acidAt.Size),
	)

	layout.Size = w.Len()
	return &Descriptor{Bytes: w.Bytes(), Layout: layout}, nil
}

// Encode is Build without the layout.
func Encode(cfg *Config) ([]byte, error) {
	d, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	return d.Bytes, nil
}
