package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/wippyai/npdmgen/npdm"
)

// layoutEntry is one row of the layout map: a section or one of its tables.
type layoutEntry struct {
	name    string
	section string
	offset  int
	size    int
	nested  bool
}

func layoutEntries(l npdm.Layout) []layoutEntry {
	var out []layoutEntry
	for _, s := range l.Sections {
		out = append(out, layoutEntry{name: s.Name, section: s.Name, offset: s.Offset, size: s.Size})
		for _, t := range s.Tables {
			out = append(out, layoutEntry{name: t.Name, section: s.Name, offset: t.Offset, size: t.Size, nested: true})
		}
	}
	return out
}

func (e layoutEntry) label() string {
	if e.nested {
		return "  " + e.name
	}
	return e.name
}

func hexOffset(n int) string {
	return fmt.Sprintf("0x%06x", n)
}

// formatLayout renders the region and table map as a bordered table.
func formatLayout(p palette, l npdm.Layout) string {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.dim).
		Headers("REGION", "OFFSET", "SIZE", "").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return p.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, e := range layoutEntries(l) {
		t.Row(e.label(), hexOffset(e.offset), fmt.Sprintf("%#x", e.size), humanize.IBytes(uint64(e.size)))
	}

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %#x (%s), %d kernel capability words\n",
		p.label.Render("total"), l.Size, humanize.IBytes(uint64(l.Size)), len(l.Capabilities))
	return b.String()
}

// hexDump renders data as 16-byte lines labelled with absolute offsets
// starting at base.
func hexDump(data []byte, base int) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := min(off+16, len(data))
		line := data[off:end]

		fmt.Fprintf(&b, "%08x  ", base+off)
		for i := 0; i < 16; i++ {
			if i < len(line) {
				fmt.Fprintf(&b, "%02x ", line[i])
			} else {
				b.WriteString("   ")
			}
			if i == 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for _, c := range line {
			if c < 0x20 || c > 0x7E {
				c = '.'
			}
			b.WriteByte(c)
		}
		b.WriteString("|\n")
	}
	return b.String()
}

// capabilityLines lists the encoded kernel capability words.
func capabilityLines(words []npdm.CapabilityWord) string {
	var b strings.Builder
	for i, w := range words {
		fmt.Fprintf(&b, "%2d  %08x  entry %d  %s\n", i, w.Word, w.Entry, w.Type)
	}
	return b.String()
}
