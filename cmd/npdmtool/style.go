package main

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wippyai/npdmgen/errors"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// newRenderer returns a lipgloss renderer for w honouring the --color mode.
// In auto mode colour is kept only when fd is a terminal.
func newRenderer(w io.Writer, mode string, fd uintptr) (*lipgloss.Renderer, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case colorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case colorNever:
		r.SetColorProfile(termenv.Ascii)
	case colorAuto:
		if !term.IsTerminal(int(fd)) {
			r.SetColorProfile(termenv.Ascii)
		}
	default:
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Path("color").
			Want("auto, always or never").
			Value(mode).
			Detail("got %q", mode).
			Build()
	}
	return r, nil
}

func plainRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.Ascii)
	return r
}

// palette holds the CLI output styles bound to one renderer.
type palette struct {
	title  lipgloss.Style
	label  lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	dim    lipgloss.Style
	header lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	return palette{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		label:  r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#666666")),
		header: r.NewStyle().Bold(true).Padding(0, 1),
	}
}

// renderError formats err for the terminal. Structured errors get their
// field path on a separate line.
func (p palette) renderError(err error) string {
	s := p.fail.Render("error:") + " " + err.Error()
	var e *errors.Error
	if stderrors.As(err, &e) && len(e.Path) > 0 {
		s += "\n" + p.dim.Render(fmt.Sprintf("  field: %s", errors.FormatPath(e.Path)))
	}
	return s
}
