package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style
	Frame                                         lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymOK, SymFail           string
}

// Names lists the built-in themes.
func Names() []string { return []string{"classic", "neon", "mono"} }

// New builds the named theme for r. Unknown names get classic.
// Colors degrade to plain text when r does not render to a terminal.
func New(name string, r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	s := r.NewStyle

	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        s().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        s().Foreground(lipgloss.Color("8")),
			Accent:       s().Foreground(lipgloss.Color("14")),
			Success:      s().Foreground(lipgloss.Color("10")),
			Error:        s().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      s().Foreground(lipgloss.Color("11")),
			Selected:     s().Bold(true).Foreground(lipgloss.Color("13")),
			Done:         s().Faint(true).Strikethrough(true),
			Help:         s().Faint(true),
			Frame:        s().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("13")).Padding(0, 1),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•",
			SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		return Theme{
			Name:         "mono",
			Title:        s(),
			Muted:        s(),
			Accent:       s(),
			Success:      s(),
			Error:        s(),
			Pending:      s(),
			Selected:     s(),
			Done:         s(),
			Help:         s(),
			Frame:        s().Border(asciiBorder).Padding(0, 1),
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			SymOK: "ok:", SymFail: "error:",
		}
	default: // classic
		return Theme{
			Name:         "classic",
			Title:        s().Bold(true),
			Muted:        s().Faint(true),
			Accent:       s().Foreground(lipgloss.Color("12")),
			Success:      s().Foreground(lipgloss.Color("42")),
			Error:        s().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      s().Foreground(lipgloss.Color("214")),
			Selected:     s().Bold(true).Reverse(true),
			Done:         s().Faint(true).Strikethrough(true),
			Help:         s().Faint(true),
			Frame:        s().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•",
			SymOK: "✔", SymFail: "✖",
		}
	}
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

// Box returns the checkbox symbol for a completion state.
func (t Theme) Box(completed bool) string {
	if completed {
		return t.BoxChecked
	}
	return t.BoxUnchecked
}

// OK prints a success line.
func (t Theme) OK(w io.Writer, msg string) {
	_, _ = io.WriteString(w, t.Success.Render(t.SymOK+" "+msg)+"\n")
}

// Fail prints an error line.
func (t Theme) Fail(w io.Writer, msg string) {
	_, _ = io.WriteString(w, t.Error.Render(t.SymFail+" "+msg)+"\n")
}
