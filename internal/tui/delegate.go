package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// taskItem adapts model.Task to bubbles/list.Item
type taskItem struct {
	model.Task
}

// Implement list.Item interface
func (i taskItem) Title() string       { return i.Text }
func (i taskItem) Description() string { return "" }
func (i taskItem) FilterValue() string { return i.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	theme ui.Theme
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}

	box := d.theme.Muted.Render(d.theme.BoxUnchecked)
	text := it.Text
	if it.Completed {
		box = d.theme.Success.Render(d.theme.BoxChecked)
		text = d.theme.Done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = d.theme.Selected.Render(">") + " "
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}
