package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newTestModel(t *testing.T, s *memstore.Store, opts ...tasks.Option) (Model, *tasks.Controller) {
	t.Helper()
	ctrl := tasks.New(s, opts...)
	t.Cleanup(func() { _ = ctrl.Close(context.Background()) })
	theme := ui.New("mono", lipgloss.NewRenderer(&bytes.Buffer{}))
	return New(context.Background(), ctrl, theme), ctrl
}

// hydrated runs the startup command and feeds its result back.
func hydrated(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)
	return send(m, cmd())
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, s string) Model {
	return send(m, keys(s))
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func addTask(m Model, text string) Model {
	m = send(m, keys("a"))
	m = typeText(m, text)
	return send(m, enter)
}

func texts(ts []model.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Text
	}
	return out
}

func TestModel_IgnoresIntentsWhileLoading(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())

	m = send(m, keys("a"))
	assert.Equal(t, modeLoading, m.mode)
	assert.Contains(t, m.View(), "Loading tasks")
	assert.False(t, ctrl.Hydrated())
}

func TestModel_QuitWhileLoading(t *testing.T) {
	m, _ := newTestModel(t, memstore.New())

	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_HydrationShowsStoredTasks(t *testing.T) {
	s := memstore.New(memstore.WithData(map[string]string{
		tasks.DefaultKey: `[{"id":"1","text":"Water plants","completed":true},{"id":"2","text":"Call mom","completed":false}]`,
	}))
	m, _ := newTestModel(t, s)

	m = hydrated(t, m)
	require.Equal(t, modeBrowse, m.mode)

	view := m.View()
	assert.Contains(t, view, "Water plants")
	assert.Contains(t, view, "Call mom")
	assert.Len(t, m.list.Items(), 2)
}

func TestModel_HydrationFailure(t *testing.T) {
	s := memstore.New(memstore.WithData(map[string]string{tasks.DefaultKey: "{not json"}))
	m, ctrl := newTestModel(t, s, tasks.WithCorruptPolicy(tasks.CorruptError))

	m = hydrated(t, m)
	assert.Equal(t, modeFailed, m.mode)
	assert.Contains(t, m.View(), "could not load tasks")

	m = send(m, keys("a"))
	assert.Equal(t, modeFailed, m.mode)
	assert.Zero(t, ctrl.Len())
}

func TestModel_AddTask(t *testing.T) {
	s := memstore.New()
	m, ctrl := newTestModel(t, s)
	m = hydrated(t, m)

	m = send(m, keys("a"))
	require.Equal(t, modeAdd, m.mode)
	m = typeText(m, "Buy milk")
	assert.Equal(t, "Buy milk", ctrl.Input())

	m = send(m, enter)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"Buy milk"}, texts(ctrl.Tasks()))
	assert.Empty(t, ctrl.Input())
	assert.Empty(t, m.input.Value())
	assert.Len(t, m.list.Items(), 1)
}

func TestModel_AddNewestFirst(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())
	m = hydrated(t, m)

	m = addTask(m, "A")
	m = addTask(m, "B")

	assert.Equal(t, []string{"B", "A"}, texts(ctrl.Tasks()))
	id, ok := m.selectedID()
	require.True(t, ok)
	assert.Equal(t, ctrl.Tasks()[0].ID, id, "new task is selected")
}

func TestModel_AddRejections(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		notice string
	}{
		{"blank", "   ", noticeInvalid},
		{"duplicate", "  Buy milk ", noticeDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ctrl := newTestModel(t, memstore.New())
			m = hydrated(t, m)
			m = addTask(m, "Buy milk")

			m = addTask(m, tt.input)
			assert.Equal(t, modeAdd, m.mode, "input stays open")
			assert.Equal(t, tt.notice, m.notice)
			assert.Equal(t, tt.input, m.input.Value(), "typed text is kept")
			assert.Contains(t, m.View(), tt.notice)
			assert.Equal(t, 1, ctrl.Len())
		})
	}
}

func TestModel_AddLongText(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())
	m = hydrated(t, m)

	long := strings.Repeat("very long task ", 40)
	m = addTask(m, long)

	require.Equal(t, 1, ctrl.Len())
	assert.Equal(t, strings.TrimSpace(long), ctrl.Tasks()[0].Text)
}

func TestModel_AddCancel(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())
	m = hydrated(t, m)

	m = send(m, keys("a"))
	m = typeText(m, "draft")
	m = send(m, esc)

	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, ctrl.Input())
	assert.Zero(t, ctrl.Len())
}

func TestModel_ToggleAndDelete(t *testing.T) {
	s := memstore.New()
	m, ctrl := newTestModel(t, s)
	m = hydrated(t, m)
	m = addTask(m, "Buy milk")

	m = send(m, space)
	require.Len(t, ctrl.Tasks(), 1)
	assert.True(t, ctrl.Tasks()[0].Completed)
	assert.Contains(t, m.View(), "[x]")

	m = send(m, space)
	assert.False(t, ctrl.Tasks()[0].Completed)

	m = send(m, keys("d"))
	assert.Zero(t, ctrl.Len())
	assert.Empty(t, m.list.Items())

	require.NoError(t, ctrl.Flush(context.Background()))
	stored, ok := s.Value(tasks.DefaultKey)
	require.True(t, ok)
	assert.Equal(t, "[]", stored)
}

func TestModel_ToggleOnEmptyListIsNoop(t *testing.T) {
	s := memstore.New()
	m, _ := newTestModel(t, s)
	m = hydrated(t, m)

	m = send(m, space)
	m = send(m, keys("d"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, s.Writes())
}

func TestModel_EditTask(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())
	m = hydrated(t, m)
	m = addTask(m, "Buy milk")

	m = send(m, keys("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Buy milk", m.input.Value(), "input starts with current text")

	m = typeText(m, " today")
	assert.Equal(t, "Buy milk today", ctrl.EditBuffer())

	m = send(m, enter)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"Buy milk today"}, texts(ctrl.Tasks()))
	_, editing := ctrl.Editing()
	assert.False(t, editing)
}

func TestModel_EditEmptyKeepsEditing(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())
	m = hydrated(t, m)
	m = addTask(m, "Buy milk")

	m = send(m, keys("e"))
	m.input.SetValue("  ")
	m = send(m, enter)

	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, noticeInvalid, m.notice)
	assert.Equal(t, []string{"Buy milk"}, texts(ctrl.Tasks()))
}

func TestModel_EditCancel(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())
	m = hydrated(t, m)
	m = addTask(m, "Buy milk")

	m = send(m, keys("e"))
	m = typeText(m, "!!!")
	m = send(m, esc)

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"Buy milk"}, texts(ctrl.Tasks()))
	_, editing := ctrl.Editing()
	assert.False(t, editing)
}

func TestModel_EditTargetDeletedMeanwhile(t *testing.T) {
	m, ctrl := newTestModel(t, memstore.New())
	m = hydrated(t, m)
	m = addTask(m, "Buy milk")

	m = send(m, keys("e"))
	require.NoError(t, ctrl.Delete(ctrl.Tasks()[0].ID))
	m = send(m, enter)

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, noticeVanished, m.notice)
	assert.True(t, strings.Contains(m.View(), noticeVanished))
}

func TestModel_WindowResize(t *testing.T) {
	m, _ := newTestModel(t, memstore.New())
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 116, m.list.Width())
	assert.Equal(t, 36, m.list.Height())
}
