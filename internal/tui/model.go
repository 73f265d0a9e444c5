// Package tui is the interactive task list. Every user intent is routed through
// the tasks.Controller; the model only keeps presentation state.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/ui"
)

type mode int

const (
	modeLoading mode = iota
	modeBrowse
	modeAdd
	modeEdit
	modeFailed
)

const (
	noticeInvalid   = "Please enter a valid task."
	noticeDuplicate = "Please enter a valid task and avoid duplicates."
	noticeVanished  = "That task no longer exists."
)

// hydratedMsg reports the end of the startup load.
type hydratedMsg struct {
	err error
}

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctx   context.Context
	ctrl  *tasks.Controller
	theme ui.Theme
	keys  keyMap

	list   list.Model
	input  textinput.Model // shared by add and edit
	mode   mode
	notice string
	err    error

	width, height int
}

// New creates the model. The controller must not be hydrated yet; Init
// starts hydration and the model ignores intents until it finishes.
func New(ctx context.Context, ctrl *tasks.Controller, theme ui.Theme) Model {
	keys := defaultKeyMap()

	l := list.New(nil, itemDelegate{theme: theme}, 80, 20)
	l.Title = theme.Header(0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.Title
	l.Styles.HelpStyle = theme.Help
	l.Styles.PaginationStyle = theme.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.listHelp
	l.AdditionalFullHelpKeys = keys.listHelp

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0 // task text has no length limit

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		theme:  theme,
		keys:   keys,
		list:   l,
		input:  ti,
		mode:   modeLoading,
		width:  80,
		height: 24,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctrl *tasks.Controller, theme ui.Theme) error {
	p := tea.NewProgram(New(ctx, ctrl, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.hydrate
}

func (m Model) hydrate() tea.Msg {
	return hydratedMsg{err: m.ctrl.Hydrate(m.ctx)}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case hydratedMsg:
		if msg.err != nil {
			m.mode = modeFailed
			m.err = msg.err
			return m, nil
		}
		m.mode = modeBrowse
		return m, m.refresh()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.mode {
	case modeLoading, modeFailed:
		// nothing may mutate until hydration succeeded
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Quit, m.keys.Cancel) {
			return m, tea.Quit
		}
		return m, nil
	case modeAdd:
		return m.updateAdd(msg)
	case modeEdit:
		return m.updateEdit(msg)
	}
	return m.updateBrowse(msg)
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(k, m.keys.Add):
		m.mode = modeAdd
		m.notice = ""
		m.resize()
		m.input.Placeholder = "New task..."
		m.input.SetValue(m.ctrl.Input())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(k, m.keys.Edit):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		if err := m.ctrl.BeginEdit(id); err != nil {
			m.notice = noticeFor(err)
			return m, nil
		}
		m.mode = modeEdit
		m.notice = ""
		m.resize()
		m.input.Placeholder = "Edit task..."
		m.input.SetValue(m.ctrl.EditBuffer())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(k, m.keys.Toggle):
		if id, ok := m.selectedID(); ok {
			if err := m.ctrl.ToggleCompletion(id); err != nil {
				m.notice = noticeFor(err)
			}
			return m, m.refresh()
		}
		return m, nil

	case key.Matches(k, m.keys.Delete):
		if id, ok := m.selectedID(); ok {
			if err := m.ctrl.Delete(id); err != nil {
				m.notice = noticeFor(err)
			}
			return m, m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Submit):
			m.ctrl.SetInput(m.input.Value())
			task, err := m.ctrl.Submit()
			if err != nil {
				// keep the typed text so it can be fixed
				m.notice = noticeFor(err)
				return m, nil
			}
			m.closeInput()
			cmd := m.refresh()
			m.selectID(task.ID)
			return m, cmd

		case key.Matches(k, m.keys.Cancel):
			m.ctrl.SetInput("")
			m.closeInput()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Submit):
			m.ctrl.SetEditBuffer(m.input.Value())
			task, err := m.ctrl.CommitEdit()
			if errors.Is(err, tasks.ErrTaskNotFound) {
				m.closeInput()
				m.notice = noticeVanished
				return m, m.refresh()
			}
			if err != nil {
				m.notice = noticeFor(err)
				return m, nil
			}
			m.closeInput()
			cmd := m.refresh()
			m.selectID(task.ID)
			return m, cmd

		case key.Matches(k, m.keys.Cancel):
			m.ctrl.CancelEdit()
			m.closeInput()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetEditBuffer(m.input.Value())
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.notice = ""
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
}

// refresh rebuilds the list items from the controller.
func (m *Model) refresh() tea.Cmd {
	all := m.ctrl.Tasks()
	items := make([]list.Item, 0, len(all))
	for _, t := range all {
		items = append(items, taskItem{Task: t})
	}
	done, pending := m.ctrl.Stats()
	m.list.Title = m.theme.Header(done, pending)
	return m.list.SetItems(items)
}

func (m Model) selectedID() (string, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return "", false
	}
	return it.ID, true
}

func (m *Model) selectID(id string) {
	for i, it := range m.list.VisibleItems() {
		if ti, ok := it.(taskItem); ok && ti.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) resize() {
	listHeight := m.height - 4
	if m.mode == modeAdd || m.mode == modeEdit {
		listHeight -= 3
	}
	m.list.SetSize(max(m.width-4, 10), max(listHeight, 3))
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, tasks.ErrEmptyText):
		return noticeInvalid
	case errors.Is(err, tasks.ErrDuplicateText):
		return noticeDuplicate
	case errors.Is(err, tasks.ErrTaskNotFound):
		return noticeVanished
	default:
		return err.Error()
	}
}

func (m Model) View() string {
	switch m.mode {
	case modeLoading:
		return m.theme.Frame.Render(m.theme.Muted.Render("Loading tasks..."))
	case modeFailed:
		return m.theme.Frame.Render(
			m.theme.Error.Render(m.theme.SymFail+" could not load tasks: "+m.err.Error()) + "\n" +
				m.theme.Help.Render("press q to quit"),
		)
	}

	content := m.list.View()
	if m.mode == modeAdd || m.mode == modeEdit {
		title := "Add new task"
		if m.mode == modeEdit {
			title = "Edit task"
		}
		if m.notice != "" {
			title += "  " + m.theme.Error.Render(m.notice)
		}
		bar := m.theme.Frame.BorderForeground(m.theme.Muted.GetForeground())
		content += "\n" + bar.Render(title+"\n"+m.input.View())
	} else if m.notice != "" {
		content += "\n" + m.theme.Error.Render(m.notice)
	}
	return m.theme.Frame.Render(content)
}
