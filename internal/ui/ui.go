package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"smarttasks/internal/app"
	"smarttasks/internal/config"
	"smarttasks/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
	modePath
	modeView
)

type pathAction int

const (
	pathSaveAs pathAction = iota
	pathLoadFrom
)

const (
	fieldTitle = iota
	fieldDetail
	fieldCategory
	fieldCount
)

// formState backs the add and edit forms. editing is nil when adding.
type formState struct {
	editing    *task.Task
	title      textinput.Model
	detail     textarea.Model
	categories []string
	category   int
	focus      int
}

type Model struct {
	ctrl        *app.Controller
	cfg         config.Config
	keys        keyMap
	help        help.Model
	visible     []*task.Task
	cursor      int
	mode        mode
	form        *formState
	search      textinput.Model
	path        textinput.Model
	pathAction  pathAction
	filterIndex int
	status      string
	confirmDel  bool
	pendingDel  *task.Task
	width       int
}

// Run starts the terminal UI and blocks until the user quits. The final save
// happens on the way out even if the program ends with an error.
func Run(ctrl *app.Controller, cfg config.Config) error {
	defer ctrl.OnAppExit()
	program := tea.NewProgram(NewModel(ctrl, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// NewModel builds the initial model. The store should already be loaded.
func NewModel(ctrl *app.Controller, cfg config.Config) Model {
	if len(cfg.Categories) == 0 {
		cfg.Categories = slices.Clone(task.Categories)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search titles"
	search.CharLimit = 256
	search.Width = 40

	path := textinput.New()
	path.CharLimit = 1024
	path.Width = 60

	m := Model{
		ctrl:   ctrl,
		cfg:    cfg,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		search: search,
		path:   path,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, %s to toggle, '%s' to delete.",
			cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	if i := slices.IndexFunc(m.filterOptions(), func(c string) bool {
		return strings.EqualFold(c, cfg.DefaultFilter)
	}); i >= 0 {
		m.filterIndex = i
	}
	m.visible = ctrl.OnSearchOrFilterChanged("", m.currentFilter())
	if err := ctrl.LastError(); err != nil {
		m.status = fmt.Sprintf("load failed: %v", err)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modePath:
			return m.updatePath(msg)
		case modeView:
			m.mode = modeList
			return m, nil
		}
		return m.updateListMode(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-10, 10)
		m.path.Width = max(msg.Width-10, 10)
		if m.form != nil {
			m.form.title.Width = max(msg.Width-10, 10)
			m.form.detail.SetWidth(max(msg.Width-10, 10))
		}
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.OnAppExit()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.visible))
	case key.Matches(msg, m.keys.Add):
		return m.openForm(nil)
	case key.Matches(msg, m.keys.Edit):
		t := m.selected()
		if t == nil {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.openForm(t)
	case key.Matches(msg, m.keys.View):
		if m.selected() == nil {
			m.status = "No tasks"
			return m, nil
		}
		m.mode = modeView
	case key.Matches(msg, m.keys.Toggle):
		t := m.selected()
		if t == nil {
			return m, nil
		}
		m.ctrl.OnToggle(t, !t.Completed)
		m.refresh()
		m.status = m.withIOError("Toggled task")
	case key.Matches(msg, m.keys.Delete):
		t := m.selected()
		if t == nil {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.status = "Type to filter titles. Enter keeps the search, Esc clears it."
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Category):
		m.filterIndex = (m.filterIndex + 1) % len(m.filterOptions())
		m.visible = m.ctrl.OnSearchOrFilterChanged(m.search.Value(), m.currentFilter())
		m.cursor = clampCursor(m.cursor, len(m.visible))
		m.status = "Category: " + m.currentFilter()
	case key.Matches(msg, m.keys.SaveAs):
		return m.openPath(pathSaveAs)
	case key.Matches(msg, m.keys.LoadFrom):
		return m.openPath(pathLoadFrom)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		m.ctrl.OnDelete(m.pendingDel)
		m.refresh()
		m.status = m.withIOError("Deleted task")
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingDel = nil
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeList
		m.status = "Search cleared"
	case key.Matches(msg, m.keys.Confirm):
		m.search.Blur()
		m.mode = modeList
		m.status = fmt.Sprintf("%d matching task(s)", len(m.visible))
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.visible = m.ctrl.OnSearchOrFilterChanged(m.search.Value(), m.currentFilter())
		m.cursor = clampCursor(m.cursor, len(m.visible))
		return m, cmd
	}
	m.visible = m.ctrl.OnSearchOrFilterChanged(m.search.Value(), m.currentFilter())
	m.cursor = clampCursor(m.cursor, len(m.visible))
	return m, nil
}

func (m Model) openPath(action pathAction) (tea.Model, tea.Cmd) {
	m.mode = modePath
	m.pathAction = action
	m.path.SetValue(m.ctrl.Store().Path())
	m.path.CursorEnd()
	if action == pathSaveAs {
		m.path.Prompt = "Save as: "
	} else {
		m.path.Prompt = "Load from: "
	}
	m.status = "Enter a file path. Enter to confirm, Esc to cancel."
	cmd := m.path.Focus()
	return m, cmd
}

func (m Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.status = "Cancelled"
	case key.Matches(msg, m.keys.Confirm):
		p := strings.TrimSpace(m.path.Value())
		if p == "" {
			m.status = "Path cannot be empty"
			return m, nil
		}
		m.ctrl.OnRebindFile(p)
		if m.pathAction == pathSaveAs {
			m.ctrl.OnSave()
			m.status = m.withIOError("Saved to " + p)
		} else {
			m.ctrl.OnLoad()
			m.status = m.withIOError("Loaded " + p)
		}
		m.refresh()
	default:
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		return m, cmd
	}
	m.path.Blur()
	m.mode = modeList
	return m, nil
}

func (m Model) openForm(t *task.Task) (tea.Model, tea.Cmd) {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 256
	title.Width = max(m.width-10, 40)

	detail := textarea.New()
	detail.Placeholder = "Details (optional)"
	detail.ShowLineNumbers = false
	detail.SetWidth(max(m.width-10, 40))
	detail.SetHeight(3)

	f := &formState{
		title:      title,
		detail:     detail,
		categories: slices.Clone(m.cfg.Categories),
	}
	if t != nil {
		f.editing = t
		f.title.SetValue(t.Title)
		f.detail.SetValue(t.Detail)
		i := slices.IndexFunc(f.categories, func(c string) bool { return strings.EqualFold(c, t.Category) })
		if i < 0 {
			f.categories = append(f.categories, t.Category)
			i = len(f.categories) - 1
		}
		f.category = i
		m.status = "Edit task: tab to move, enter to save, esc to cancel"
	} else {
		m.status = "Add task: tab to move, enter to save, esc to cancel"
	}
	m.form = f
	m.mode = modeForm
	return m, m.form.title.Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	k := msg.String()
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form = nil
		m.mode = modeList
		m.status = "Cancelled"
		return m, nil
	case k == "ctrl+s":
		return m.submitForm()
	case k == "tab":
		return m, m.focusField((f.focus + 1) % fieldCount)
	case k == "shift+tab":
		return m, m.focusField((f.focus + fieldCount - 1) % fieldCount)
	}

	switch f.focus {
	case fieldTitle:
		if key.Matches(msg, m.keys.Confirm) {
			return m.submitForm()
		}
		var cmd tea.Cmd
		f.title, cmd = f.title.Update(msg)
		return m, cmd
	case fieldDetail:
		var cmd tea.Cmd
		f.detail, cmd = f.detail.Update(msg)
		return m, cmd
	default:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return m.submitForm()
		case k == "left" || k == "h":
			f.category = (f.category + len(f.categories) - 1) % len(f.categories)
		case k == "right" || k == "l" || k == " ":
			f.category = (f.category + 1) % len(f.categories)
		}
	}
	return m, nil
}

func (m Model) focusField(i int) tea.Cmd {
	f := m.form
	f.focus = i
	f.title.Blur()
	f.detail.Blur()
	switch i {
	case fieldTitle:
		return f.title.Focus()
	case fieldDetail:
		return f.detail.Focus()
	}
	return nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	title := f.title.Value()
	detail := f.detail.Value()
	category := f.categories[f.category]

	var added *task.Task
	if f.editing == nil {
		t, err := m.ctrl.OnAdd(title, detail, category)
		if err != nil {
			m.status = capitalize(err.Error())
			return m, nil
		}
		added = t
		m.status = m.withIOError("Added task")
	} else {
		if err := m.ctrl.OnEdit(f.editing, title, detail, category); err != nil {
			m.status = capitalize(err.Error())
			return m, nil
		}
		added = f.editing
		m.status = m.withIOError("Task saved")
	}

	m.form = nil
	m.mode = modeList
	m.refresh()
	if i := slices.Index(m.visible, added); i >= 0 {
		m.cursor = i
	}
	return m, nil
}

func (m *Model) refresh() {
	m.visible = m.ctrl.Visible()
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m Model) selected() *task.Task {
	if len(m.visible) == 0 {
		return nil
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))]
}

func (m Model) filterOptions() []string {
	return append([]string{task.AllCategories}, m.cfg.Categories...)
}

func (m Model) currentFilter() string {
	opts := m.filterOptions()
	return opts[m.filterIndex%len(opts)]
}

func (m Model) withIOError(msg string) string {
	if err := m.ctrl.LastError(); err != nil {
		return fmt.Sprintf("%s (not saved: %v)", msg, err)
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
