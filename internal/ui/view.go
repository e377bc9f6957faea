package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Smart Tasks"))
	b.WriteString(" ")
	b.WriteString(subtleStyle.Render(m.ctrl.Store().Path()))
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	switch {
	case m.mode == modeForm && m.form != nil:
		b.WriteString(m.renderForm())
	case m.mode == modeView:
		b.WriteString(m.renderDetail())
	case len(m.visible) == 0 && m.ctrl.Store().Len() == 0:
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
	case len(m.visible) == 0:
		b.WriteString("No tasks match the current filter.")
	default:
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")
	switch m.mode {
	case modeSearch:
		b.WriteString(m.search.View())
		b.WriteString("\n")
	case modePath:
		b.WriteString(m.path.View())
		b.WriteString("\n")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderFilterLine() string {
	search := m.search.Value()
	if search == "" {
		search = "(none)"
	}
	return subtleStyle.Render(fmt.Sprintf("category: %s • search: %s • %d of %d shown",
		m.currentFilter(), search, len(m.visible), m.ctrl.Store().Len()))
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode != modeForm {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = doneStyle.Render(title)
		}

		fmt.Fprintf(&b, "%s %s %s %s\n", cursor, checkbox, title, categoryStyle.Render("("+t.Category+")"))
	}
	return b.String()
}

func (m Model) renderDetail() string {
	t := m.selected()
	if t == nil {
		return "No task selected"
	}
	detail := t.Detail
	if strings.TrimSpace(detail) == "" {
		detail = "(no details)"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(t.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Category  : %s\n", t.Category)
	fmt.Fprintf(&b, "Status    : %s\n\n", humanDone(t.Completed))
	b.WriteString(detail)
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("press any key to return"))
	return boxStyle.Render(b.String())
}

func (m Model) renderForm() string {
	f := m.form
	heading := "New task"
	if f.editing != nil {
		heading = "Edit task"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel(fieldTitle, "Title:"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel(fieldDetail, "Details:"))
	b.WriteString("\n")
	b.WriteString(f.detail.View())
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel(fieldCategory, "Category:"))
	b.WriteString(" ")
	b.WriteString(renderCategories(f.categories, f.category))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("tab/shift+tab move • ←/→ category • enter or ctrl+s save • esc cancel"))
	return boxStyle.Render(b.String())
}

func (m Model) fieldLabel(field int, label string) string {
	if m.form.focus == field {
		return focusStyle.Render("> " + label)
	}
	return "  " + label
}

func renderCategories(categories []string, selected int) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		if i == selected {
			parts[i] = focusStyle.Render("[" + c + "]")
		} else {
			parts[i] = subtleStyle.Render(c)
		}
	}
	return strings.Join(parts, " ")
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
