// Package task holds the task record and its structured-text codec.
package task

import (
	"strconv"
	"strings"
)

const (
	DefaultCategory = "General"
	// AllCategories is the filter value that matches every category.
	AllCategories = "All"
)

// Categories is the label set offered when adding or editing a task.
// The set is open: decoded files may carry any label.
var Categories = []string{"General", "Work", "Study", "Personal"}

type Task struct {
	Title     string
	Detail    string
	Category  string
	Completed bool
}

// New returns a task with every field at its default.
func New() *Task {
	return &Task{Category: DefaultCategory}
}

// NewWith returns a fully specified task. Callers trim title and detail.
func NewWith(title, detail, category string, completed bool) *Task {
	if category == "" {
		category = DefaultCategory
	}
	return &Task{
		Title:     title,
		Detail:    detail,
		Category:  category,
		Completed: completed,
	}
}

// Matches reports whether the title contains search (case-insensitive) and
// the category equals category, or category is empty or AllCategories.
func (t *Task) Matches(search, category string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if !strings.Contains(strings.ToLower(t.Title), search) {
		return false
	}
	if category == "" || strings.EqualFold(category, AllCategories) {
		return true
	}
	return strings.EqualFold(t.Category, category)
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Encode renders the task as a flat object with the keys title, detail,
// category and completed, in that order. Only backslash and double quote are
// escaped; files written by earlier versions depend on this exact shape.
func (t *Task) Encode() string {
	var b strings.Builder
	b.WriteString(`{"title":"`)
	b.WriteString(escaper.Replace(t.Title))
	b.WriteString(`","detail":"`)
	b.WriteString(escaper.Replace(t.Detail))
	b.WriteString(`","category":"`)
	b.WriteString(escaper.Replace(t.Category))
	b.WriteString(`","completed":`)
	b.WriteString(strconv.FormatBool(t.Completed))
	b.WriteString("}")
	return b.String()
}

// EncodeList renders the file body for tasks.
func EncodeList(tasks []*Task) string {
	var b strings.Builder
	b.WriteString("[\n")
	for i, t := range tasks {
		b.WriteString(t.Encode())
		if i < len(tasks)-1 {
			b.WriteString(",\n")
		}
	}
	b.WriteString("]\n")
	return b.String()
}

func (t *Task) set(key, val string) {
	switch key {
	case "title":
		t.Title = val
	case "detail":
		t.Detail = val
	case "category":
		if val == "" {
			val = DefaultCategory
		}
		t.Category = val
	case "completed":
		t.Completed = strings.EqualFold(val, "true") || val == "1"
	}
}
