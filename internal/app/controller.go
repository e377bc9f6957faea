// Package app maps user actions onto store operations. Front ends call the
// On* methods and render whatever Visible returns; they never touch tasks
// directly.
//
// Every committed change (add, edit, delete, toggle) is saved immediately.
// Save and load failures are logged and kept in LastError; the change that
// triggered them stays applied in memory.
package app

import (
	"errors"
	"log"
	"slices"
	"strings"

	"smarttasks/internal/storage"
	"smarttasks/internal/task"
)

var ErrEmptyTitle = errors.New("title cannot be empty")

type Controller struct {
	store    *storage.Store
	search   string
	category string
	lastErr  error
	exited   bool
}

func New(store *storage.Store) *Controller {
	return &Controller{store: store, category: task.AllCategories}
}

func (c *Controller) Store() *storage.Store { return c.store }

// LastError returns the most recent save or load failure, or nil if the last
// I/O operation succeeded.
func (c *Controller) LastError() error { return c.lastErr }

// Filter returns the current search text and category filter.
func (c *Controller) Filter() (search, category string) { return c.search, c.category }

func (c *Controller) OnAdd(title, detail, category string) (*task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	t := task.NewWith(title, strings.TrimSpace(detail), category, false)
	c.record("add", c.store.Add(t))
	return t, nil
}

func (c *Controller) OnEdit(t *task.Task, title, detail, category string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	_, err := c.store.Update(t, func(t *task.Task) {
		t.Title = title
		t.Detail = strings.TrimSpace(detail)
		t.Category = category
	})
	c.record("edit", err)
	return nil
}

func (c *Controller) OnDelete(t *task.Task) {
	_, err := c.store.Remove(t)
	c.record("delete", err)
}

func (c *Controller) OnToggle(t *task.Task, completed bool) {
	_, err := c.store.SetCompleted(t, completed)
	c.record("toggle", err)
}

// OnSearchOrFilterChanged stores the new filter and returns the matching
// tasks.
func (c *Controller) OnSearchOrFilterChanged(search, category string) []*task.Task {
	c.search = search
	if category == "" {
		category = task.AllCategories
	}
	c.category = category
	return c.Visible()
}

// Visible returns the tasks matching the current filter, in store order.
func (c *Controller) Visible() []*task.Task {
	return slices.Collect(c.store.Query(c.search, c.category))
}

// OnRebindFile points the store at path. Follow with OnLoad or OnSave.
func (c *Controller) OnRebindFile(path string) {
	c.store.Rebind(strings.TrimSpace(path))
}

func (c *Controller) OnLoad() {
	c.record("load", c.store.Load())
}

func (c *Controller) OnSave() {
	c.record("save", c.store.Save())
}

// OnAppExit performs the final save. Only the first call writes.
func (c *Controller) OnAppExit() {
	if c.exited {
		return
	}
	c.exited = true
	c.OnSave()
}

func (c *Controller) record(op string, err error) {
	c.lastErr = err
	if err != nil {
		log.Printf("app: %s: %v", op, err)
	}
}
