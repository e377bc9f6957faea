// Package storage keeps the ordered task list in memory and persists it to a
// structured-text file after every change.
package storage

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"os"
	"path/filepath"
	"slices"

	"smarttasks/internal/task"
)

// Store owns every task. Tasks are addressed by pointer identity, so callers
// may hold the *task.Task they are editing and hand it back later.
// A Store is not safe for concurrent use.
type Store struct {
	path  string
	tasks []*task.Task
}

// New returns an empty store bound to path. Call Load to read it.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Rebind points the store at another file. Nothing is read or written.
func (s *Store) Rebind(path string) { s.path = path }

func (s *Store) Len() int { return len(s.tasks) }

// All returns the tasks in order. The slice is a copy; the tasks are not.
func (s *Store) All() []*task.Task { return slices.Clone(s.tasks) }

// Add appends t and saves.
func (s *Store) Add(t *task.Task) error {
	if t == nil {
		return errors.New("nil task")
	}
	s.tasks = append(s.tasks, t)
	return s.Save()
}

// Append adds several tasks and saves once.
func (s *Store) Append(tasks ...*task.Task) error {
	for _, t := range tasks {
		if t != nil {
			s.tasks = append(s.tasks, t)
		}
	}
	return s.Save()
}

// Update applies fn to t if the store holds it, then saves. It reports
// whether t was found; an unknown task is left alone and nothing is written.
func (s *Store) Update(t *task.Task, fn func(*task.Task)) (bool, error) {
	if s.indexOf(t) < 0 {
		return false, nil
	}
	fn(t)
	if t.Category == "" {
		t.Category = task.DefaultCategory
	}
	return true, s.Save()
}

// SetCompleted sets the completion flag of t and saves.
func (s *Store) SetCompleted(t *task.Task, completed bool) (bool, error) {
	return s.Update(t, func(t *task.Task) { t.Completed = completed })
}

// Remove deletes t and saves. Removing a task the store does not hold is a
// no-op.
func (s *Store) Remove(t *task.Task) (bool, error) {
	i := s.indexOf(t)
	if i < 0 {
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true, s.Save()
}

// Query yields the tasks whose title contains search and whose category
// matches, in store order. The sequence reads the store when iterated, so it
// can be ranged over again after a mutation.
func (s *Store) Query(search, category string) iter.Seq[*task.Task] {
	return func(yield func(*task.Task) bool) {
		for _, t := range s.tasks {
			if t.Matches(search, category) && !yield(t) {
				return
			}
		}
	}
}

// Save overwrites the bound file with the current list. A failed write
// leaves the in-memory list untouched.
func (s *Store) Save() error {
	if s.path == "" {
		return errors.New("data path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, []byte(task.EncodeList(s.tasks)), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}

// Load replaces the list with the contents of the bound file. A missing file
// loads as an empty list. Records without a title are dropped. When the file
// exists but cannot be read, the current list is kept and the error returned.
func (s *Store) Load() error {
	if s.path == "" {
		return errors.New("data path is empty")
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.tasks = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}

	s.tasks = nil
	dropped := 0
	for _, obj := range task.SplitList(string(data)) {
		t := task.Decode(obj)
		if t.Title == "" {
			dropped++
			continue
		}
		s.tasks = append(s.tasks, t)
	}
	if dropped > 0 {
		log.Printf("storage: dropped %d untitled record(s) from %s", dropped, s.path)
	}
	return nil
}

func (s *Store) indexOf(t *task.Task) int {
	if t == nil {
		return -1
	}
	for i, cur := range s.tasks {
		if cur == t {
			return i
		}
	}
	return -1
}
