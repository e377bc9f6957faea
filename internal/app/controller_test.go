package app

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"smarttasks/internal/storage"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newController(t *testing.T) *Controller {
	t.Helper()
	return New(storage.New(filepath.Join(t.TempDir(), "tasks.json")))
}

func reload(t *testing.T, c *Controller) *storage.Store {
	t.Helper()
	s := storage.New(c.Store().Path())
	if err := s.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return s
}

func TestOnAddTrimsAndPersists(t *testing.T) {
	c := newController(t)
	tk, err := c.OnAdd("  Buy milk  ", "  two litres \n", "")
	if err != nil {
		t.Fatalf("OnAdd: %v", err)
	}
	if tk.Title != "Buy milk" || tk.Detail != "two litres" || tk.Category != "General" || tk.Completed {
		t.Fatalf("unexpected task %+v", *tk)
	}
	if got := reload(t, c).All(); len(got) != 1 || *got[0] != *tk {
		t.Fatalf("disk has %+v", got)
	}
}

func TestOnAddRejectsEmptyTitle(t *testing.T) {
	c := newController(t)
	if _, err := c.OnAdd("   ", "detail", "Work"); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("err = %v, want ErrEmptyTitle", err)
	}
	if c.Store().Len() != 0 {
		t.Fatal("empty-title task was added")
	}
}

func TestOnEdit(t *testing.T) {
	c := newController(t)
	a, _ := c.OnAdd("a", "", "Work")
	b, _ := c.OnAdd("b", "", "Work")

	if err := c.OnEdit(a, " renamed ", " new detail ", "Study"); err != nil {
		t.Fatalf("OnEdit: %v", err)
	}
	if a.Title != "renamed" || a.Detail != "new detail" || a.Category != "Study" {
		t.Fatalf("a = %+v", *a)
	}
	if b.Title != "b" {
		t.Fatalf("b changed: %+v", *b)
	}
	if err := c.OnEdit(a, "", "x", "Work"); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("err = %v, want ErrEmptyTitle", err)
	}
	if a.Detail != "new detail" {
		t.Fatal("rejected edit still applied")
	}
	if got := reload(t, c).All()[0].Title; got != "renamed" {
		t.Fatalf("disk title = %q", got)
	}
}

func TestOnDeleteAndToggle(t *testing.T) {
	c := newController(t)
	a, _ := c.OnAdd("a", "", "Work")
	b, _ := c.OnAdd("b", "", "Work")

	c.OnToggle(b, true)
	c.OnDelete(a)
	c.OnDelete(a)

	disk := reload(t, c).All()
	if len(disk) != 1 || disk[0].Title != "b" || !disk[0].Completed {
		t.Fatalf("disk = %+v", disk)
	}
	if c.LastError() != nil {
		t.Fatalf("LastError = %v", c.LastError())
	}
}

func TestOnSearchOrFilterChanged(t *testing.T) {
	c := newController(t)
	c.OnAdd("Software review", "", "Work")
	c.OnAdd("Star Wars", "", "Personal")
	c.OnAdd("Hardware order", "", "Work")

	got := c.OnSearchOrFilterChanged("WAR", "work")
	if len(got) != 2 || got[0].Title != "Software review" || got[1].Title != "Hardware order" {
		t.Fatalf("filtered = %+v", got)
	}

	c.OnAdd("Warehouse visit", "", "Work")
	if n := len(c.Visible()); n != 3 {
		t.Fatalf("Visible after add = %d, want 3", n)
	}

	if n := len(c.OnSearchOrFilterChanged("", "")); n != 4 {
		t.Fatalf("unfiltered = %d, want 4", n)
	}
	if s, cat := c.Filter(); s != "" || cat != "All" {
		t.Fatalf("Filter() = %q, %q", s, cat)
	}
}

func TestIOErrorsAreRecordedNotRaised(t *testing.T) {
	c := newController(t)
	c.OnRebindFile(t.TempDir())

	tk, err := c.OnAdd("kept", "", "Work")
	if err != nil {
		t.Fatalf("OnAdd returned %v; I/O failures must not surface as errors", err)
	}
	if c.LastError() == nil {
		t.Fatal("expected LastError after failed save")
	}
	if len(c.Visible()) != 1 || c.Visible()[0] != tk {
		t.Fatal("in-memory task lost")
	}

	c.OnLoad()
	if c.LastError() == nil {
		t.Fatal("expected LastError after failed load")
	}

	c.OnRebindFile(filepath.Join(t.TempDir(), "ok.json"))
	c.OnSave()
	if c.LastError() != nil {
		t.Fatalf("LastError after good save = %v", c.LastError())
	}
}

func TestRebindAndLoad(t *testing.T) {
	c := newController(t)
	c.OnAdd("first file", "", "Work")
	first := c.Store().Path()

	second := filepath.Join(t.TempDir(), "second.json")
	c.OnRebindFile(second)
	c.OnLoad()
	if c.Store().Len() != 0 {
		t.Fatalf("expected empty store from a missing file, got %d", c.Store().Len())
	}

	c.OnRebindFile(first)
	c.OnLoad()
	if got := c.Visible(); len(got) != 1 || got[0].Title != "first file" {
		t.Fatalf("Visible = %+v", got)
	}
}

func TestOnAppExitSavesOnce(t *testing.T) {
	c := newController(t)
	path := c.Store().Path()

	c.OnAppExit()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("exit did not save: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	c.OnAppExit()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("second OnAppExit wrote again: %v", err)
	}
}
