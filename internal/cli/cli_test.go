package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"smarttasks/internal/storage"
	"smarttasks/internal/testutil"
)

type harness struct {
	configPath string
	dataPath   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	return &harness{
		configPath: filepath.Join(dir, "config.toml"),
		dataPath:   filepath.Join(dir, "tasks.json"),
	}
}

// run executes one command line and returns stdout, stderr and the error.
func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--config", h.configPath, "--file", h.dataPath}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := h.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstderr:\n%s", args, err, errOut)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "Buy milk", "--category", "Personal")
	h.mustRun(t, "add", "Software review", "-c", "Work", "-d", "PR 42")
	h.mustRun(t, "add", `Fix "quoted" bug`, "-c", "Work")
	h.mustRun(t, "done", "2")

	testutil.GoldenString(t, "list_all", h.mustRun(t, "list"))
	testutil.GoldenString(t, "list_work_filtered", h.mustRun(t, "list", "--search", "WAR", "--category", "work"))
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "add", "   "); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestDoneUndoneAndRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "a")
	h.mustRun(t, "add", "b")

	if out := h.mustRun(t, "done", "1"); !strings.Contains(out, "[x] a") {
		t.Fatalf("done output %q", out)
	}
	if out := h.mustRun(t, "undone", "1"); !strings.Contains(out, "[ ] a") {
		t.Fatalf("undone output %q", out)
	}
	h.mustRun(t, "rm", "1")

	s := storage.New(h.dataPath)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	all := s.All()
	if len(all) != 1 || all[0].Title != "b" || all[0].Completed {
		t.Fatalf("file holds %+v", all)
	}

	for _, arg := range []string{"0", "2", "x"} {
		if _, _, err := h.run(t, "rm", arg); err == nil {
			t.Errorf("rm %s: expected error", arg)
		}
	}
}

func TestExportImportDB(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "add", "one", "-c", "Work")
	h.mustRun(t, "add", "two", "-c", "Study")
	dbPath := filepath.Join(t.TempDir(), "tasks.db")

	if out := h.mustRun(t, "export-db", dbPath); !strings.Contains(out, "exported 2 task(s)") {
		t.Fatalf("export output %q", out)
	}

	other := newHarness(t)
	if out := other.mustRun(t, "import-db", dbPath); !strings.Contains(out, "imported 2 task(s)") {
		t.Fatalf("import output %q", out)
	}
	if got := other.mustRun(t, "list"); got != h.mustRun(t, "list") {
		t.Fatalf("imported list differs:\n%s", got)
	}
}

func TestListFailsOnUnreadableFile(t *testing.T) {
	h := newHarness(t)
	h.dataPath = t.TempDir()
	if _, _, err := h.run(t, "list"); err == nil {
		t.Fatal("expected load error when the data path is a directory")
	}
}
