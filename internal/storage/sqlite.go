package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"smarttasks/internal/task"
)

// ExportSQLite writes the task list to the tasks table of the SQLite database
// at dbPath, replacing whatever rows it held. Rows keep the list order in the
// position column.
func (s *Store) ExportSQLite(dbPath string) error {
	db, err := openSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (title, detail, category, done, position) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range s.tasks {
		done := 0
		if t.Completed {
			done = 1
		}
		if _, err := stmt.Exec(t.Title, t.Detail, t.Category, done, i); err != nil {
			return fmt.Errorf("insert %q: %w", t.Title, err)
		}
	}
	return tx.Commit()
}

// ImportSQLite appends the tasks stored in the SQLite database at dbPath and
// saves. Rows with an empty title are skipped, as on Load. It returns the
// number of tasks added.
func (s *Store) ImportSQLite(dbPath string) (int, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return 0, err
	}
	db, err := openSQLite(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT title, detail, category, done FROM tasks ORDER BY position, id;`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var imported []*task.Task
	for rows.Next() {
		var title, detail, category sql.NullString
		var done int
		if err := rows.Scan(&title, &detail, &category, &done); err != nil {
			return 0, err
		}
		if strings.TrimSpace(title.String) == "" {
			continue
		}
		imported = append(imported, task.NewWith(title.String, detail.String, category.String, done == 1))
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(imported) == 0 {
		return 0, nil
	}
	return len(imported), s.Append(imported...)
}

func openSQLite(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'General',
	done INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL DEFAULT 0
);`
	if _, err := db.Exec(ddl); err != nil {
		return err
	}
	return ensureTaskColumns(db)
}

// ensureTaskColumns adds the columns older databases lack, such as those
// written by todo tools that only tracked title and done.
func ensureTaskColumns(db *sql.DB) error {
	required := []struct{ name, alter string }{
		{"detail", "ALTER TABLE tasks ADD COLUMN detail TEXT NOT NULL DEFAULT '';"},
		{"category", "ALTER TABLE tasks ADD COLUMN category TEXT NOT NULL DEFAULT 'General';"},
		{"done", "ALTER TABLE tasks ADD COLUMN done INTEGER NOT NULL DEFAULT 0;"},
		{"position", "ALTER TABLE tasks ADD COLUMN position INTEGER NOT NULL DEFAULT 0;"},
	}
	existing := map[string]struct{}{}
	rows, err := db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, col := range required {
		if _, ok := existing[col.name]; ok {
			continue
		}
		if _, err := db.Exec(col.alter); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
