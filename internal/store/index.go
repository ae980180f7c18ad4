package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// index maps logical session IDs to filenames so Load can skip the O(n)
// directory scan. It is strictly a cache: entries are verified against the
// document on every hit and repaired from a scan on every miss, so the JSON
// files stay the only source of truth.
type index struct {
	db *sql.DB
}

func openIndex(path string) (*index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return &index{db: db}, nil
}

func (ix *index) Close() error {
	return ix.db.Close()
}

func (ix *index) Get(id string) (string, bool) {
	var file string
	err := ix.db.QueryRow("SELECT file FROM sessions WHERE id = ?", id).Scan(&file)
	if err != nil {
		return "", false
	}
	return file, true
}

func (ix *index) Put(id, file string) error {
	_, err := ix.db.Exec(
		"INSERT OR REPLACE INTO sessions (id, file) VALUES (?, ?)",
		id, file,
	)
	if err != nil {
		return fmt.Errorf("index put: %w", err)
	}
	return nil
}

func (ix *index) Delete(id string) error {
	_, err := ix.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("index delete: %w", err)
	}
	return nil
}
