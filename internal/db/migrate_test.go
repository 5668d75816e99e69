package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPendingMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_add_indexes.sql", "0001_init.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	pending, err := pendingMigrations(dir, map[string]struct{}{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pending) != 2 || pending[0] != "0001_init.sql" || pending[1] != "0002_add_indexes.sql" {
		t.Fatalf("expected sorted sql files only, got %v", pending)
	}

	pending, err = pendingMigrations(dir, map[string]struct{}{"0001_init.sql": {}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pending) != 1 || pending[0] != "0002_add_indexes.sql" {
		t.Fatalf("expected applied file skipped, got %v", pending)
	}
}
