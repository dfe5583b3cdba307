package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations directory failed validation: %v", err)
	}
}

func TestInitMigrationCoversSchema(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	var init string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_init.sql") {
			init = filepath.Join("migrations", e.Name())
		}
	}
	if init == "" {
		t.Fatal("init migration not found")
	}

	b, err := os.ReadFile(init)
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	sql := string(b)
	for _, table := range []string{"products", "clients", "events", "event_items", "inventory_logs", "users"} {
		if !strings.Contains(sql, "CREATE TABLE "+table) {
			t.Fatalf("init migration missing table %s", table)
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Index On Events")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_index_on_events.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration failed validation: %v", err)
	}
}
