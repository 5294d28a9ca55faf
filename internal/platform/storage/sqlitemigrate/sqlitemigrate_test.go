package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"migrations/001_create.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"migrations/README.md":      {Data: []byte("not sql")},
	}

	applied, err := Apply(context.Background(), db, migrations, "migrations")
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if len(applied) != 1 || applied[0] != "migrations/001_create.sql" {
		t.Fatalf("applied = %v", applied)
	}
	if got := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("expected 1 migration row, got %d", got)
	}
	if got := queryInt64(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='items'"); got != 1 {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplySkipsAlreadyApplied(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": {Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
	}
	if _, err := Apply(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply initial migrations: %v", err)
	}
	applied, err := Apply(context.Background(), db, migrations, "")
	if err != nil {
		t.Fatalf("re-apply migrations should be idempotent: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected nothing applied on replay, got %v", applied)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE TABLE ok(id TEXT); THIS IS NOT SQL;")},
	}
	if _, err := Apply(context.Background(), db, migrations, ""); err == nil {
		t.Fatal("expected failure")
	}
	if got := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("expected no recorded migration, got %d", got)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- header\n-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;"
	if got := ExtractUpMigration(content); got != "\nCREATE TABLE a(id INT);\n" {
		t.Fatalf("up = %q", got)
	}
	if got := ExtractUpMigration("SELECT 1;"); got != "SELECT 1;" {
		t.Fatalf("no marker = %q", got)
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if !IsAlreadyExistsError(errors.New("table items already exists")) {
		t.Fatal("expected already exists match")
	}
	if IsAlreadyExistsError(nil) || IsAlreadyExistsError(errors.New("syntax error")) {
		t.Fatal("expected no match")
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return n
}
