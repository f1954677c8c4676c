package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_runs.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE runs(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE runs;"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "runs") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplySkipsAlreadyApplied(t *testing.T) {
	db := openInMemoryDB(t)
	ctx := context.Background()

	migrations := []Migration{
		{Name: "001_runs.sql", Up: "CREATE TABLE runs(id TEXT PRIMARY KEY);"},
	}
	applied, err := Apply(ctx, db, migrations)
	if err != nil {
		t.Fatalf("apply initial migrations: %v", err)
	}
	if !slices.Equal(applied, []string{"001_runs.sql"}) {
		t.Fatalf("applied = %v", applied)
	}

	migrations = append(migrations, Migration{Name: "002_pages.sql", Up: "CREATE TABLE run_pages(run_id TEXT);"})
	applied, err = Apply(ctx, db, migrations)
	if err != nil {
		t.Fatalf("replay migrations: %v", err)
	}
	if !slices.Equal(applied, []string{"002_pages.sql"}) {
		t.Fatalf("replay applied = %v", applied)
	}
}

func TestApplyDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)
	ctx := context.Background()

	if _, err := Apply(ctx, db, []Migration{{Name: "001_bad.sql", Up: "CREAT table things(id INT);"}}); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}

	if _, err := Apply(ctx, db, []Migration{{Name: "001_bad.sql", Up: "CREATE TABLE things(id INTEGER PRIMARY KEY);"}}); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"); rows != 1 {
		t.Fatalf("expected fixed migration to be recorded, got %d rows", rows)
	}
}

func TestLoadRespectsRootAndOrder(t *testing.T) {
	migrations := fstest.MapFS{
		"archive/002_pages.sql": &fstest.MapFile{Data: []byte("CREATE TABLE run_pages(run_id TEXT);")},
		"archive/001_runs.sql":  &fstest.MapFile{Data: []byte("CREATE TABLE runs(id TEXT);")},
		"archive/README.md":     &fstest.MapFile{Data: []byte("not sql")},
	}

	loaded, err := Load(migrations, "archive")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var names []string
	for _, m := range loaded {
		names = append(names, m.Name)
	}
	if !slices.Equal(names, []string{"archive/001_runs.sql", "archive/002_pages.sql"}) {
		t.Fatalf("names = %v", names)
	}
}

func TestApplyRequiresDB(t *testing.T) {
	if _, err := Apply(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestUpSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE a(id);", want: "CREATE TABLE a(id);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a(id);", want: "\nCREATE TABLE a(id);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE a(id);\n-- +migrate Down\nDROP TABLE a;", want: "\nCREATE TABLE a(id);\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UpSection(tt.content); got != tt.want {
				t.Fatalf("UpSection() = %q, want %q", got, tt.want)
			}
		})
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	// Each pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query int value: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
