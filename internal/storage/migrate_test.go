package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openRawDB(t *testing.T, driver string) *sql.DB {
	t.Helper()
	db, err := sql.Open(driver, filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	if err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	return count > 0
}

func TestMigrateUpDownRecordsVersions(t *testing.T) {
	for _, driver := range []string{DriverCGO, DriverPureGo} {
		t.Run(driver, func(t *testing.T) {
			db := openRawDB(t, driver)

			if err := MigrateUp(db); err != nil {
				t.Fatalf("migrate up: %v", err)
			}
			if err := MigrateUp(db); err != nil {
				t.Fatalf("repeated migrate up: %v", err)
			}
			version, err := SchemaVersion(db)
			if err != nil {
				t.Fatalf("schema version: %v", err)
			}
			if version != "0002" {
				t.Fatalf("expected version 0002, got %q", version)
			}

			if err := MigrateDown(db); err != nil {
				t.Fatalf("migrate down: %v", err)
			}
			if tableExists(t, db, "kv") {
				t.Fatal("expected kv table to be dropped")
			}
			version, err = SchemaVersion(db)
			if err != nil {
				t.Fatalf("schema version after down: %v", err)
			}
			if version != "" {
				t.Fatalf("expected no applied migrations, got %q", version)
			}
		})
	}
}

func TestRepositoryWorksAfterMigrationRoundTrip(t *testing.T) {
	db := openRawDB(t, DriverCGO)
	for _, step := range []func(*sql.DB) error{MigrateUp, MigrateDown, MigrateUp} {
		if err := step(db); err != nil {
			t.Fatalf("migration step: %v", err)
		}
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.Put(t.Context(), "roundtrip", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := repo.Get(t.Context(), "roundtrip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestMigrationVersion(t *testing.T) {
	if got := migrationVersion("migrations/0002_kv_updated_at_index.up.sql"); got != "0002" {
		t.Fatalf("unexpected version %q", got)
	}
}
