package migrations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"portfoliodb/internal/models"
	"portfoliodb/internal/testutil"
	"portfoliodb/internal/uuid"
)

func writeMigration(t *testing.T, dir, name, sql string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sql), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func hasTable(db *gorm.DB, name string) bool {
	return db.Migrator().HasTable(name)
}

func TestApplyAll(t *testing.T) {
	ctx := context.Background()

	t.Run("absent_dir_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		report, err := NewApplier(db, filepath.Join(t.TempDir(), "missing")).ApplyAll(ctx)
		testutil.AssertNoError(t, err)
		if len(report.Applied) != 0 || report.Failed != "" {
			t.Errorf("expected an empty report, got %+v", report)
		}
		if hasTable(db, "schema_migrations") {
			t.Error("ledger table should not be created for an absent directory")
		}
	})

	t.Run("empty_dir_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		report, err := NewApplier(db, t.TempDir()).ApplyAll(ctx)
		testutil.AssertNoError(t, err)
		if len(report.Applied) != 0 {
			t.Errorf("expected nothing applied, got %v", report.Applied)
		}
		if hasTable(db, "schema_migrations") {
			t.Error("ledger table should not be created for an empty directory")
		}
	})

	t.Run("applies_in_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		dir := t.TempDir()
		writeMigration(t, dir, "002_fill.sql", "INSERT INTO widgets (id) VALUES (1);\nINSERT INTO widgets (id) VALUES (2);")
		writeMigration(t, dir, "001_create.sql", "CREATE TABLE widgets (id INTEGER PRIMARY KEY);")

		report, err := NewApplier(db, dir).ApplyAll(ctx)
		testutil.AssertNoError(t, err)

		if len(report.Applied) != 2 || report.Applied[0] != "001_create.sql" || report.Applied[1] != "002_fill.sql" {
			t.Errorf("unexpected applied order %v", report.Applied)
		}
		if !uuid.IsValid(report.Batch) {
			t.Errorf("expected a UUID batch id, got %q", report.Batch)
		}
		if got := testutil.CountRows(t, db, "widgets"); got != 2 {
			t.Errorf("expected 2 widgets, got %d", got)
		}

		var ledger []models.SchemaMigration
		db.Order("filename").Find(&ledger)
		if len(ledger) != 2 {
			t.Fatalf("expected 2 ledger rows, got %d", len(ledger))
		}
		for _, m := range ledger {
			if m.Batch != report.Batch {
				t.Errorf("%s: expected batch %s, got %s", m.Filename, report.Batch, m.Batch)
			}
		}
	})

	t.Run("stops_at_first_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		dir := t.TempDir()
		writeMigration(t, dir, "001_a.sql", "CREATE TABLE a (id INTEGER);")
		writeMigration(t, dir, "002_b.sql", "CREATE TABLE b (id INTEGER);\nINSERT INTO no_such_table VALUES (1);")
		writeMigration(t, dir, "003_c.sql", "CREATE TABLE c (id INTEGER);")

		report, err := NewApplier(db, dir).ApplyAll(ctx)
		testutil.AssertAppError(t, err, "MIGRATION_FAILED")

		if report.Failed != "002_b.sql" {
			t.Errorf("expected 002_b.sql to fail, got %q", report.Failed)
		}
		if len(report.Applied) != 1 || report.Applied[0] != "001_a.sql" {
			t.Errorf("expected only 001_a.sql applied, got %v", report.Applied)
		}
		if !hasTable(db, "a") {
			t.Error("expected table a from 001 to exist")
		}
		if hasTable(db, "b") {
			t.Error("expected 002 to be rolled back")
		}
		if hasTable(db, "c") {
			t.Error("expected 003 not to run")
		}
		testutil.AssertRowCount(t, db, "schema_migrations", 1)
	})

	t.Run("skips_applied_files", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		dir := t.TempDir()
		writeMigration(t, dir, "001_create.sql", "CREATE TABLE widgets (id INTEGER);")
		applier := NewApplier(db, dir)

		_, err := applier.ApplyAll(ctx)
		testutil.AssertNoError(t, err)

		writeMigration(t, dir, "002_more.sql", "INSERT INTO widgets (id) VALUES (1);")
		report, err := applier.ApplyAll(ctx)
		testutil.AssertNoError(t, err)

		if len(report.Skipped) != 1 || report.Skipped[0] != "001_create.sql" {
			t.Errorf("expected 001_create.sql skipped, got %v", report.Skipped)
		}
		if len(report.Applied) != 1 || report.Applied[0] != "002_more.sql" {
			t.Errorf("expected 002_more.sql applied, got %v", report.Applied)
		}
	})

	t.Run("header_only_file", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		dir := t.TempDir()
		_, err := NewNamer(dir).Create("placeholder")
		testutil.AssertNoError(t, err)

		report, err := NewApplier(db, dir).ApplyAll(ctx)
		testutil.AssertNoError(t, err)
		if len(report.Applied) != 1 {
			t.Errorf("expected the placeholder to be recorded, got %+v", report)
		}
	})
}

func TestApplyFile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies_and_records", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		path := writeMigration(t, t.TempDir(), "001_add_column.sql", "ALTER TABLE assets ADD COLUMN exchange TEXT;")
		applier := NewApplier(db, filepath.Dir(path))

		applied, err := applier.ApplyFile(ctx, path)
		testutil.AssertNoError(t, err)
		if !applied {
			t.Error("expected the file to be applied")
		}
		if !db.Migrator().HasColumn("assets", "exchange") {
			t.Error("expected assets.exchange to exist")
		}

		applied, err = applier.ApplyFile(ctx, path)
		testutil.AssertNoError(t, err)
		if applied {
			t.Error("expected the second run to be skipped")
		}
	})

	t.Run("same_base_name_other_dir", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		dir := t.TempDir()
		first := writeMigration(t, dir, "001_x.sql", "CREATE TABLE first_x (id INTEGER);")
		other := filepath.Join(dir, "other")
		if err := os.Mkdir(other, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", other, err)
		}
		second := writeMigration(t, other, "001_x.sql", "CREATE TABLE second_x (id INTEGER);")
		applier := NewApplier(db, dir)

		applied, err := applier.ApplyFile(ctx, first)
		testutil.AssertNoError(t, err)
		if !applied {
			t.Fatal("expected the first file to be applied")
		}

		applied, err = applier.ApplyFile(ctx, second)
		testutil.AssertNoError(t, err)
		if applied {
			t.Error("expected a file with an applied base name to be skipped")
		}
		if hasTable(db, "second_x") {
			t.Error("expected the skipped file not to run")
		}
		testutil.AssertRowCount(t, db, "schema_migrations", 1)
	})

	t.Run("missing_file", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewApplier(db, "").ApplyFile(ctx, filepath.Join(t.TempDir(), "404_missing.sql"))
		testutil.AssertAppError(t, err, "MIGRATION_NOT_FOUND")
	})

	t.Run("invalid_sql", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		path := writeMigration(t, t.TempDir(), "001_bad.sql", "THIS IS NOT SQL;")

		_, err := NewApplier(db, filepath.Dir(path)).ApplyFile(ctx, path)
		testutil.AssertAppError(t, err, "MIGRATION_FAILED")
		testutil.AssertEmpty(t, db, "schema_migrations")
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	dir := t.TempDir()
	writeMigration(t, dir, "001_a.sql", "CREATE TABLE a (id INTEGER);")
	applier := NewApplier(db, dir)

	statuses, err := applier.Status(ctx)
	testutil.AssertNoError(t, err)
	if len(statuses) != 1 || statuses[0].Applied {
		t.Fatalf("expected one pending file before the ledger exists, got %+v", statuses)
	}

	_, err = applier.ApplyAll(ctx)
	testutil.AssertNoError(t, err)
	writeMigration(t, dir, "002_b.sql", "CREATE TABLE b (id INTEGER);")

	statuses, err = applier.Status(ctx)
	testutil.AssertNoError(t, err)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 files, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil {
		t.Errorf("expected 001_a.sql applied, got %+v", statuses[0])
	}
	if statuses[1].Applied {
		t.Errorf("expected 002_b.sql pending, got %+v", statuses[1])
	}
}
