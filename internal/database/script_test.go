package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"portfoliodb/internal/testutil"
)

func TestSplitStatements(t *testing.T) {
	script := "CREATE TABLE a (id INTEGER);\n\n  INSERT INTO a VALUES (1) ;;\n   \nINSERT INTO a VALUES (2)"
	got := SplitStatements(script)

	want := []string{
		"CREATE TABLE a (id INTEGER);",
		"INSERT INTO a VALUES (1);",
		"INSERT INTO a VALUES (2);",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d statements, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if n := len(SplitStatements("  ;\n; ")); n != 0 {
		t.Errorf("expected no statements from an empty script, got %d", n)
	}
}

func writeScript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.sql")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestExecScript(t *testing.T) {
	ctx := context.Background()

	t.Run("runs_in_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		path := writeScript(t, "INSERT INTO clients (first_name, last_name) VALUES ('Jane', 'Doe');\n"+
			"INSERT INTO portfolios (client_id, cash_balance) VALUES (1, 500);\n")

		n, err := ExecScript(ctx, db, path)
		testutil.AssertNoError(t, err)
		if n != 2 {
			t.Errorf("expected 2 statements, got %d", n)
		}
		testutil.AssertRowCount(t, db, "portfolios", 1)
	})

	t.Run("missing_file", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := ExecScript(ctx, db, filepath.Join(t.TempDir(), "nope.sql"))
		testutil.AssertAppError(t, err, "SCRIPT_NOT_FOUND")
	})

	t.Run("rolls_back_on_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		path := writeScript(t, "INSERT INTO clients (first_name, last_name) VALUES ('Jane', 'Doe');\n"+
			"INSERT INTO no_such_table VALUES (1);\n")

		_, err := ExecScript(ctx, db, path)
		testutil.AssertAppError(t, err, "SCRIPT_FAILED")
		testutil.AssertEmpty(t, db, "clients")
	})
}
