package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
)

// AssertAppError checks that err carries an *AppError with code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()
	appErr := requireAppError(t, err, code)
	if appErr.Code != code {
		t.Errorf("expected code %q, got %q (%s)", code, appErr.Code, appErr.Message)
	}
}

// AssertExitCode checks that err carries an *AppError whose exit code is
// code, the status the CLI would terminate with.
func AssertExitCode(t *testing.T, err error, code int) {
	t.Helper()
	appErr := requireAppError(t, err, "")
	if appErr.ExitCode != code {
		t.Errorf("expected exit code %d, got %d (%s: %s)", code, appErr.ExitCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertRowCount checks that table holds exactly want rows.
func AssertRowCount(t *testing.T, db *gorm.DB, table string, want int64) {
	t.Helper()
	if got := CountRows(t, db, table); got != want {
		t.Errorf("%s: expected %d rows, got %d", table, want, got)
	}
}

// AssertEmpty checks that every listed table has no rows.
func AssertEmpty(t *testing.T, db *gorm.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		AssertRowCount(t, db, table, 0)
	}
}

func requireAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		if code != "" {
			t.Fatalf("expected error %q, got nil", code)
		}
		t.Fatal("expected an application error, got nil")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}
