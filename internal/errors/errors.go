// Package errors provides custom error types for the portfoliodb CLI.
// Service, migration and database errors should use AppError so the CLI can
// print a stable code and message and pick the right exit status.
package errors

// Exit statuses returned by the CLI.
const (
	ExitFailure    = 1
	ExitUsageError = 2
)

// AppError represents a structured application error with an error code,
// human-readable message, process exit status and optional internal error.
type AppError struct {
	Code     string
	Message  string
	ExitCode int
	Internal error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// wrapped sentinels still match with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/exit code but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		ExitCode: sentinel.ExitCode,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  message,
		ExitCode: sentinel.ExitCode,
		Internal: sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", ExitCode: ExitUsageError}
	ErrNotFound     = &AppError{Code: "NOT_FOUND", Message: "Resource not found", ExitCode: ExitFailure}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", ExitCode: ExitFailure}
)

// Configuration and connection errors.
var (
	ErrInvalidConfig       = &AppError{Code: "INVALID_CONFIG", Message: "Invalid configuration", ExitCode: ExitFailure}
	ErrDatabaseUnavailable = &AppError{Code: "DATABASE_UNAVAILABLE", Message: "Could not connect to the database", ExitCode: ExitFailure}
)

// Script errors.
var (
	ErrScriptNotFound = &AppError{Code: "SCRIPT_NOT_FOUND", Message: "SQL script not found", ExitCode: ExitFailure}
	ErrScriptFailed   = &AppError{Code: "SCRIPT_FAILED", Message: "SQL script failed", ExitCode: ExitFailure}
)

// Trade errors.
var (
	ErrInvalidTradeSide = &AppError{Code: "INVALID_TRADE_SIDE", Message: "side must be 'BUY' or 'SELL'", ExitCode: ExitFailure}
)

// Migration errors.
var (
	ErrMigrationNotFound = &AppError{Code: "MIGRATION_NOT_FOUND", Message: "Migration file not found", ExitCode: ExitFailure}
	ErrMigrationExists   = &AppError{Code: "MIGRATION_EXISTS", Message: "Migration file already exists", ExitCode: ExitFailure}
	ErrMigrationFailed   = &AppError{Code: "MIGRATION_FAILED", Message: "Migration failed", ExitCode: ExitFailure}
)

// Entity errors.
var (
	ErrClientNotFound    = &AppError{Code: "CLIENT_NOT_FOUND", Message: "Client not found", ExitCode: ExitFailure}
	ErrPortfolioNotFound = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", ExitCode: ExitFailure}
	ErrAssetNotFound     = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", ExitCode: ExitFailure}
	ErrDuplicatePrice    = &AppError{Code: "DUPLICATE_PRICE", Message: "A price for this asset and date already exists", ExitCode: ExitFailure}
)
