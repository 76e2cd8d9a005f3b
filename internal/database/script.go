package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
)

// SplitStatements splits a SQL script on the ';' delimiter, trims every
// fragment, drops empty ones and re-appends the terminator.
// Semicolons inside string literals or function bodies are not understood.
func SplitStatements(script string) []string {
	var stmts []string
	for _, raw := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt+";")
	}
	return stmts
}

// ExecScript runs every statement of the SQL file at path, in file order, in
// one transaction that is committed once at the end. It returns the number of
// statements executed.
func ExecScript(ctx context.Context, db *gorm.DB, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, apperrors.Wrap(apperrors.ErrScriptNotFound, err)
		}
		return 0, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	stmts := SplitStatements(string(content))
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("statement %d of %s: %w", i+1, path, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrScriptFailed, err)
	}

	logger.Get().Infof("executed %d statement(s) from %s", len(stmts), path)
	return len(stmts), nil
}
