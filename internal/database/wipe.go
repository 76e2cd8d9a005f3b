package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
)

// DataTables lists every data table, children before parents.
// The schema_migrations ledger is never wiped.
var DataTables = []string{"asset_notes", "trades", "prices", "portfolios", "assets", "clients"}

// Wipe deletes every row of every data table and resets identity sequences.
//
// On PostgreSQL referential integrity is suspended for the session while the
// tables are truncated, and restored before commit. Nothing guards against
// writers in other sessions.
func Wipe(ctx context.Context, db *gorm.DB) error {
	var err error
	if IsSQLite(db) {
		err = wipeSQLite(ctx, db)
	} else {
		err = wipePostgres(ctx, db)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	logger.Get().Info("database reset: all data deleted and sequences reset")
	return nil
}

func wipePostgres(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET session_replication_role = 'replica'").Error; err != nil {
			return fmt.Errorf("disable triggers: %w", err)
		}
		for _, table := range DataTables {
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("truncate %s: %w", table, err)
			}
		}
		if err := tx.Exec("SET session_replication_role = 'origin'").Error; err != nil {
			return fmt.Errorf("enable triggers: %w", err)
		}
		return nil
	})
}

func wipeSQLite(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range DataTables {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}

		var sequences int64
		if err := tx.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").
			Scan(&sequences).Error; err != nil {
			return err
		}
		if sequences == 0 {
			return nil
		}
		return tx.Exec("DELETE FROM sqlite_sequence WHERE name IN ?", DataTables).Error
	})
}
