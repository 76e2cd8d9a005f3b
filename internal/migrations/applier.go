package migrations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
	"portfoliodb/internal/models"
	"portfoliodb/internal/uuid"
)

// Report summarises one ApplyAll run.
type Report struct {
	Batch   string
	Applied []string
	Skipped []string
	// Failed is the file that stopped the run, empty when none did.
	Failed string
}

// FileStatus is the ledger state of one migration file.
type FileStatus struct {
	Filename  string
	Applied   bool
	Batch     string
	AppliedAt *time.Time
}

// Applier runs migration files against a database.
type Applier struct {
	db  *gorm.DB
	dir string
	now func() time.Time
}

// NewApplier returns an Applier for the files in dir.
func NewApplier(db *gorm.DB, dir string) *Applier {
	return &Applier{db: db, dir: dir, now: time.Now}
}

// ApplyFile runs a single migration file as one batch and records it in the
// ledger under its base name. It returns false without touching the database
// when that base name is already recorded, even if the earlier file came from
// another directory.
func (a *Applier) ApplyFile(ctx context.Context, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, apperrors.Wrap(apperrors.ErrMigrationNotFound, err)
		}
		return false, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	if err := a.ensureLedger(ctx); err != nil {
		return false, err
	}
	applied, err := a.appliedSet(ctx)
	if err != nil {
		return false, err
	}
	name := filepath.Base(path)
	if applied[name] {
		logger.Get().Infof("Migration %s already applied, skipping", name)
		return false, nil
	}

	if err := a.apply(ctx, path, uuid.New()); err != nil {
		return false, err
	}
	return true, nil
}

// ApplyAll applies every pending file in the directory in prefix order and
// stops at the first failure. An absent or empty directory is a no-op.
func (a *Applier) ApplyAll(ctx context.Context) (*Report, error) {
	log := logger.Get()
	report := &Report{}

	files, err := listFiles(a.dir)
	if err != nil {
		return report, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if len(files) == 0 {
		log.Infof("No migration files found in %s", a.dir)
		return report, nil
	}

	if err := a.ensureLedger(ctx); err != nil {
		return report, err
	}
	applied, err := a.appliedSet(ctx)
	if err != nil {
		return report, err
	}

	report.Batch = uuid.New()
	for _, name := range files {
		if applied[name] {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		if err := a.apply(ctx, filepath.Join(a.dir, name), report.Batch); err != nil {
			log.Errorw("migration failed", "file", name, "error", err)
			report.Failed = name
			return report, err
		}
		report.Applied = append(report.Applied, name)
	}

	log.Infof("Applied %d migration(s), skipped %d", len(report.Applied), len(report.Skipped))
	return report, nil
}

// Status lists every migration file in the directory with its ledger state.
// Ledger rows whose file no longer exists are not reported.
func (a *Applier) Status(ctx context.Context) ([]FileStatus, error) {
	files, err := listFiles(a.dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	rows := make(map[string]models.SchemaMigration)
	if a.db.WithContext(ctx).Migrator().HasTable(&models.SchemaMigration{}) {
		var ledger []models.SchemaMigration
		if err := a.db.WithContext(ctx).Find(&ledger).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		for _, m := range ledger {
			rows[m.Filename] = m
		}
	}

	statuses := make([]FileStatus, 0, len(files))
	for _, name := range files {
		st := FileStatus{Filename: name}
		if m, ok := rows[name]; ok {
			appliedAt := m.AppliedAt
			st.Applied = true
			st.Batch = m.Batch
			st.AppliedAt = &appliedAt
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// apply executes the whole file text in one call and inserts the ledger row
// in the same transaction.
func (a *Applier) apply(ctx context.Context, path, batch string) error {
	name := filepath.Base(path)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.Wrap(apperrors.ErrMigrationNotFound, err)
		}
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sql := string(content); !isBlank(sql) {
			if err := tx.Exec(sql).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.SchemaMigration{
			Filename:  name,
			Batch:     batch,
			AppliedAt: a.now().UTC(),
		}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrMigrationFailed, fmt.Errorf("%s: %w", name, err))
	}

	logger.Get().Infof("Migration %s applied successfully.", name)
	return nil
}

func (a *Applier) ensureLedger(ctx context.Context) error {
	if err := a.db.WithContext(ctx).AutoMigrate(&models.SchemaMigration{}); err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, fmt.Errorf("create migration ledger: %w", err))
	}
	return nil
}

func (a *Applier) appliedSet(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := a.db.WithContext(ctx).Model(&models.SchemaMigration{}).Pluck("filename", &names).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}
