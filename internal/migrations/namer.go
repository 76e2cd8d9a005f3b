package migrations

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
)

const header = "-- Migration: %s\n-- Created: %s\n\n-- Write your SQL changes below\n"

// Namer creates migration files named <NNN>_<name>.sql, where NNN is one
// more than the highest numeric prefix already present in Dir.
type Namer struct {
	Dir string
	now func() time.Time
}

// NewNamer returns a Namer writing into dir.
func NewNamer(dir string) *Namer {
	return &Namer{Dir: dir, now: time.Now}
}

// Next returns the prefix the next migration file will get. Prefixes are
// zero-padded to three digits and widen past 999.
func (n *Namer) Next() (string, error) {
	entries, err := os.ReadDir(n.Dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.Wrap(apperrors.ErrInternal, err)
	}

	highest := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		if p, ok := prefix(e.Name()); ok && p > highest {
			highest = p
		}
	}
	return fmt.Sprintf("%03d", highest+1), nil
}

// Create writes a new migration file with a comment header and returns its
// path. It never overwrites an existing file.
func (n *Namer) Create(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Migration name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Migration name must not contain path separators")
	}

	if err := os.MkdirAll(n.Dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternal, err)
	}

	next, err := n.Next()
	if err != nil {
		return "", err
	}
	path := filepath.Join(n.Dir, next+"_"+name+Ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", apperrors.Wrap(apperrors.ErrMigrationExists, err)
		}
		return "", apperrors.Wrap(apperrors.ErrInternal, err)
	}
	defer f.Close()

	created := n.now().Format("2006-01-02 15:04:05.000000")
	if _, err := fmt.Fprintf(f, header, name, created); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternal, err)
	}

	logger.Get().Infof("Created migration file: %s", path)
	return path, nil
}
