// Package migrations creates numbered SQL migration files and applies them
// in order, recording every applied file in the schema_migrations table.
package migrations

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Ext is the extension of migration files.
const Ext = ".sql"

// prefix returns the numeric token before the first '_' of a migration file
// name, and false when that token is not an integer.
func prefix(name string) (int, bool) {
	token, _, _ := strings.Cut(strings.TrimSuffix(name, Ext), "_")
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// listFiles returns the base names of the *.sql files in dir ordered by
// numeric prefix. Names without a numeric prefix sort after numbered ones,
// and ties fall back to lexicographic order. A missing dir yields no files.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		names = append(names, e.Name())
	}
	slices.SortFunc(names, compareNames)
	return names, nil
}

func compareNames(a, b string) int {
	na, okA := prefix(a)
	nb, okB := prefix(b)
	switch {
	case okA && okB && na != nb:
		if na < nb {
			return -1
		}
		return 1
	case okA != okB:
		if okA {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// isBlank reports whether sql holds nothing but whitespace and line comments.
func isBlank(sql string) bool {
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
