package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
)

// Table is the result of a read query: column names plus one slice of
// values per row, in query order.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row for column name.
func (t *Table) Value(row int, name string) (interface{}, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("no column %q", name)
	}
	if row < 0 || row >= len(t.Rows) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	return t.Rows[row][i], nil
}

// Decimal returns the cell at row for column name as a decimal. NULL cells
// yield ok == false.
func (t *Table) Decimal(row int, name string) (d decimal.Decimal, ok bool, err error) {
	v, err := t.Value(row, name)
	if err != nil || v == nil {
		return decimal.Zero, false, err
	}
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n), true, nil
	case float64:
		return decimal.NewFromFloat(n), true, nil
	case string:
		d, err = decimal.NewFromString(n)
		return d, err == nil, err
	case decimal.Decimal:
		return n, true, nil
	}
	return decimal.Zero, false, fmt.Errorf("column %q holds %T, not a number", name, v)
}

// fixColumn rewrites every non-NULL cell of column name as a decimal string
// with places digits after the point, so results read the same on every
// driver.
func (t *Table) fixColumn(name string, places int32) error {
	i := t.Index(name)
	if i < 0 {
		return fmt.Errorf("no column %q", name)
	}
	for row := range t.Rows {
		d, ok, err := t.Decimal(row, name)
		if err != nil {
			return err
		}
		if ok {
			t.Rows[row][i] = d.StringFixed(places)
		}
	}
	return nil
}

// queryTable runs one parameterised statement and collects every row.
func queryTable(ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*Table, error) {
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	table := &Table{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		for i, v := range values {
			values[i] = normalize(v)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return table, nil
}

// normalize turns driver byte slices into strings and strips the location
// from midnight timestamps so dates print as dates.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	}
	return v
}
