// Package render formats query results as plain-text tables.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// Empty is printed instead of a table with no rows.
const Empty = "No results found."

// Null is how a NULL cell is shown.
const Null = "NULL"

// Format lays out columns and rows as a left-aligned table: a header, a
// dashed separator and one line per row, with columns joined by " | ".
// Widths are measured in terminal cells so wide characters stay aligned.
func Format(columns []string, rows [][]interface{}) string {
	if len(rows) == 0 {
		return Empty
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i := range columns {
			var v interface{}
			if i < len(row) {
				v = row[i]
			}
			s := Cell(v)
			cells[r][i] = s
			if w := runewidth.StringWidth(s); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinPadded(columns, widths))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	lines = append(lines, strings.Join(sep, "-+-"))

	for _, row := range cells {
		lines = append(lines, joinPadded(row, widths))
	}
	return strings.Join(lines, "\n")
}

// Write prints the formatted table followed by a newline.
func Write(w io.Writer, columns []string, rows [][]interface{}) error {
	_, err := fmt.Fprintln(w, Format(columns, rows))
	return err
}

// Cell converts a single value to its display form.
func Cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return Null
	case string:
		return x
	case []byte:
		return string(x)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	case *string:
		if x == nil {
			return Null
		}
		return *x
	default:
		return fmt.Sprint(x)
	}
}

func joinPadded(values []string, widths []int) string {
	padded := make([]string, len(values))
	for i, v := range values {
		padded[i] = runewidth.FillRight(v, widths[i])
	}
	return strings.Join(padded, " | ")
}
