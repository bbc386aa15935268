// Package reference loads the auxiliary flat-file extracts (insurance
// status by account, payment status by order) into normalized in-memory
// tables. Column headers are normalized on load so lookups are forgiving of
// header formatting.
package reference

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader lower-cases a column header and collapses every run of
// non-alphanumeric characters to a single underscore, e.g.
// "Next Payment Due" and "NextPayment-Due " both normalize predictably.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = nonAlnum.ReplaceAllString(h, "_")
	return strings.Trim(h, "_")
}

// Row is one record keyed by normalized column name.
type Row map[string]string

// Get returns the trimmed cell value, "" when the column is absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Table is a loaded extract.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries the normalized column.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// FirstPresentColumn returns the first candidate column present in the
// table, or "".
func (t *Table) FirstPresentColumn(candidates []string) string {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c
		}
	}
	return ""
}

// FindExact returns the first row whose column equals value after trimming.
func (t *Table) FindExact(col, value string) (Row, bool) {
	want := strings.TrimSpace(value)
	for _, row := range t.Rows {
		if row.Get(col) == want {
			return row, true
		}
	}
	return nil, false
}

func tableFromRecords(records [][]string) *Table {
	t := &Table{}
	if len(records) == 0 {
		return t
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = NormalizeHeader(h)
	}
	t.Columns = headers

	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" || i >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[i])
			row[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}
