// Package sheet provides access to the roster spreadsheet: retrieving the
// worksheet as an ordered table of rows and translating the configured
// column mapping into typed field access.
package sheet

import "fmt"

// Row is one spreadsheet row as an ordered sequence of cell values. It is
// ephemeral: rows exist only during one pipeline run and are discarded
// after validation.
type Row struct {
	// Number is the 1-based position of the row within the worksheet data,
	// excluding the header. Used only for diagnostics.
	Number int

	// Cells are the raw cell values in header order.
	Cells []string
}

// Ref returns an opaque reference to the row for diagnostics.
func (r Row) Ref() string {
	return fmt.Sprintf("%d", r.Number)
}

// Table is the retrieved worksheet: a header set plus data rows.
type Table struct {
	Header []string
	Rows   []Row
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
