package course

import "strings"

// Row holds one record of a source table. Canonical values are addressed by
// Field; columns that matched no synonym are carried in Extra under their
// original header and never leak into canonical lookups.
type Row struct {
	Values map[Field]string
	Extra  map[string]string
}

// NewRow creates an empty row
func NewRow() Row {
	return Row{Values: make(map[Field]string), Extra: make(map[string]string)}
}

// Get returns the canonical value or "" when absent
func (r Row) Get(f Field) string {
	return r.Values[f]
}

// Has reports whether the row carries a non-blank value for f
func (r Row) Has(f Field) bool {
	return strings.TrimSpace(r.Values[f]) != ""
}

// Set stores a canonical value
func (r Row) Set(f Field, v string) {
	r.Values[f] = v
}

// ID returns the row's identifier
func (r Row) ID() string {
	return r.Values[FieldMNR]
}

// Column describes one table column. Canonical columns have Field set;
// pass-through columns only carry their source header.
type Column struct {
	Field  Field
	Header string // header as found in the source file
}

// Canonical reports whether the column was matched to a Field
func (c Column) Canonical() bool { return c.Field != "" }

// Name returns the canonical name, or the source header for pass-through columns
func (c Column) Name() string {
	if c.Canonical() {
		return string(c.Field)
	}
	return c.Header
}

// Table is an ordered sequence of rows sharing a column set. Column order is
// insertion order and row order is source-file order.
type Table struct {
	Source  string
	Columns []Column
	Rows    []Row
}

// HasField reports whether a canonical column exists
func (t *Table) HasField(f Field) bool {
	return t.ColumnIndex(f) >= 0
}

// ColumnIndex returns the position of a canonical column or -1
func (t *Table) ColumnIndex(f Field) int {
	for i, c := range t.Columns {
		if c.Field == f {
			return i
		}
	}
	return -1
}

// ColumnNames lists column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name()
	}
	return names
}

// IDs lists the identifiers in row order
func (t *Table) IDs() []string {
	ids := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		ids[i] = r.ID()
	}
	return ids
}
