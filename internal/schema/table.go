package schema

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Row is one record keyed by column name. All cells are stored as the
// strings they carry in the backing file; typed access goes through the
// accessor methods.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Float parses the named cell as a float. The second return is false for
// missing or unparseable cells.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int parses the named cell as an integer.
func (r Row) Int(col string) (int, bool) {
	v, ok := r[col]
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bool parses the named cell as a boolean. Accepts the Go forms plus the
// "True"/"False" capitalization the original datasets carry.
func (r Row) Bool(col string) (value, ok bool) {
	v, exists := r[col]
	if !exists || v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
	if err != nil {
		return false, false
	}
	return b, true
}

// Date parses the named cell using the table date layout.
func (r Row) Date(col string) (time.Time, bool) {
	v, ok := r[col]
	if !ok || v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Table is the in-memory image of one entity's flat file: an ordered
// column list plus rows. It mirrors the backing file one to one.
type Table struct {
	Kind    Kind
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the canonical columns of desc.
func NewTable(desc *Descriptor) *Table {
	return &Table{
		Kind:    desc.Kind,
		Columns: desc.ColumnNames(),
		Rows:    nil,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Append adds a row to the end of the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Find returns the index of the row with the given id, or -1.
func (t *Table) Find(id string) int {
	for i, row := range t.Rows {
		if row[ColumnID] == id {
			return i
		}
	}
	return -1
}

// IDs returns the id column of every row, in table order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		ids = append(ids, row[ColumnID])
	}
	return ids
}

// RemoveAt deletes the row at index i, preserving order.
func (t *Table) RemoveAt(i int) {
	t.Rows = slices.Delete(t.Rows, i, i+1)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Kind:    t.Kind,
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.Clone())
	}
	return out
}
