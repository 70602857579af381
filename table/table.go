// Package table holds rows in memory column by column so whole columns can be renamed,
// coerced and projected at once.
package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table is a column-major in-memory table.
// Values are held as interface{} so database NULLs can be represented as nil.
type Table struct {
	columns []string
	index   map[string]int
	data    [][]interface{}
	rows    int
}

// MissingColumnsError is returned by Select when requested columns do not exist.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %v", strings.Join(e.Columns, ", "))
}

// New creates an empty Table with the given column names.
// Duplicate names keep their first position.
func New(columns ...string) *Table {
	t := &Table{index: make(map[string]int)}
	for _, c := range columns {
		if _, ok := t.index[c]; ok {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
		t.data = append(t.data, make([]interface{}, 0))
	}
	return t
}

// AppendRow adds one row of values in column order.
func (t *Table) AppendRow(values []interface{}) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %v values but table has %v columns", len(values), len(t.columns))
	}
	for idx, v := range values {
		t.data[idx] = append(t.data[idx], v)
	}
	t.rows++
	return nil
}

func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// IsEmpty returns true if t is nil or has no rows.
func (t *Table) IsEmpty() bool {
	return t.NumRows() == 0
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	retval := make([]string, len(t.columns))
	copy(retval, t.columns)
	return retval
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the value vector for name.
// The slice is shared with the table.
func (t *Table) Column(name string) ([]interface{}, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.data[idx], true
}

// SetColumn replaces the values of an existing column or appends a new column.
func (t *Table) SetColumn(name string, values []interface{}) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %v values but table has %v rows", name, len(values), t.rows)
	}
	if idx, ok := t.index[name]; ok {
		t.data[idx] = values
		return nil
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	t.data = append(t.data, values)
	return nil
}

// Rename applies fn to every column name.
// If two columns end up with the same name the later one wins the lookup.
func (t *Table) Rename(fn func(string) string) {
	t.index = make(map[string]int, len(t.columns))
	for idx, c := range t.columns {
		n := fn(c)
		t.columns[idx] = n
		t.index[n] = idx
	}
}

// RenameWithMap renames columns found in m; others keep their names.
func (t *Table) RenameWithMap(m map[string]string) {
	t.Rename(func(s string) string {
		if n, ok := m[s]; ok {
			return n
		}
		return s
	})
}

// Select returns a new Table holding only the requested columns in the requested order.
// Column vectors are copied.
func (t *Table) Select(columns ...string) (*Table, error) {
	missing := make([]string, 0)
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Columns: missing}
	}
	retval := New(columns...)
	for _, c := range retval.columns {
		src := t.data[t.index[c]]
		dst := make([]interface{}, len(src))
		copy(dst, src)
		retval.data[retval.index[c]] = dst
	}
	retval.rows = t.rows
	return retval, nil
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []interface{} {
	retval := make([]interface{}, len(t.columns))
	for idx := range t.columns {
		retval[idx] = t.data[idx][i]
	}
	return retval
}

// Record returns row i as a map of column name to value.
func (t *Table) Record(i int) map[string]interface{} {
	retval := make(map[string]interface{}, len(t.columns))
	for idx, c := range t.columns {
		retval[c] = t.data[idx][i]
	}
	return retval
}

// Clone returns a deep copy of the column vectors.
// Values themselves are not copied.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	retval, _ := t.Select(t.columns...)
	return retval
}

// Filter returns a new Table containing the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) (bool, error)) (*Table, error) {
	retval := New(t.columns...)
	for i := 0; i < t.rows; i++ {
		ok, err := keep(i)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := retval.AppendRow(t.Row(i)); err != nil {
				return nil, err
			}
		}
	}
	return retval, nil
}
