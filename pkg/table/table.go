package table

import (
	"slices"

	"github.com/matzehuels/tracelayout/pkg/errors"
)

// ColumnSpec describes one column of a schema.
type ColumnSpec struct {
	Name string
	Type Type
	// Hidden marks the argument column of a computed table.
	Hidden bool
}

// Schema is the ordered column list of a table.
type Schema []ColumnSpec

// Index returns the position of the named column.
func (s Schema) Index(name string) (int, bool) {
	for i, c := range s {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Name
	}
	return out
}

// Table is a fully materialized, named list of columns of equal length.
type Table struct {
	name    string
	columns []Column
	rows    int
}

// New builds a table. All columns must have the same length and distinct
// names.
func New(name string, columns ...Column) (*Table, error) {
	t := &Table{name: name, columns: columns}
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if seen[c.Name()] {
			return nil, errors.New(errors.ErrCodeInternal, "table %s: duplicate column %q", name, c.Name())
		}
		seen[c.Name()] = true
		if i == 0 {
			t.rows = c.Len()
			continue
		}
		if c.Len() != t.rows {
			return nil, errors.New(errors.ErrCodeInternal,
				"table %s: column %q has %d rows, want %d", name, c.Name(), c.Len(), t.rows)
		}
	}
	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return t.rows }

// Columns returns the columns in schema order.
func (t *Table) Columns() []Column { return t.columns }

// Column returns the column at index i.
func (t *Table) Column(i int) Column { return t.columns[i] }

// ColumnByName returns the named column, or nil if there is none.
func (t *Table) ColumnByName(name string) Column {
	for _, c := range t.columns {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Schema returns the table's schema. Materialized tables never mark a
// column hidden.
func (t *Table) Schema() Schema {
	s := make(Schema, len(t.columns))
	for i, c := range t.columns {
		s[i] = ColumnSpec{Name: c.Name(), Type: c.Type()}
	}
	return s
}

// Row returns the values of row i in schema order.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.columns))
	for j, c := range t.columns {
		out[j] = c.Get(i)
	}
	return out
}

// Select returns a table holding the given rows, in the given order.
func (t *Table) Select(rows []int) *Table {
	cols := make([]Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Select(rows)
	}
	return &Table{name: t.name, columns: cols, rows: len(rows)}
}

// Filter returns the rows matching every constraint.
func (t *Table) Filter(cs []Constraint) (*Table, error) {
	if len(cs) == 0 {
		return t, nil
	}
	for _, c := range cs {
		if err := t.checkColumn(c.Column); err != nil {
			return nil, err
		}
	}

	match := make([]func(row int) bool, len(cs))
	for i, c := range cs {
		match[i] = matcher(t.columns[c.Column], c)
	}

	var keep []int
	for row := range t.rows {
		ok := true
		for _, m := range match {
			if !m(row) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, row)
		}
	}
	return t.Select(keep), nil
}

// matcher returns a row predicate for c. Equality on an interned column
// compares handles, so the literal is looked up once instead of resolving
// every row.
func matcher(col Column, c Constraint) func(row int) bool {
	if sc, ok := col.(*StringColumn); ok && c.Op == OpEq && c.Value.Type == TypeString {
		id, found := sc.pool.Lookup(c.Value.Str)
		if !found {
			return func(int) bool { return false }
		}
		return func(row int) bool { return sc.data[row] == id }
	}
	return func(row int) bool { return c.Op.Matches(col.Get(row), c.Value) }
}

// Sort returns the rows ordered by the given orderings. The sort is stable,
// so rows that compare equal keep their relative order.
func (t *Table) Sort(orders []Order) (*Table, error) {
	if len(orders) == 0 {
		return t, nil
	}
	for _, o := range orders {
		if err := t.checkColumn(o.Column); err != nil {
			return nil, err
		}
	}

	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	slices.SortStableFunc(rows, func(a, b int) int {
		for _, o := range orders {
			col := t.columns[o.Column]
			c, _ := col.Get(a).Compare(col.Get(b))
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return t.Select(rows), nil
}

func (t *Table) checkColumn(i int) error {
	if i < 0 || i >= len(t.columns) {
		return errors.New(errors.ErrCodeInvalidArgument, "table %s has no column %d", t.name, i)
	}
	return nil
}
