package table

import (
	"fmt"
	"slices"
)

// Table is a loaded columnar batch of events: a fixed column set and one
// generic value row per event. It is immutable through its methods; Drop
// returns a reduced copy. Values are scalars, string lists, or nil for
// absent optionals.
type Table struct {
	columns []string
	rows    []map[string]any
}

// New creates a table from explicit columns and rows. Intended for the
// document builder's callers and tests; production tables come from Load.
func New(columns []string, rows []map[string]any) *Table {
	return &Table{
		columns: slices.Clone(columns),
		rows:    rows,
	}
}

// Columns returns the column names in schema order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// HasColumn reports whether the named column is part of the schema.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.columns, name)
}

// Rows returns the underlying rows in table order. Callers must not
// mutate them.
func (t *Table) Rows() []map[string]any {
	return t.rows
}

// ColumnStrings extracts one column as strings, in row order. Non-string
// scalars are formatted; nil values become empty strings.
func (t *Table) ColumnStrings(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		value := row[name]
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			values[i] = s
		} else {
			values[i] = fmt.Sprint(value)
		}
	}
	return values, nil
}

// Drop returns a copy of the table without the named column. Dropping an
// unknown column is a no-op copy.
func (t *Table) Drop(name string) *Table {
	columns := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		if col != name {
			columns = append(columns, col)
		}
	}

	rows := make([]map[string]any, len(t.rows))
	for i, row := range t.rows {
		reduced := make(map[string]any, len(row))
		for k, v := range row {
			if k != name {
				reduced[k] = v
			}
		}
		rows[i] = reduced
	}

	return &Table{columns: columns, rows: rows}
}
