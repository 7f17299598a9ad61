package model

import (
	"fmt"
	"strconv"
	"time"
)

// Value is a table cell. Valid is false for the explicit "no value" marker.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a defined cell.
func Some(v float64) Value { return Value{Float: v, Valid: true} }

// None is the missing-value marker.
var None = Value{}

// MarshalJSON renders a missing cell as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Float, 'f', -1, 64), nil
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = None
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("decode value %s: %w", b, err)
	}
	*v = Some(f)
	return nil
}

// Row is one timestamp of a JoinedTable. Values is parallel to the table's
// Columns.
type Row struct {
	Time   time.Time
	Values []Value
}

// JoinedTable is the outer join of several asset series on timestamp.
// Columns only contains assets that returned data. Tables are shared by the
// cache and must be treated as immutable.
type JoinedTable struct {
	Columns   []string
	Rows      []Row
	FetchedAt time.Time
}

// Empty reports whether no asset produced data.
func (t JoinedTable) Empty() bool { return len(t.Columns) == 0 }

// ColumnIndex returns the position of the named column or -1.
func (t JoinedTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of one column in row order, or nil when the
// column is absent.
func (t JoinedTable) Column(name string) []Value {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Values[idx]
	}
	return out
}

// Descending returns a copy of the table with rows newest first.
func (t JoinedTable) Descending() JoinedTable {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[len(t.Rows)-1-i] = r
	}
	return JoinedTable{Columns: t.Columns, Rows: rows, FetchedAt: t.FetchedAt}
}
