package framesql

import (
	"fmt"
	"strings"
)

// missingValue is the type of the Missing sentinel.
type missingValue struct{}

// String implements fmt.Stringer so missing cells print recognizably.
func (missingValue) String() string {
	return "<missing>"
}

// Missing marks a cell without a value. It is written to the database as
// NULL, alongside nil and NaN floats. Readers produce Missing for datetime
// columns whose text could not be parsed.
var Missing = missingValue{}

// Column is one named, typed column of a frame. Values holds one cell per
// row; cells may be nil, Missing, or any SQL-bindable scalar.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Frame is an ordered collection of equal-length columns, the in-memory
// tabular structure written to and read from the database.
type Frame struct {
	columns []Column
	numRows int
}

// NewFrame creates a frame from the given columns. All columns must have the
// same number of values, and column names must be unique after trimming
// whitespace.
func NewFrame(columns ...Column) (*Frame, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyFrame
	}

	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.Name)
	}
	if err := validateColumnNames(names); err != nil {
		return nil, err
	}

	numRows := len(columns[0].Values)
	for _, col := range columns {
		if len(col.Values) != numRows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d",
				ErrColumnLength, col.Name, len(col.Values), numRows)
		}
	}

	return &Frame{
		columns: columns,
		numRows: numRows,
	}, nil
}

// NumRows returns the number of rows in the frame.
func (f *Frame) NumRows() int {
	return f.numRows
}

// NumColumns returns the number of columns in the frame.
func (f *Frame) NumColumns() int {
	return len(f.columns)
}

// Columns returns the frame's columns in declaration order.
func (f *Frame) Columns() []Column {
	return f.columns
}

// ColumnNames returns the column names in declaration order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.columns))
	for i, col := range f.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column and whether it exists.
func (f *Frame) Column(name string) (Column, bool) {
	for _, col := range f.columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Row returns the cells of row i in column order.
func (f *Frame) Row(i int) []any {
	row := make([]any, len(f.columns))
	for j, col := range f.columns {
		row[j] = col.Values[i]
	}
	return row
}

// Equal reports whether two frames have the same columns, kinds, and cells.
func (f *Frame) Equal(other *Frame) bool {
	if f.numRows != other.numRows || len(f.columns) != len(other.columns) {
		return false
	}
	for i, col := range f.columns {
		otherCol := other.columns[i]
		if col.Name != otherCol.Name || col.Kind != otherCol.Kind {
			return false
		}
		for j, v := range col.Values {
			if v != otherCol.Values[j] {
				return false
			}
		}
	}
	return true
}

// validateColumnNames checks for duplicate column names and returns an error
// if found. Comparison is case-sensitive after trimming whitespace.
func validateColumnNames(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if seen[trimmed] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, col)
		}
		seen[trimmed] = true
	}
	return nil
}
