// Package dataset loads the labelled e-mail table and turns it into the
// feature matrix and label vector used by the estimators.
package dataset

import (
	"math"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	// Int64 columns hold numbers that are all integral and never missing.
	Int64 Kind = iota
	// Float64 columns hold numbers, possibly NaN.
	Float64
	// Object columns hold text.
	Object
)

func (k Kind) String() string {
	switch k {
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	default:
		return "object"
	}
}

// missingTokens are the text cells read as missing values.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

// Column is one named column. Numeric columns use Floats, object columns use
// Strings.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == Object {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// IsMissing reports whether row i holds a missing value.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Object {
		_, ok := missingTokens[strings.TrimSpace(c.Strings[i])]
		return ok
	}
	return math.IsNaN(c.Floats[i])
}

// Format renders row i the way the console report prints cells.
func (c *Column) Format(i int) string {
	switch c.Kind {
	case Object:
		if c.IsMissing(i) {
			return "NaN"
		}
		return c.Strings[i]
	case Int64:
		return formatInt(c.Floats[i])
	default:
		return formatFloat(c.Floats[i])
	}
}

// Frame is an in-memory table with named, typed columns of equal length.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewFrame builds a Frame from columns of equal length. Numeric columns
// whose values are all integral are typed Int64, the rest Float64.
func NewFrame(columns []*Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, newColumnLengthError(c.Name, f.rows, c.Len())
		}
		if _, dup := f.index[c.Name]; dup {
			return nil, newDuplicateColumnError(c.Name)
		}
		if c.Kind != Object {
			c.Kind = inferNumericKind(c.Floats)
		}
		f.index[c.Name] = i
		f.columns = append(f.columns, c)
	}
	return f, nil
}

func inferNumericKind(values []float64) Kind {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return Float64
		}
	}
	return Int64
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return f.rows, len(f.columns)
}

// Columns returns the columns in file order.
func (f *Frame) Columns() []*Column {
	return f.columns
}

// ColumnNames returns the column names in file order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// ColumnIndex returns the position of the named column, or -1.
func (f *Frame) ColumnIndex(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	return -1
}
