// Package dataset holds the columnar event table the evaluation runs on and
// its SQLite and HTTP acquisition glue.
package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Frame is an ordered collection of equal-length float64 columns, one row per
// event. A frame is built once with AddColumn and Define and read-only after
// that; accessors hand out copies, derived frames never share storage with
// their source.
type Frame struct {
	names []string
	index map[string]int
	cols  [][]float64
	n     int
}

func NewFrame() *Frame {
	return &Frame{index: make(map[string]int)}
}

// AddColumn appends a named column. The first column fixes the row count.
// Duplicate names and mismatched lengths are rejected.
func (f *Frame) AddColumn(name string, values []float64) error {
	if _, exists := f.index[name]; exists {
		return fmt.Errorf("column %q already defined", name)
	}
	if len(f.names) > 0 && len(values) != f.n {
		return fmt.Errorf("column %q has %d rows, frame has %d", name, len(values), f.n)
	}
	col := make([]float64, len(values))
	copy(col, values)
	if len(f.names) == 0 {
		f.n = len(values)
	}
	f.index[name] = len(f.names)
	f.names = append(f.names, name)
	f.cols = append(f.cols, col)
	return nil
}

// Define appends a derived column computed row-by-row from the dep columns.
// fn receives the dep values in dep order; the slice is reused across rows
// and must not be retained.
func (f *Frame) Define(name string, fn func(vals []float64) float64, deps ...string) error {
	if _, exists := f.index[name]; exists {
		return fmt.Errorf("column %q already defined", name)
	}
	depCols := make([][]float64, len(deps))
	for j, d := range deps {
		i, ok := f.index[d]
		if !ok {
			return fmt.Errorf("%w: no column %q", ErrInputAccess, d)
		}
		depCols[j] = f.cols[i]
	}

	col := make([]float64, f.n)
	vals := make([]float64, len(deps))
	for r := 0; r < f.n; r++ {
		for j := range depCols {
			vals[j] = depCols[j][r]
		}
		col[r] = fn(vals)
	}

	f.index[name] = len(f.names)
	f.names = append(f.names, name)
	f.cols = append(f.cols, col)
	return nil
}

func (f *Frame) Len() int { return f.n }

// Columns returns the column names in definition order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrInputAccess, name)
	}
	out := make([]float64, f.n)
	copy(out, f.cols[i])
	return out, nil
}

func (f *Frame) Min(name string) (float64, error) {
	i, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: no column %q", ErrInputAccess, name)
	}
	if f.n == 0 {
		return 0, fmt.Errorf("%w: column %q is empty", ErrInputAccess, name)
	}
	return floats.Min(f.cols[i]), nil
}

func (f *Frame) Max(name string) (float64, error) {
	i, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: no column %q", ErrInputAccess, name)
	}
	if f.n == 0 {
		return 0, fmt.Errorf("%w: column %q is empty", ErrInputAccess, name)
	}
	return floats.Max(f.cols[i]), nil
}

// CountIf counts rows whose value in the named column satisfies pred.
func (f *Frame) CountIf(name string, pred func(float64) bool) (int, error) {
	i, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: no column %q", ErrInputAccess, name)
	}
	var count int
	for _, v := range f.cols[i] {
		if pred(v) {
			count++
		}
	}
	return count, nil
}

// Selection is a row predicate over named columns. Pass receives the values
// of Cols in order; the slice is reused across rows.
type Selection struct {
	Cols []string
	Pass func(vals []float64) bool
}

// Filter returns a new frame holding the rows that pass sel, all columns
// kept in order.
func (f *Frame) Filter(sel Selection) (*Frame, error) {
	mask, err := f.mask(sel)
	if err != nil {
		return nil, err
	}
	rows := make([]int, 0, f.n)
	for r, keep := range mask {
		if keep {
			rows = append(rows, r)
		}
	}
	return f.subset(rows, f.names)
}

// Project returns a new frame holding only the named columns.
func (f *Frame) Project(names ...string) (*Frame, error) {
	rows := make([]int, f.n)
	for r := range rows {
		rows[r] = r
	}
	return f.subset(rows, names)
}

// mask evaluates sel for every row. A nil Pass selects everything.
func (f *Frame) mask(sel Selection) ([]bool, error) {
	mask := make([]bool, f.n)
	if sel.Pass == nil {
		for r := range mask {
			mask[r] = true
		}
		return mask, nil
	}
	depCols := make([][]float64, len(sel.Cols))
	for j, d := range sel.Cols {
		i, ok := f.index[d]
		if !ok {
			return nil, fmt.Errorf("%w: no column %q", ErrInputAccess, d)
		}
		depCols[j] = f.cols[i]
	}
	vals := make([]float64, len(sel.Cols))
	for r := 0; r < f.n; r++ {
		for j := range depCols {
			vals[j] = depCols[j][r]
		}
		mask[r] = sel.Pass(vals)
	}
	return mask, nil
}

func (f *Frame) subset(rows []int, names []string) (*Frame, error) {
	out := NewFrame()
	for _, name := range names {
		i, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: no column %q", ErrInputAccess, name)
		}
		col := make([]float64, 0, len(rows))
		for _, r := range rows {
			col = append(col, f.cols[i][r])
		}
		if err := out.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}
