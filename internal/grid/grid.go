// Package grid provides the dense square scalar buffer the solver works on.
package grid

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotSquare indicates a grid requested with rows != cols.
	ErrNotSquare = errors.New("grid: rows and columns must be equal")

	// ErrEmptyGrid indicates a grid requested with a non-positive dimension.
	ErrEmptyGrid = errors.New("grid: dimensions must be positive")
)

// Grid is a dense row-major buffer addressed as index = col + row*cols.
// Rows and columns are always equal.
type Grid struct {
	rows, cols int
	values     []float64
}

func New(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, rows, cols)
	}
	if rows != cols {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, rows, cols)
	}
	return &Grid{rows: rows, cols: cols, values: make([]float64, rows*cols)}, nil
}

// MustNew is New for sizes known to be valid; it panics otherwise.
func MustNew(size int) *Grid {
	g, err := New(size, size)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Size is the edge length of the grid.
func (g *Grid) Size() int { return g.cols }

func (g *Grid) index(col, row int) int {
	if col < 0 || col >= g.cols {
		panic(fmt.Sprintf("grid: column %d out of range [0,%d)", col, g.cols))
	}
	if row < 0 || row >= g.rows {
		panic(fmt.Sprintf("grid: row %d out of range [0,%d)", row, g.rows))
	}
	return col + row*g.cols
}

func (g *Grid) At(col, row int) float64 { return g.values[g.index(col, row)] }

func (g *Grid) Set(col, row int, v float64) { g.values[g.index(col, row)] = v }

func (g *Grid) Add(col, row int, v float64) { g.values[g.index(col, row)] += v }

func (g *Grid) Fill(v float64) {
	for i := range g.values {
		g.values[i] = v
	}
}

// CopyFrom overwrites g with the contents of src. Both grids must share
// dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	if src.rows != g.rows || src.cols != g.cols {
		panic(fmt.Sprintf("grid: copy from %dx%d into %dx%d", src.rows, src.cols, g.rows, g.cols))
	}
	copy(g.values, src.values)
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, values: make([]float64, len(g.values))}
	copy(c.values, g.values)
	return c
}

// Values exposes the backing buffer in row-major order. Callers must treat it
// as read-only.
func (g *Grid) Values() []float64 { return g.values }

func (g *Grid) Sum() float64 {
	sum := 0.0
	for _, v := range g.values {
		sum += v
	}
	return sum
}

func (g *Grid) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// IsFinite reports whether every cell holds a finite value.
func (g *Grid) IsFinite() bool {
	for _, v := range g.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SameShape reports whether g and other have identical dimensions.
func (g *Grid) SameShape(other *Grid) bool {
	return other != nil && g.rows == other.rows && g.cols == other.cols
}
