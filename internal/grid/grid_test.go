package grid

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		err        error
	}{
		{"square", 4, 4, nil},
		{"single", 1, 1, nil},
		{"not square", 4, 5, ErrNotSquare},
		{"zero", 0, 0, ErrEmptyGrid},
		{"negative", -2, -2, ErrEmptyGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.rows, tt.cols)
			if !errors.Is(err, tt.err) {
				t.Fatalf("New(%d, %d) error = %v, want %v", tt.rows, tt.cols, err, tt.err)
			}
			if tt.err == nil && (g.Rows() != tt.rows || g.Cols() != tt.cols) {
				t.Errorf("dimensions = %dx%d, want %dx%d", g.Rows(), g.Cols(), tt.rows, tt.cols)
			}
		})
	}
}

func TestZeroInitialised(t *testing.T) {
	g := MustNew(8)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if g.At(col, row) != 0 {
				t.Fatalf("At(%d, %d) = %v, want 0", col, row, g.At(col, row))
			}
		}
	}
}

func TestAddressing(t *testing.T) {
	g := MustNew(3)
	g.Set(2, 0, 5)
	g.Set(0, 2, 7)
	g.Add(0, 2, 1)

	if v := g.Values()[2]; v != 5 {
		t.Errorf("Values()[2] = %v, want 5 (col 2, row 0)", v)
	}
	if v := g.Values()[6]; v != 8 {
		t.Errorf("Values()[6] = %v, want 8 (col 0, row 2)", v)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	coords := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}
	for _, c := range coords {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("At(%d, %d) did not panic", c[0], c[1])
				}
			}()
			MustNew(4).At(c[0], c[1])
		}()
	}
}

func TestCopyAndClone(t *testing.T) {
	a := MustNew(3)
	a.Fill(2)
	b := MustNew(3)
	b.CopyFrom(a)
	if b.Sum() != 18 {
		t.Errorf("Sum after CopyFrom = %v, want 18", b.Sum())
	}

	c := a.Clone()
	c.Set(0, 0, 100)
	if a.At(0, 0) != 2 {
		t.Error("Clone shares storage with the original")
	}

	defer func() {
		if recover() == nil {
			t.Error("CopyFrom with mismatched shapes did not panic")
		}
	}()
	MustNew(4).CopyFrom(a)
}

func TestMinMaxAndFinite(t *testing.T) {
	g := MustNew(2)
	g.Set(0, 0, -3)
	g.Set(1, 1, 9)

	lo, hi := g.MinMax()
	if lo != -3 || hi != 9 {
		t.Errorf("MinMax() = (%v, %v), want (-3, 9)", lo, hi)
	}
	if !g.IsFinite() {
		t.Error("IsFinite() = false for finite grid")
	}
	g.Set(1, 0, math.NaN())
	if g.IsFinite() {
		t.Error("IsFinite() = true with NaN cell")
	}
}
