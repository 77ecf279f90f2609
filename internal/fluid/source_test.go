package fluid

import "testing"

func TestAddDensity_Neighbourhood(t *testing.T) {
	tests := []struct {
		name      string
		x, y, r   int
		wantCells int
	}{
		{"interior radius 2", 64, 64, 2, 11},
		{"radius 0", 10, 10, 0, 0},
		{"top-left corner clamps", 0, 0, 3, 9},
		{"bottom-right corner clamps", 127, 127, 2, 6},
		{"radius exceeds position", 1, 1, 5, 35},
		{"entirely outside", -50, -50, 2, 0},
		{"negative radius", 10, 10, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := New(128, 0.001, 0, 0)
			f.AddDensity(tt.x, tt.y, tt.r, 1)
			if got := int(f.Density().Sum()); got != tt.wantCells {
				t.Errorf("AddDensity(%d, %d, %d) touched %d cells, want %d", tt.x, tt.y, tt.r, got, tt.wantCells)
			}
		})
	}
}

func TestAddDensity_Accumulates(t *testing.T) {
	f, _ := New(16, 0.1, 0, 0)
	f.AddDensity(8, 8, 1, 2.5)
	f.AddDensity(8, 8, 1, 2.5)
	if got := f.Density().At(8, 8); got != 5 {
		t.Errorf("density(8,8) = %v, want 5", got)
	}
	f.AddDensity(8, 8, 1, -10)
	if got := f.Density().At(8, 8); got != -5 {
		t.Errorf("density(8,8) = %v, want -5 (no clamping)", got)
	}
}

func TestAddVelocity(t *testing.T) {
	f, _ := New(32, 0.1, 0, 0)
	f.AddVelocity(10, 12, 2, 3, -4)

	if f.VelocityX().At(10, 12) != 3 || f.VelocityY().At(10, 12) != -4 {
		t.Errorf("velocity at centre = (%v, %v), want (3, -4)", f.VelocityX().At(10, 12), f.VelocityY().At(10, 12))
	}
	if f.VelocityX().At(12, 12) != 0 {
		t.Error("half-open box should exclude x+radius")
	}
	if f.VelocityX().At(8, 12) != 3 {
		t.Error("box should include x-radius")
	}
	if f.Density().Sum() != 0 {
		t.Error("AddVelocity touched density")
	}
}
