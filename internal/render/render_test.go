package render

import (
	"image/color"
	"math"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/stablefluid/internal/grid"
)

func TestColormap_RGB(t *testing.T) {
	cm := DefaultColormap()
	tests := []struct {
		v    float64
		want color.RGBA
	}{
		// sin(0)=0, sin(2)=0.909, sin(4)=-0.757
		{0, color.RGBA{128, 243, 32, 255}},
		{math.NaN(), color.RGBA{0, 0, 0, 255}},
		{math.Inf(1), color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := cm.RGB(tt.v); got != tt.want {
			t.Errorf("RGB(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestColormap_MatchesFormula(t *testing.T) {
	cm := Colormap{MaxValue: 3}
	for _, v := range []float64{-50, 0.5, 3, 100, 1e4} {
		got := cm.RGB(v)
		t0 := v / 3
		want := [3]uint8{}
		for i, phase := range []float64{0, 2, 4} {
			want[i] = uint8(math.Round(math.Sin(0.024*t0+phase)*127 + 128))
		}
		if got.R != want[0] || got.G != want[1] || got.B != want[2] {
			t.Errorf("RGB(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestColormap_NonPositiveMaxFallsBack(t *testing.T) {
	if (Colormap{}).RGB(42) != DefaultColormap().RGB(42) {
		t.Error("zero MaxValue should use the default")
	}
}

func TestFrame_PixelAddressing(t *testing.T) {
	g := grid.MustNew(4)
	g.Set(3, 1, 1000)
	cm := DefaultColormap()

	img := Frame(g, cm)
	g2 := NewWithT(t)
	g2.Expect(img.Bounds().Dx()).To(Equal(4))
	g2.Expect(img.RGBAAt(3, 1)).To(Equal(cm.RGB(1000)))
	g2.Expect(img.RGBAAt(1, 3)).To(Equal(cm.RGB(0)))
}

func TestFrameInto_TooSmallPanics(t *testing.T) {
	g := NewWithT(t)
	small := Frame(grid.MustNew(2), DefaultColormap())
	g.Expect(func() { FrameInto(small, grid.MustNew(4), DefaultColormap()) }).To(Panic())
}

func TestScale(t *testing.T) {
	src := grid.MustNew(3)
	src.Set(1, 2, 500)
	cm := DefaultColormap()
	img := Scale(Frame(src, cm), 4)

	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 12 {
		t.Fatalf("Scale bounds = %v, want 12x12", img.Bounds())
	}
	for y := 8; y < 12; y++ {
		for x := 4; x < 8; x++ {
			if img.RGBAAt(x, y) != cm.RGB(500) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, img.RGBAAt(x, y), cm.RGB(500))
			}
		}
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1031} {
		seen := make([]int32, n)
		var calls int32
		ParallelFor(n, 8, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, c)
			}
		}
		if n == 0 && calls != 0 {
			t.Errorf("n=0 invoked fn %d times", calls)
		}
	}
}

func BenchmarkFrame128(b *testing.B) {
	g := grid.MustNew(128)
	for j := 0; j < 128; j++ {
		for i := 0; i < 128; i++ {
			g.Set(i, j, float64((i+j)%17))
		}
	}
	img := Frame(g, DefaultColormap())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FrameInto(img, g, DefaultColormap())
	}
}
