package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FinitePrefix returns data up to its first NaN or Inf. An unstable run
// stays non-finite from that frame on, and the spectrum needs evenly spaced
// samples, so everything after the first bad sample is dropped.
func FinitePrefix(data []float64) []float64 {
	for i, v := range data {
		if !finite(v) {
			return data[:i]
		}
	}
	return data
}

// PowerSpectrum returns |X(k)| for k in [0, N/2) where N is len(data)
// rounded up to a power of two. The mean is removed first so bin 0 only
// reflects padding.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, nextPow2(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in cycles per unit time of the
// strongest non-zero bin, given samples dt apart.
func DominantFrequency(data []float64, dt float64) (freq, power float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0, 0
	}

	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt), ps[best]
}

// Stats summarises a series.
type Stats struct {
	Min, Max, Mean, StdDev float64
}

func Summarize(data []float64) Stats {
	if len(data) == 0 {
		return Stats{}
	}
	s := Stats{Min: data[0], Max: data[0]}
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		s.Mean += v
	}
	s.Mean /= float64(len(data))
	for _, v := range data {
		s.StdDev += (v - s.Mean) * (v - s.Mean)
	}
	s.StdDev = math.Sqrt(s.StdDev / float64(len(data)))
	return s
}
