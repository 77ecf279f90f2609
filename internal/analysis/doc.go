// Package analysis inspects recorded run series and fluid sensitivity.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of a metric series
//   - [NewPortrait]: one metric plotted against another
//   - [Sensitivity]: growth rate of a small velocity perturbation
//
// # Periodic Forcing
//
// A looping scenario drives the fluid periodically, so its metrics should
// peak at the loop frequency:
//
//	freq, _ := analysis.DominantFrequency(series, dt)
//	period := 1 / freq // seconds per loop
package analysis
