// Package fluid implements a real-time 2D incompressible fluid on a fixed
// square grid using the stable fluids method:
//
//   - [Diffuse]: implicit diffusion via Gauss-Seidel relaxation ([LinSolve])
//   - [Project]: removes velocity divergence with a pressure Poisson solve
//   - [Advect]: semi-Lagrangian backward trace with bilinear interpolation
//   - [SetBoundary]: solid-wall conditions for density and velocity fields
//
// A [Fluid] owns six grids (density, velocity and their scratch buffers) and
// advances them with [Fluid.Step]. Sources are injected with
// [Fluid.AddDensity] and [Fluid.AddVelocity].
//
// # Example
//
//	f, _ := fluid.New(128, 0.001, 0.00001, 0.000001)
//	f.AddDensity(64, 64, 2, 100)
//	f.Step(1)
//
// # Thread Safety
//
// A Fluid is NOT thread-safe and the solver never spawns goroutines. Exactly
// one goroutine may own and step a Fluid.
package fluid
