// Package viz is the terminal front end: a Bubble Tea program that draws the
// density field with half-block characters and paints with the mouse.
//
// # Key Bindings
//
//	Mouse drag    - Paint density and push velocity
//	Arrows/hjkl   - Move the keyboard brush
//	Enter         - Toggle the keyboard brush on/off
//	Space         - Pause/Resume simulation
//	R             - Reset the fluid
//	G             - Toggle GIF recording
//	S             - Save a PNG snapshot
//	?             - Show help overlay
//	Q             - Quit
//
// Recordings and snapshots are written to the current directory.
package viz
