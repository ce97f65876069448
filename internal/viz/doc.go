// Package viz draws a running axon in the terminal.
//
// The live view is a Bubble Tea program. The filaments are rendered on a
// Braille [Canvas] in one of three projections: a side view (x against z),
// a cross section through the bundle, and an orbiting 3D wireframe. A side
// panel plots the link count with asciigraph and shows the move counters.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single step while paused
//	R     - Rebuild the axon
//	V     - Cycle projections
//	T     - Cycle color themes
//	[ ]   - Steps per frame
//	?     - Show help overlay
package viz
