// Package geom provides the 3D geometry used by the axon model.
//
// Points and displacements are [r3.Vec] values from gonum. The package
// adds what r3 does not cover:
//
//   - [Frame]: an orthonormal basis with transforms to and from the
//     canonical frame
//   - [SegmentsCollide]: capsule-capsule overlap between two segments
//
// All functions are pure; vectors are copied freely.
package geom
