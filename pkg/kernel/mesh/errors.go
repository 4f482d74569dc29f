// Package mesh implements the half-edge triangle mesh representation: three
// flat index arenas (vertices, half-edges, faces), manifold/orientation
// validation, and the copy-on-write Manifold wrapper built on top of it.
package mesh

import "fmt"

// NonManifold reports a half-edge whose opposite directed edge does not
// have exactly one matching twin.
type NonManifold struct {
	Edge int
}

func (e *NonManifold) Error() string {
	return fmt.Sprintf("mesh: non-manifold edge at half-edge %d", e.Edge)
}

// NonFiniteVertex reports a vertex position with a NaN or infinite component.
type NonFiniteVertex struct {
	Index int
}

func (e *NonFiniteVertex) Error() string {
	return fmt.Sprintf("mesh: non-finite vertex at index %d", e.Index)
}

// DegenerateTriangle reports a triangle whose area is below
// geomconfig.Config.MinTriangleArea.
type DegenerateTriangle struct {
	Index int
}

func (e *DegenerateTriangle) Error() string {
	return fmt.Sprintf("mesh: degenerate triangle at index %d", e.Index)
}

// OrientationMismatch reports an edge whose two incident half-edges run in
// the same direction instead of opposite directions.
type OrientationMismatch struct {
	Edge int
}

func (e *OrientationMismatch) Error() string {
	return fmt.Sprintf("mesh: orientation mismatch at half-edge %d", e.Edge)
}

// InvalidIndex reports a triangle referencing a vertex index out of range.
type InvalidIndex struct {
	Index int
}

func (e *InvalidIndex) Error() string {
	return fmt.Sprintf("mesh: vertex index %d out of range", e.Index)
}
