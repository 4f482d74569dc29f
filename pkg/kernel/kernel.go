// Package kernel defines the abstract geometry kernel interface that a
// solid-modeling backend implements. The default backend is the exact
// half-edge engine in pkg/kernel/mesh + pkg/kernel/boolean, driven
// directly by the evaluator; Kernel/Solid exist so an alternate backend
// (pkg/kernel/sdfbackend, build-tag gated) can be swapped in behind the
// same primitive/transform/boolean vocabulary for comparison and for
// hosts that prefer SDF-based rendering over exact booleans.
package kernel

// Solid is an opaque handle to a backend's internal solid representation.
// Only the backend that produced a Solid knows how to interpret it;
// callers treat it as a capability token passed back into the same Kernel.
type Solid interface {
	// BoundingBox returns the solid's axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the minimal vocabulary every solid-modeling backend must
// implement: the primitive constructors, the three boolean combinators,
// and the two affine operations needed to place primitives before
// combining them. A backend converts its internal representation to a
// Mesh on demand via ToMesh.
type Kernel interface {
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
