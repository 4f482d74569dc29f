package engine

import (
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
	"github.com/chazu/geode/pkg/kernel/xsect"
)

// Value is the evaluator's result type: the closed sum of the two shapes
// a GeometryIR subtree can evaluate to, per §9's "polymorphism over
// geometry kinds" design note — a tag field, not an interface hierarchy,
// since there are exactly two variants and every caller already knows
// which one a given IR node kind produces.
type Value struct {
	Is3D     bool
	Solid    *mesh.Manifold
	Section  *xsect.CrossSection
}

// Solid3D wraps a Manifold as a Value.
func Solid3D(m *mesh.Manifold) Value { return Value{Is3D: true, Solid: m} }

// Solid2D wraps a CrossSection as a Value.
func Solid2D(c *xsect.CrossSection) Value { return Value{Is3D: false, Section: c} }

// IsEmpty reports whether the value carries no geometry.
func (v Value) IsEmpty() bool {
	if v.Is3D {
		return v.Solid == nil || v.Solid.IsEmpty()
	}
	return v.Section == nil || v.Section.IsEmpty()
}

// BoundingBox returns the value's 3D bounding box, lifting a 2D
// CrossSection's bbox onto the z=0 plane (a zero-thickness box) so
// callers that only care about extent need not branch on Is3D.
func (v Value) BoundingBox() geom.BoundingBox {
	if v.Is3D {
		if v.Solid == nil {
			return geom.EmptyBoundingBox()
		}
		return v.Solid.BoundingBox()
	}
	if v.Section == nil || v.Section.IsEmpty() {
		return geom.EmptyBoundingBox()
	}
	bb2 := v.Section.BoundingBox()
	return geom.BoundingBox{
		Min: geom.Vec3{X: bb2.Min.X, Y: bb2.Min.Y, Z: 0},
		Max: geom.Vec3{X: bb2.Max.X, Y: bb2.Max.Y, Z: 0},
	}
}
