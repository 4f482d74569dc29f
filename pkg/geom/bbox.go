package geom

import "math"

// BoundingBox is an axis-aligned box given by its min/max corners. It is
// empty iff Min exceeds Max on any axis (checked by Empty); the zero value
// is NOT empty (it is the degenerate box at the origin) so constructors use
// EmptyBoundingBox explicitly when they need an identity element for Union.
type BoundingBox struct {
	Min, Max Vec3
}

// EmptyBoundingBox returns the identity element for Union: a box with +Inf
// min and -Inf max, so that Union with any real box yields that box.
func EmptyBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// BoundingBoxFromPoint returns the degenerate box containing exactly p.
func BoundingBoxFromPoint(p Vec3) BoundingBox {
	return BoundingBox{Min: p, Max: p}
}

// Empty reports whether any axis has min > max.
func (b BoundingBox) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns the smallest box containing both b and o. Unioning with an
// empty box returns the other box unchanged.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return BoundingBox{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// ExpandPoint grows b (if necessary) to contain p.
func (b BoundingBox) ExpandPoint(p Vec3) BoundingBox {
	return b.Union(BoundingBoxFromPoint(p))
}

// Intersects reports whether b and o overlap, including touching faces.
// This is the quick-reject test used by broad-phase candidate enumeration
// (§4.5) — it is conservative and may be true for boxes whose shapes do
// not actually overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b BoundingBox) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Diagonal returns the vector from Min to Max.
func (b BoundingBox) Diagonal() Vec3 { return b.Max.Sub(b.Min) }

// Center returns the box's midpoint.
func (b BoundingBox) Center() Vec3 { return b.Min.Lerp(b.Max, 0.5) }

// corners returns the 8 corners of the box in a fixed order.
func (b BoundingBox) corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// Transform reprojects b through m by transforming all 8 corners and taking
// their bounding box — the standard conservative approach for re-bounding an
// AABB after an arbitrary affine transform (used whenever a transform node
// changes a child's bounding box, §4.4).
func (b BoundingBox) Transform(m Mat4) BoundingBox {
	if b.Empty() {
		return b
	}
	out := EmptyBoundingBox()
	for _, c := range b.corners() {
		out = out.ExpandPoint(m.Apply(c))
	}
	return out
}
