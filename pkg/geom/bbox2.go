package geom

import "math"

// BoundingBox2 is the 2D analogue of BoundingBox, used by CrossSection.
type BoundingBox2 struct {
	Min, Max Vec2
}

func EmptyBoundingBox2() BoundingBox2 {
	inf := math.Inf(1)
	return BoundingBox2{Min: Vec2{inf, inf}, Max: Vec2{-inf, -inf}}
}

func (b BoundingBox2) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

func (b BoundingBox2) Union(o BoundingBox2) BoundingBox2 {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return BoundingBox2{
		Min: Vec2{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Vec2{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

func (b BoundingBox2) ExpandPoint(p Vec2) BoundingBox2 {
	return b.Union(BoundingBox2{Min: p, Max: p})
}

func (b BoundingBox2) Intersects(o BoundingBox2) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}
