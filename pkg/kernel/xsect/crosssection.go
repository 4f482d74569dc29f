// Package xsect implements CrossSection, the kernel's 2D polygon-set type,
// and the operations built on it: boolean combination (via
// ctessum/polyclip-go), offset, triangulation with sliver sanitation, linear and
// rotational extrusion, and convex hull.
package xsect

import "github.com/chazu/geode/pkg/geom"

// CrossSection is the reference-counted 2D polygon set of §3: a sequence
// of simple polygon contours under the even-odd fill rule, plus a cached
// bounding box. Like Manifold, every operation returns a new CrossSection;
// a *CrossSection is never mutated after construction.
type CrossSection struct {
	Contours [][]geom.Vec2
	cachedBBox *geom.BoundingBox2
}

// Empty is the distinguished empty cross-section.
var Empty = &CrossSection{}

// New wraps a set of contours into a CrossSection. Contours are assumed to
// already be simple (non-self-intersecting); callers producing contours
// from untrusted input should run sanitation first.
func New(contours [][]geom.Vec2) *CrossSection {
	if len(contours) == 0 {
		return Empty
	}
	return &CrossSection{Contours: contours}
}

// IsEmpty reports whether the cross-section has no contours.
func (c *CrossSection) IsEmpty() bool { return c == nil || len(c.Contours) == 0 }

// Area returns the signed sum of the shoelace area of every contour; for
// a properly-nested even-odd polygon set (outer contours CCW, holes CW)
// this equals the filled area.
func (c *CrossSection) Area() float64 {
	var total float64
	for _, contour := range c.Contours {
		total += signedArea(contour)
	}
	return total
}

func signedArea(contour []geom.Vec2) float64 {
	n := len(contour)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += contour[i].Cross(contour[j])
	}
	return sum / 2
}

// BoundingBox returns (and caches) the 2D bounding box over every contour
// vertex.
func (c *CrossSection) BoundingBox() geom.BoundingBox2 {
	if c.cachedBBox != nil {
		return *c.cachedBBox
	}
	bb := geom.EmptyBoundingBox2()
	for _, contour := range c.Contours {
		for _, p := range contour {
			bb = bb.ExpandPoint(p)
		}
	}
	c.cachedBBox = &bb
	return bb
}

// Transform applies f to every contour vertex, returning a new
// CrossSection.
func (c *CrossSection) Transform(f func(geom.Vec2) geom.Vec2) *CrossSection {
	if c.IsEmpty() {
		return Empty
	}
	out := make([][]geom.Vec2, len(c.Contours))
	for i, contour := range c.Contours {
		nc := make([]geom.Vec2, len(contour))
		for j, p := range contour {
			nc[j] = f(p)
		}
		out[i] = nc
	}
	return New(out)
}
