package xsect

import (
	"github.com/chazu/geode/pkg/geom"
	"github.com/ctessum/polyclip-go"
)

// This file backs §4.7's "delegated to a Clipper-style polygon engine":
// CrossSection union/difference/intersection are computed by
// ctessum/polyclip-go, an integer-lattice-free Go port of the
// Martinez-Rueda polygon clipping algorithm that gives the exact boolean
// behaviour the spec calls for; for those, geode's job is only the
// conversion between CrossSection's contour representation and
// polyclip.Polygon. polyclip-go has no offset operator, so Offset below
// is computed by geode's own per-vertex code.

func toPolygon(c *CrossSection) polyclip.Polygon {
	if c.IsEmpty() {
		return polyclip.Polygon{}
	}
	poly := make(polyclip.Polygon, len(c.Contours))
	for i, contour := range c.Contours {
		pc := make(polyclip.Contour, len(contour))
		for j, p := range contour {
			pc[j] = polyclip.Point{X: p.X, Y: p.Y}
		}
		poly[i] = pc
	}
	return poly
}

func fromPolygon(poly polyclip.Polygon) *CrossSection {
	if len(poly) == 0 {
		return Empty
	}
	contours := make([][]geom.Vec2, len(poly))
	for i, pc := range poly {
		contour := make([]geom.Vec2, len(pc))
		for j, p := range pc {
			contour[j] = geom.Vec2{X: p.X, Y: p.Y}
		}
		contours[i] = contour
	}
	return New(contours)
}

// Union returns the 2D union of a and b.
func Union(a, b *CrossSection) *CrossSection {
	return fromPolygon(toPolygon(a).Construct(polyclip.UNION, toPolygon(b)))
}

// Difference returns a minus b.
func Difference(a, b *CrossSection) *CrossSection {
	return fromPolygon(toPolygon(a).Construct(polyclip.DIFFERENCE, toPolygon(b)))
}

// Intersection returns the 2D intersection of a and b.
func Intersection(a, b *CrossSection) *CrossSection {
	return fromPolygon(toPolygon(a).Construct(polyclip.INTERSECTION, toPolygon(b)))
}

// Offset grows (positive delta) or shrinks (negative delta) every contour
// by delta, via a cheap per-vertex normal-offset approximation (polyclip-go
// has no native offset operator, unlike a full Clipper port — this is the
// documented gap between "Clipper-style" and the reference C++ library).
// Each vertex is pushed along the average of its two adjacent edge
// normals, which is exact for convex polygons and a close approximation
// for mild concavity; self-intersections introduced by large negative
// deltas on sharp concave corners are not detected here, the kernel relies
// on a subsequent triangulation/sanitation pass to drop any resulting
// slivers (§4.7).
func Offset(c *CrossSection, delta float64) *CrossSection {
	if c.IsEmpty() || delta == 0 {
		return c
	}
	out := make([][]geom.Vec2, 0, len(c.Contours))
	for _, contour := range c.Contours {
		out = append(out, offsetContour(contour, delta))
	}
	return New(out)
}

func offsetContour(contour []geom.Vec2, delta float64) []geom.Vec2 {
	n := len(contour)
	if n < 3 {
		return contour
	}
	result := make([]geom.Vec2, n)
	for i := 0; i < n; i++ {
		prev := contour[(i-1+n)%n]
		cur := contour[i]
		next := contour[(i+1)%n]
		nA := edgeNormal(prev, cur)
		nB := edgeNormal(cur, next)
		avg := nA.Add(nB)
		l := avg.Length()
		if l == 0 {
			result[i] = cur
			continue
		}
		avg = avg.Scale(1 / l)
		// Scale by 1/cos(half-angle) so the offset distance is measured
		// perpendicular to each edge, not along the averaged normal.
		cosHalf := avg.Dot(nA)
		if cosHalf < 1e-6 {
			cosHalf = 1e-6
		}
		result[i] = cur.Add(avg.Scale(delta / cosHalf))
	}
	return result
}

func edgeNormal(a, b geom.Vec2) geom.Vec2 {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return geom.Vec2{}
	}
	return geom.Vec2{X: d.Y / l, Y: -d.X / l}
}
