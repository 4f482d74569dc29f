package boolean

import (
	"github.com/chazu/geode/pkg/geom"
	"github.com/ctessum/polyclip-go"
)

// This file is the coplanar overlap code path of §4.6 Phase 2: when two
// candidate triangles lie in the same plane, the general chord-vs-chord
// intersection of intersect.go does not apply (their planes don't meet
// along a line — they coincide), so overlap is instead a 2D polygon
// question in that shared plane. geode answers it with the same
// ctessum/polyclip-go engine pkg/kernel/xsect uses for CrossSection
// boolean (§4.7), reusing one Clipper-style polygon library for both 2D
// geometry and this one 3D code path rather than hand-rolling a second
// polygon intersection routine.
//
// Coincident-face deduplication (scenario 6: two cubes sharing a face)
// is the coplanar case geode resolves fully: triangles whose projected
// overlap area is at least 99.9% of each one's own area are flagged as
// fully-coincident and one copy is dropped per operator in select.go.
// Partial coplanar overlap (two triangles sharing only part of their
// area) is detected and its overlap area is reported, but geode does not
// re-triangulate the partial overlap region into the output mesh the way
// a full Shewchuk-style implementation would; the shared region is
// instead resolved by the ordinary inside/outside triangle classification
// of classify.go, which is exact away from the coplanar interface itself.
type coplanarOverlap struct {
	area float64
	// fullyCoincident is true when the overlap very nearly equals both
	// triangles' own area, i.e. the pair represents the same physical
	// patch of surface described from each mesh's side.
	fullyCoincident bool
}

// projectToPlane returns the 2D coordinates of p in the basis (u, v)
// spanning tri's plane, with origin at tri[0].
func projectToPlane(p geom.Vec3, origin, u, v geom.Vec3) geom.Vec2 {
	d := p.Sub(origin)
	return geom.Vec2{X: d.Dot(u), Y: d.Dot(v)}
}

func planeBasis(tri [3]geom.Vec3) (origin, u, v geom.Vec3) {
	origin = tri[0]
	u = tri[1].Sub(tri[0]).Normalized()
	n := u.Cross(tri[2].Sub(tri[0])).Normalized()
	v = n.Cross(u)
	return
}

func triArea2(p [3]geom.Vec2) float64 {
	return (p[1].X-p[0].X)*(p[2].Y-p[0].Y) - (p[2].X-p[0].X)*(p[1].Y-p[0].Y)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// coplanarOverlapArea computes the overlap between two coplanar triangles
// (already confirmed coplanar by isCoplanar) using polyclip-go's polygon
// intersection in a's own 2D plane basis.
func coplanarOverlapArea(a, b [3]geom.Vec3) coplanarOverlap {
	origin, u, v := planeBasis(a)
	pa := [3]geom.Vec2{
		projectToPlane(a[0], origin, u, v),
		projectToPlane(a[1], origin, u, v),
		projectToPlane(a[2], origin, u, v),
	}
	pb := [3]geom.Vec2{
		projectToPlane(b[0], origin, u, v),
		projectToPlane(b[1], origin, u, v),
		projectToPlane(b[2], origin, u, v),
	}

	polyA := polyclip.Polygon{toClipperContour(pa)}
	polyB := polyclip.Polygon{toClipperContour(pb)}
	result := polyA.Construct(polyclip.INTERSECTION, polyB)

	var overlapArea float64
	for _, contour := range result {
		overlapArea += absF(shoelace(contour))
	}

	areaA := absF(triArea2(pa)) / 2
	areaB := absF(triArea2(pb)) / 2
	larger := areaA
	if areaB > larger {
		larger = areaB
	}
	return coplanarOverlap{
		area:            overlapArea,
		fullyCoincident: larger > 0 && overlapArea >= larger*0.999,
	}
}

func toClipperContour(p [3]geom.Vec2) polyclip.Contour {
	return polyclip.Contour{
		{X: p[0].X, Y: p[0].Y},
		{X: p[1].X, Y: p[1].Y},
		{X: p[2].X, Y: p[2].Y},
	}
}

func shoelace(c polyclip.Contour) float64 {
	var sum float64
	n := len(c)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}
