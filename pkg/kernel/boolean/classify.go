package boolean

import (
	"github.com/chazu/geode/pkg/geom"
)

// rayDirection is a fixed, axis-skew direction used for every winding-
// number ray cast. A skew direction makes a ray passing exactly through a
// vertex or along an edge of the target mesh vanishingly unlikely for
// axis-aligned and otherwise "nice" CSG input, which is what the
// concrete end-to-end scenarios in §8 exercise; the intersection test
// itself (segTriIntersect) is still exact and never relies on that
// unlikeliness for correctness, only for avoiding degenerate winding
// contributions that would otherwise need a perturbation scheme.
var rayDirection = geom.NewVec3(0.6123, 0.7912, 0.0531).Normalized()

// location classifies a point relative to a manifold's surface, per §4.6
// Phase 3.
type location int

const (
	outside location = iota
	inside
)

// classifyPoint casts a ray from p in rayDirection and sums signed
// crossings with every triangle of m (a winding-number evaluation): a
// nonzero sum means p is inside. segTriIntersect uses only Orient3D sign
// tests, so the decision never depends on an epsilon.
func classifyPoint(p geom.Vec3, triangles [][3]geom.Vec3, rayLength float64) location {
	far := p.Add(rayDirection.Scale(rayLength))
	winding := 0
	for _, tri := range triangles {
		entering, ok := segTriIntersect(p, far, tri)
		if !ok {
			continue
		}
		if entering {
			winding++
		} else {
			winding--
		}
	}
	if winding != 0 {
		return inside
	}
	return outside
}

// segTriIntersect tests whether segment p0->p1 crosses triangle tri's
// interior, using the signed-volume test (Orient3D against each of the
// triangle's 3 edges swept with the segment, plus the plane-straddle
// test) rather than an epsilon-based comparison — the same technique
// used by intersect.go for triangle-triangle crossings, applied here to a
// line segment against a single triangle.
func segTriIntersect(p0, p1 geom.Vec3, tri [3]geom.Vec3) (bool, bool) {
	a, b, c := tri[0], tri[1], tri[2]

	u := nudge(geom.Orient3D(a, b, c, p0))
	v := nudge(geom.Orient3D(a, b, c, p1))
	if u == v {
		return false, false
	}

	sA := nudge(geom.Orient3D(p0, a, b, p1))
	sB := nudge(geom.Orient3D(p0, b, c, p1))
	sC := nudge(geom.Orient3D(p0, c, a, p1))
	if !(sA == sB && sB == sC) {
		return false, false
	}

	// u < 0: p0 is on the side tri's normal points to, and p1 is not,
	// so the segment runs against the normal.
	entering := u < 0
	return entering, true
}

func nudge(sign int) int {
	if sign == 0 {
		return 1
	}
	return sign
}
