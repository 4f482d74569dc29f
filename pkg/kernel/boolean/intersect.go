package boolean

import (
	"github.com/chazu/geode/pkg/geom"
)

// segment is a 3D line segment, the result of intersecting two non-
// coplanar triangles (§4.6 Phase 2): the portion of the line where their
// planes meet that actually lies inside both triangles.
type segment struct {
	A, B geom.Vec3
}

// classify returns, for each vertex of tri, the sign of Orient3D against
// the plane of other (the exact predicate §4.1 requires for this
// decision). A vertex exactly on the plane is nudged to the positive side
// rather than left at zero, so the lone-vertex search below never has to
// special-case a coincident vertex; this trades a vanishingly rare
// degenerate classification for never dividing by zero during chord
// interpolation.
func classify(tri, other [3]geom.Vec3) [3]int {
	var s [3]int
	for i, v := range tri {
		sign := geom.Orient3D(other[0], other[1], other[2], v)
		if sign == 0 {
			sign = 1
		}
		s[i] = sign
	}
	return s
}

// allSame reports whether every element of s has the same sign, meaning
// the whole triangle lies strictly to one side of the other's plane (a
// broad-phase-confirmed quick reject, per §4.6 Phase 2).
func allSame(s [3]int) bool {
	return s[0] == s[1] && s[1] == s[2]
}

// loneVertex finds the one vertex whose sign differs from the other two
// (a triangle straddling a plane always splits 2-1), returning its index
// and the indices of the other two.
func loneVertex(s [3]int) (lone, o1, o2 int) {
	if s[0] != s[1] && s[0] != s[2] {
		return 0, 1, 2
	}
	if s[1] != s[0] && s[1] != s[2] {
		return 1, 0, 2
	}
	return 2, 0, 1
}

// planeChord computes the two points where the plane of other cuts the
// boundary of tri, given tri's vertices classified against that plane.
// Since a triangle is convex, a plane that splits its vertex signs 2-1
// always cuts it along a single chord connecting a point on each of the
// two edges incident to the lone vertex.
func planeChord(tri [3]geom.Vec3, other [3]geom.Vec3, s [3]int) (geom.Vec3, geom.Vec3) {
	lone, o1, o2 := loneVertex(s)
	p0 := edgePlaneCrossing(tri[lone], tri[o1], other)
	p1 := edgePlaneCrossing(tri[lone], tri[o2], other)
	return p0, p1
}

// edgePlaneCrossing finds where segment a->b crosses the plane through
// other's three points, via ordinary linear interpolation on signed
// distance. This is a position computation, not a sign decision, so plain
// float arithmetic is appropriate here (§4.1's exactness requirement binds
// sign tests, not interpolation).
func edgePlaneCrossing(a, b geom.Vec3, other [3]geom.Vec3) geom.Vec3 {
	n := other[1].Sub(other[0]).Cross(other[2].Sub(other[0]))
	da := n.Dot(a.Sub(other[0]))
	db := n.Dot(b.Sub(other[0]))
	denom := da - db
	if denom == 0 {
		return a
	}
	t := da / denom
	return a.Lerp(b, t)
}

// triTriIntersect computes the intersection segment of two non-coplanar
// triangles per §4.6 Phase 2: classify each triangle's vertices against
// the other's plane, compute each triangle's plane-crossing chord, project
// both chords onto the line where the two planes meet, and intersect the
// resulting 1D intervals. The overlap (if any) is the true intersection
// segment, since the triangles themselves — not just their planes — must
// both contain it. coplanar is true when every classification sign is
// zero before the positive-nudge in classify, meaning both triangles lie
// in the same plane; that case is handled by the distinct coplanar code
// path in coplanar.go, not here.
func triTriIntersect(a, b [3]geom.Vec3) (seg segment, ok bool, coplanar bool) {
	if isCoplanar(a, b) {
		return segment{}, false, true
	}

	sa := classify(a, b)
	if allSame(sa) {
		return segment{}, false, false
	}
	sb := classify(b, a)
	if allSame(sb) {
		return segment{}, false, false
	}

	chordA0, chordA1 := planeChord(a, b, sa)
	chordB0, chordB1 := planeChord(b, a, sb)

	nA := a[1].Sub(a[0]).Cross(a[2].Sub(a[0]))
	nB := b[1].Sub(b[0]).Cross(b[2].Sub(b[0]))
	line := nA.Cross(nB).Normalized()
	if line == (geom.Vec3{}) {
		return segment{}, false, false
	}

	ta0, ta1 := line.Dot(chordA0), line.Dot(chordA1)
	if ta0 > ta1 {
		ta0, ta1 = ta1, ta0
		chordA0, chordA1 = chordA1, chordA0
	}
	tb0, tb1 := line.Dot(chordB0), line.Dot(chordB1)
	if tb0 > tb1 {
		tb0, tb1 = tb1, tb0
	}

	lo := maxF(ta0, tb0)
	hi := minF(ta1, tb1)
	if lo > hi {
		return segment{}, false, false
	}
	span := ta1 - ta0
	if span == 0 {
		return segment{A: chordA0, B: chordA0}, true, false
	}
	p0 := chordA0.Lerp(chordA1, (lo-ta0)/span)
	p1 := chordA0.Lerp(chordA1, (hi-ta0)/span)
	return segment{A: p0, B: p1}, true, false
}

// isCoplanar reports whether all six points across both triangles satisfy
// Orient3D = 0 against the plane of a, the exact test for two triangles
// lying in the same plane.
func isCoplanar(a, b [3]geom.Vec3) bool {
	for _, p := range b {
		if geom.Orient3D(a[0], a[1], a[2], p) != 0 {
			return false
		}
	}
	return true
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
