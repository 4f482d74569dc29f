package boolean

import "github.com/chazu/geode/pkg/geom"

// selectTriangles implements §4.6 Phase 3's per-operator keep rule plus
// Phase 4's provenance propagation, given both sides already split along
// their mutual intersection curve (refine in boolean.go).
//
// original_id conflict resolution (spec.md §9 Open Question, resolved in
// DESIGN.md): a triangle split by the boolean inherits its parent's id
// unchanged — refinedTri already carries it from refine(). For
// difference/intersection the kept triangle is always an ancestor of A or
// of B outright, so "inherit from the ancestor" falls out for free. For
// union's fully-coincident coplanar pairs, geode keeps A's copy and drops
// B's, i.e. prefers the ancestor already contributing the retained region
// when both sides describe the same patch of surface.
func selectTriangles(op Op, refinedA, refinedB []refinedTri, aOrig, bOrig [][3]geom.Vec3, rayLength float64) []refinedTri {
	var kept []refinedTri

	classifyAgainst := func(rt refinedTri, other [][3]geom.Vec3) location {
		centroid := centroidOf(rt.verts)
		return classifyPoint(centroid, other, rayLength)
	}

	switch op {
	case Union:
		for _, rt := range refinedA {
			if rt.coincide >= 0 {
				// A's copy of a fully-coincident shared face is kept;
				// B's matching triangle is skipped below.
				kept = append(kept, rt)
				continue
			}
			if classifyAgainst(rt, bOrig) == outside {
				kept = append(kept, rt)
			}
		}
		for _, rt := range refinedB {
			if rt.coincide >= 0 {
				continue // A already contributed this shared face.
			}
			if classifyAgainst(rt, aOrig) == outside {
				kept = append(kept, rt)
			}
		}

	case Difference:
		for _, rt := range refinedA {
			if rt.coincide >= 0 {
				continue // shared face is B's surface; A's outward copy is removed by the cut.
			}
			if classifyAgainst(rt, bOrig) == outside {
				kept = append(kept, rt)
			}
		}
		for _, rt := range refinedB {
			if rt.coincide >= 0 {
				continue
			}
			if classifyAgainst(rt, aOrig) == inside {
				kept = append(kept, reverseWinding(rt))
			}
		}

	case Intersection:
		for _, rt := range refinedA {
			if rt.coincide >= 0 {
				kept = append(kept, rt)
				continue
			}
			if classifyAgainst(rt, bOrig) == inside {
				kept = append(kept, rt)
			}
		}
		for _, rt := range refinedB {
			if rt.coincide >= 0 {
				continue
			}
			if classifyAgainst(rt, aOrig) == inside {
				kept = append(kept, rt)
			}
		}
	}

	return kept
}

func centroidOf(tri [3]geom.Vec3) geom.Vec3 {
	return tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3.0)
}

// reverseWinding swaps two vertices of a kept B triangle for Difference,
// per §4.6: "B's Inside triangles with their winding reversed" so the
// hollowed-out cavity remains externally-CCW from A's perspective.
func reverseWinding(rt refinedTri) refinedTri {
	rt.verts[1], rt.verts[2] = rt.verts[2], rt.verts[1]
	return rt
}
