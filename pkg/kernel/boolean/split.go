package boolean

import (
	"math"
	"sort"

	"github.com/chazu/geode/pkg/geom"
)

// This file is the per-triangle half of §4.6 Phase 3 ("insert the new
// intersection points into both meshes, splitting the affected edges").
// A plane that cuts a convex triangle always produces a single chord with
// both endpoints on the triangle's boundary (never purely in its
// interior, since the triangle is convex) — so splitting reduces to: (1)
// insert every chord endpoint into the triangle's boundary, refining it
// into a convex polygon with more vertices, then (2) apply each chord as
// a diagonal that cuts whichever convex sub-region currently contains
// both of its endpoints. Splitting a convex polygon along a chord between
// two of its own vertices always yields two convex polygons, so this
// converges without ever needing a general constrained triangulation.

const splitEpsilon = 1e-9

func quantizeKey(p geom.Vec3) [3]int64 {
	const scale = 1e7
	round := func(v float64) int64 { return int64(math.Round(v * scale)) }
	return [3]int64{round(p.X), round(p.Y), round(p.Z)}
}

// boundaryPoint describes one point on a triangle's refined boundary: its
// position, and (for ordering) which original edge it lies on and at what
// parameter, or -1 if it is one of the 3 original corners.
type boundaryPoint struct {
	pos  geom.Vec3
	edge int // 0,1,2 for corner(edge start)/edge1/edge2, or -1 if interior-snap
	t    float64
}

// splitTriangle refines tri's boundary with every chord endpoint, applies
// each chord as a constrained diagonal, and fan-triangulates the
// resulting convex regions. It returns the triangulated replacement for
// tri; if chords is empty the result is just tri itself.
func splitTriangle(tri [3]geom.Vec3, chords []segment) [][3]geom.Vec3 {
	if len(chords) == 0 {
		return [][3]geom.Vec3{tri}
	}

	// pointIndex maps a quantized position to its index in `points`.
	pointIndex := make(map[[3]int64]int)
	var points []geom.Vec3
	indexOf := func(p geom.Vec3) int {
		k := quantizeKey(p)
		if idx, ok := pointIndex[k]; ok {
			return idx
		}
		idx := len(points)
		pointIndex[k] = idx
		points = append(points, p)
		return idx
	}

	for _, c := range tri {
		indexOf(c)
	}

	// Classify every chord endpoint onto an edge (or snap to a corner).
	type edgeInsert struct {
		idx int
		t   float64
	}
	var edgeInserts [3][]edgeInsert
	placeOnEdge := func(p geom.Vec3) {
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			ab := b.Sub(a)
			len2 := ab.LengthSquared()
			if len2 == 0 {
				continue
			}
			t := p.Sub(a).Dot(ab) / len2
			if t < -splitEpsilon || t > 1+splitEpsilon {
				continue
			}
			proj := a.Lerp(b, t)
			if proj.Sub(p).LengthSquared() < splitEpsilon*splitEpsilon {
				idx := indexOf(p)
				if t > splitEpsilon && t < 1-splitEpsilon {
					edgeInserts[e] = append(edgeInserts[e], edgeInsert{idx: idx, t: t})
				}
				return
			}
		}
		// Not on any edge within tolerance (shouldn't happen for a
		// correctly-computed chord endpoint); snap it in anyway so the
		// caller's topology stays consistent rather than dropping data.
		indexOf(p)
	}
	for _, c := range chords {
		placeOnEdge(c.A)
		placeOnEdge(c.B)
	}

	// Build the refined boundary by walking the 3 original edges in
	// order, inserting edge points sorted by parameter t.
	var boundary []int
	for e := 0; e < 3; e++ {
		boundary = append(boundary, indexOf(tri[e]))
		ins := edgeInserts[e]
		sort.Slice(ins, func(i, j int) bool { return ins[i].t < ins[j].t })
		for _, in := range ins {
			boundary = append(boundary, in.idx)
		}
	}
	boundary = dedupConsecutive(boundary)

	regions := [][]int{boundary}
	for _, c := range chords {
		ia, ib := indexOf(c.A), indexOf(c.B)
		if ia == ib {
			continue
		}
		regions = applyChord(regions, ia, ib)
	}

	var out [][3]geom.Vec3
	for _, region := range regions {
		if len(region) < 3 {
			continue
		}
		for i := 1; i < len(region)-1; i++ {
			out = append(out, [3]geom.Vec3{
				points[region[0]], points[region[i]], points[region[i+1]],
			})
		}
	}
	if len(out) == 0 {
		return [][3]geom.Vec3{tri}
	}
	return out
}

func dedupConsecutive(idx []int) []int {
	if len(idx) == 0 {
		return idx
	}
	out := idx[:1]
	for _, v := range idx[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// applyChord finds the region containing both ia and ib and splits it
// into two along that chord, leaving other regions untouched.
func applyChord(regions [][]int, ia, ib int) [][]int {
	for ri, region := range regions {
		pi, pj := indexInRegion(region, ia), indexInRegion(region, ib)
		if pi < 0 || pj < 0 || pi == pj {
			continue
		}
		if pi > pj {
			pi, pj = pj, pi
		}
		regionA := append([]int{}, region[pi:pj+1]...)
		regionB := append(append([]int{}, region[pj:]...), region[:pi+1]...)
		out := make([][]int, 0, len(regions)+1)
		out = append(out, regions[:ri]...)
		out = append(out, regionA, regionB)
		out = append(out, regions[ri+1:]...)
		return out
	}
	return regions
}

func indexInRegion(region []int, v int) int {
	for i, r := range region {
		if r == v {
			return i
		}
	}
	return -1
}
