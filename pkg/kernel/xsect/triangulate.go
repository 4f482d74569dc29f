package xsect

import (
	"fmt"
	"sort"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
)

// Triangle2D is a triangulated face as three indices into the point slice
// Triangulate was given.
type Triangle2D [3]int

// Triangulate ear-clips a CrossSection (possibly with holes) into
// triangles, per §4.7. The first contour is treated as the outer boundary
// and every subsequent contour as a hole; holes are bridged into the
// outer boundary (a zero-width channel from each hole's rightmost vertex
// to the nearest outer vertex with a larger X, see bridgeHole; no
// visibility test is made) so a single ear-clipping pass, using
// Orient2D throughout for correctness, can triangulate the whole shape.
// Sanitation (collapsing sub-MinEdgeLength edges, dropping sub-
// MinTriangleArea slivers) runs afterward and is not optional — §4.7
// states skipping it causes downstream boolean failures on extruded
// shapes.
func Triangulate(c *CrossSection, cfg geomconfig.Config) ([]geom.Vec2, []Triangle2D, error) {
	if c.IsEmpty() {
		return nil, nil, nil
	}
	points, merged, err := mergeHoles(c.Contours)
	if err != nil {
		return nil, nil, err
	}
	tris, err := earClip2D(points, merged)
	if err != nil {
		return nil, nil, err
	}
	points, tris = sanitize(points, tris, cfg)
	return points, tris, nil
}

// mergeHoles bridges every hole contour into the outer boundary, returning
// the combined point list and a single polygon (index list into it) ready
// for ear-clipping.
func mergeHoles(contours [][]geom.Vec2) ([]geom.Vec2, []int, error) {
	if len(contours) == 0 {
		return nil, nil, nil
	}
	var points []geom.Vec2
	outer := make([]int, len(contours[0]))
	for i, p := range contours[0] {
		outer[i] = len(points)
		points = append(points, p)
	}
	if signedArea2D(points, outer) < 0 {
		reverseInts(outer)
	}

	for hi := 1; hi < len(contours); hi++ {
		hole := make([]int, len(contours[hi]))
		for i, p := range contours[hi] {
			hole[i] = len(points)
			points = append(points, p)
		}
		if signedArea2D(points, hole) > 0 {
			reverseInts(hole)
		}
		var err error
		outer, err = bridgeHole(points, outer, hole)
		if err != nil {
			return nil, nil, err
		}
	}
	return points, outer, nil
}

// bridgeHole connects hole into outer at the hole's rightmost vertex and
// the nearest outer vertex with a larger X coordinate, the standard
// "zero-width channel" technique for reducing a polygon-with-holes to a
// single simple polygon.
func bridgeHole(points []geom.Vec2, outer, hole []int) ([]int, error) {
	if len(hole) == 0 {
		return outer, nil
	}
	rightmost := 0
	for i, idx := range hole {
		if points[idx].X > points[hole[rightmost]].X {
			rightmost = i
		}
	}
	holeStart := hole[rightmost]

	bestOuter := 0
	bestDist := -1.0
	for i, idx := range outer {
		if points[idx].X < points[holeStart].X {
			continue
		}
		d := points[idx].Sub(points[holeStart]).LengthSquared()
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestOuter = i
		}
	}
	if bestDist < 0 {
		// No outer vertex to the right; fall back to the nearest overall,
		// which still produces a valid (if less optimal) bridge.
		for i, idx := range outer {
			d := points[idx].Sub(points[holeStart]).LengthSquared()
			if bestDist < 0 || d < bestDist {
				bestDist = d
				bestOuter = i
			}
		}
	}

	rotatedHole := append(append([]int{}, hole[rightmost:]...), hole[:rightmost]...)

	var merged []int
	merged = append(merged, outer[:bestOuter+1]...)
	merged = append(merged, rotatedHole...)
	merged = append(merged, holeStart)
	merged = append(merged, outer[bestOuter:]...)
	return merged, nil
}

func signedArea2D(points []geom.Vec2, idx []int) float64 {
	var sum float64
	n := len(idx)
	for i := 0; i < n; i++ {
		a, b := points[idx[i]], points[idx[(i+1)%n]]
		sum += a.Cross(b)
	}
	return sum / 2
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// earClip2D triangulates a simple polygon (given as point indices) using
// Orient2D for both the convexity and the no-other-vertex-inside tests.
func earClip2D(points []geom.Vec2, poly []int) ([]Triangle2D, error) {
	remaining := append([]int{}, poly...)
	var tris []Triangle2D
	guard := 0
	for len(remaining) > 3 && guard < len(poly)*len(poly)+16 {
		guard++
		n := len(remaining)
		clipped := false
		for i := 0; i < n; i++ {
			i0 := remaining[(i+n-1)%n]
			i1 := remaining[i]
			i2 := remaining[(i+1)%n]
			if !isEar2D(points, remaining, i0, i1, i2) {
				continue
			}
			tris = append(tris, Triangle2D{i0, i1, i2})
			remaining = append(append([]int{}, remaining[:i]...), remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, fmt.Errorf("xsect: ear-clipping stalled on a non-simple polygon")
		}
	}
	if len(remaining) == 3 {
		tris = append(tris, Triangle2D{remaining[0], remaining[1], remaining[2]})
	}
	return tris, nil
}

func isEar2D(points []geom.Vec2, remaining []int, i0, i1, i2 int) bool {
	a, b, c := points[i0], points[i1], points[i2]
	if geom.Orient2D(a, b, c) <= 0 {
		return false
	}
	for _, idx := range remaining {
		if idx == i0 || idx == i1 || idx == i2 {
			continue
		}
		if insideTriangle2D(points[idx], a, b, c) {
			return false
		}
	}
	return true
}

func insideTriangle2D(p, a, b, c geom.Vec2) bool {
	d1 := geom.Orient2D(a, b, p)
	d2 := geom.Orient2D(b, c, p)
	d3 := geom.Orient2D(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// sanitize collapses edges shorter than cfg.MinEdgeLength (merging their
// endpoints and re-indexing) and drops triangles with area below
// cfg.MinTriangleArea, the mandatory post-triangulation pass of §4.7.
func sanitize(points []geom.Vec2, tris []Triangle2D, cfg geomconfig.Config) ([]geom.Vec2, []Triangle2D) {
	tol := cfg.MinEdgeLength
	if tol <= 0 {
		tol = geomconfig.Default.MinEdgeLength
	}
	minArea := cfg.MinTriangleArea
	if minArea <= 0 {
		minArea = geomconfig.Default.MinTriangleArea
	}

	remap := make([]int, len(points))
	keep := make([]geom.Vec2, 0, len(points))
	used := make([]bool, len(points))
	for _, t := range tris {
		for _, i := range t {
			used[i] = true
		}
	}
	type bucket struct{ x, y int64 }
	seen := make(map[bucket]int)
	for i, p := range points {
		if !used[i] {
			remap[i] = -1
			continue
		}
		k := bucket{quantize2(p.X, tol), quantize2(p.Y, tol)}
		if existing, ok := seen[k]; ok {
			remap[i] = existing
			continue
		}
		idx := len(keep)
		keep = append(keep, p)
		seen[k] = idx
		remap[i] = idx
	}

	var outTris []Triangle2D
	for _, t := range tris {
		a, b, c := remap[t[0]], remap[t[1]], remap[t[2]]
		if a == b || b == c || a == c {
			continue
		}
		area := triArea(keep[a], keep[b], keep[c])
		if area < minArea {
			continue
		}
		outTris = append(outTris, Triangle2D{a, b, c})
	}
	return keep, outTris
}

func quantize2(v, tol float64) int64 {
	return int64(v / tol)
}

func triArea(a, b, c geom.Vec2) float64 {
	area := b.Sub(a).Cross(c.Sub(a)) / 2
	if area < 0 {
		return -area
	}
	return area
}

var _ = sort.Ints
