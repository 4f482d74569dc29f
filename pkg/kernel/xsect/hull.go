package xsect

import (
	"sort"

	"github.com/chazu/geode/pkg/geom"
)

// Hull2D returns the convex hull of a set of 2D points via a monotone
// chain scan (Andrew's algorithm), using Orient2D for every turn decision
// so the hull is exact regardless of point configuration.
func Hull2D(points []geom.Vec2) *CrossSection {
	pts := dedupPoints(points)
	if len(pts) < 3 {
		return Empty
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	build := func(seq []geom.Vec2) []geom.Vec2 {
		var hull []geom.Vec2
		for _, p := range seq {
			for len(hull) >= 2 && geom.Orient2D(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
				hull = hull[:len(hull)-1]
			}
			hull = append(hull, p)
		}
		return hull
	}

	lower := build(pts)
	upper := build(reversedVec2(pts))
	lower = lower[:len(lower)-1]
	upper = upper[:len(upper)-1]
	hull := append(lower, upper...)
	if len(hull) < 3 {
		return Empty
	}
	return New([][]geom.Vec2{hull})
}

func dedupPoints(points []geom.Vec2) []geom.Vec2 {
	seen := make(map[geom.Vec2]bool, len(points))
	out := make([]geom.Vec2, 0, len(points))
	for _, p := range points {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func reversedVec2(in []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(in))
	for i, p := range in {
		out[len(in)-1-i] = p
	}
	return out
}
