package xsect

import (
	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

type sliceChord struct{ a, b geom.Vec2 }

// Slice intersects m with the Z=z plane and returns the resulting
// CrossSection, per §4.3's projection(cut=true) operation. Each triangle
// straddling the plane contributes a chord; chords are chained into
// closed contours by shared endpoint, the 2D analogue of the boolean
// engine's topology reconstruction in pkg/kernel/boolean.
func Slice(m *mesh.Manifold, z float64, cfg geomconfig.Config) *CrossSection {
	if m.IsEmpty() {
		return Empty
	}
	hm := m.Mesh()
	var chords []sliceChord

	for t := 0; t < hm.TriangleCount(); t++ {
		tri := hm.TrianglePositions(t)
		var onPos, onNeg []geom.Vec3
		var cross []geom.Vec3
		for i := 0; i < 3; i++ {
			p0, p1 := tri[i], tri[(i+1)%3]
			s0, s1 := p0.Z-z, p1.Z-z
			if s0 > 0 {
				onPos = append(onPos, p0)
			} else if s0 < 0 {
				onNeg = append(onNeg, p0)
			}
			if (s0 > 0 && s1 < 0) || (s0 < 0 && s1 > 0) {
				tt := s0 / (s0 - s1)
				cross = append(cross, p0.Lerp(p1, tt))
			}
		}
		if len(onPos) > 0 && len(onNeg) > 0 && len(cross) == 2 {
			chords = append(chords, sliceChord{
				a: geom.Vec2{X: cross[0].X, Y: cross[0].Y},
				b: geom.Vec2{X: cross[1].X, Y: cross[1].Y},
			})
		}
	}

	tol := cfg.MinEdgeLength
	if tol <= 0 {
		tol = geomconfig.Default.MinEdgeLength
	}
	contours := chainChords(chords, tol)
	if len(contours) == 0 {
		return Empty
	}
	return New(contours)
}

func chainChords(chords []sliceChord, tol float64) [][]geom.Vec2 {
	type key struct{ x, y int64 }
	quant := func(p geom.Vec2) key { return key{int64(p.X / tol), int64(p.Y / tol)} }

	adj := make(map[key][]int)
	for i, c := range chords {
		adj[quant(c.a)] = append(adj[quant(c.a)], i)
		adj[quant(c.b)] = append(adj[quant(c.b)], i)
	}

	used := make([]bool, len(chords))
	var contours [][]geom.Vec2
	for start := range chords {
		if used[start] {
			continue
		}
		used[start] = true
		contour := []geom.Vec2{chords[start].a, chords[start].b}
		cur := chords[start].b
		for {
			k := quant(cur)
			next := -1
			for _, ci := range adj[k] {
				if !used[ci] {
					next = ci
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			c := chords[next]
			if quant(c.a) == k {
				cur = c.b
			} else {
				cur = c.a
			}
			contour = append(contour, cur)
		}
		if len(contour) >= 3 {
			contours = append(contours, contour)
		}
	}
	return contours
}
