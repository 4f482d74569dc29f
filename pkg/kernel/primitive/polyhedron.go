package primitive

import (
	"fmt"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// Polyhedron validates that every face is planar (via Orient3D against the
// face's first three vertices) and triangulates non-triangular faces by
// ear-clipping in the face's dominant 2D projection (via Orient2D), per
// §4.3. Non-manifold input is a hard error, not a warning.
func Polyhedron(points []geom.Vec3, faces [][]int, id uint32, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("primitive: polyhedron needs at least 4 points, got %d", len(points))
	}
	if len(faces) < 4 {
		return nil, fmt.Errorf("primitive: polyhedron needs at least 4 faces, got %d", len(faces))
	}

	var triangles [][3]int
	for fi, face := range faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("primitive: polyhedron face %d has fewer than 3 vertices", fi)
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("primitive: polyhedron face %d references out-of-range point %d", fi, idx)
			}
		}
		if len(face) == 3 {
			triangles = append(triangles, [3]int{face[0], face[1], face[2]})
			continue
		}
		if !facePlanar(points, face) {
			return nil, fmt.Errorf("primitive: polyhedron face %d is not planar", fi)
		}
		tris, err := earClipFace(points, face)
		if err != nil {
			return nil, fmt.Errorf("primitive: polyhedron face %d: %w", fi, err)
		}
		triangles = append(triangles, tris...)
	}

	ids := make([]uint32, len(triangles))
	for i := range ids {
		ids[i] = id
	}
	return mesh.FromTriangleSoup(points, triangles, ids, cfg)
}

// facePlanar checks every vertex of face beyond the first three against
// the plane the first three define, via the exact Orient3D predicate.
func facePlanar(points []geom.Vec3, face []int) bool {
	a, b, c := points[face[0]], points[face[1]], points[face[2]]
	for i := 3; i < len(face); i++ {
		if geom.Orient3D(a, b, c, points[face[i]]) != 0 {
			return false
		}
	}
	return true
}

// dominantAxis returns the index (0=x,1=y,2=z) to drop when projecting a
// planar polygon to 2D, chosen as the axis the face normal is most aligned
// with so the 2D projection has maximal area (avoids degenerate
// projections of near-vertical or near-horizontal faces).
func dominantAxis(points []geom.Vec3, face []int) int {
	a, b, c := points[face[0]], points[face[1]], points[face[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	ax, ay, az := abs(n.X), abs(n.Y), abs(n.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= ax && ay >= az:
		return 1
	default:
		return 2
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func project2D(p geom.Vec3, drop int) geom.Vec2 {
	switch drop {
	case 0:
		return geom.Vec2{X: p.Y, Y: p.Z}
	case 1:
		return geom.Vec2{X: p.X, Y: p.Z}
	default:
		return geom.Vec2{X: p.X, Y: p.Y}
	}
}

// earClipFace triangulates a single planar, simple (possibly non-convex)
// polygon face by ear-clipping using Orient2D, in the face's dominant
// projection. Returns triangles as index triples into the original points
// array.
func earClipFace(points []geom.Vec3, face []int) ([][3]int, error) {
	drop := dominantAxis(points, face)
	proj := make([]geom.Vec2, len(face))
	for i, idx := range face {
		proj[i] = project2D(points[idx], drop)
	}
	if signedArea2(proj) < 0 {
		reverse(face)
		reverse(proj)
	}

	remaining := make([]int, len(face))
	for i := range remaining {
		remaining[i] = i
	}

	var triangles [][3]int
	guard := 0
	for len(remaining) > 3 && guard < len(face)*len(face)+8 {
		guard++
		n := len(remaining)
		clipped := false
		for i := 0; i < n; i++ {
			i0 := remaining[(i+n-1)%n]
			i1 := remaining[i]
			i2 := remaining[(i+1)%n]
			if !isEar(proj, remaining, i0, i1, i2) {
				continue
			}
			triangles = append(triangles, [3]int{face[i0], face[i1], face[i2]})
			remaining = append(append([]int{}, remaining[:i]...), remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, fmt.Errorf("ear-clipping stalled on a non-simple or degenerate face")
		}
	}
	if len(remaining) == 3 {
		triangles = append(triangles, [3]int{face[remaining[0]], face[remaining[1]], face[remaining[2]]})
	}
	return triangles, nil
}

func isEar(proj []geom.Vec2, remaining []int, i0, i1, i2 int) bool {
	a, b, c := proj[i0], proj[i1], proj[i2]
	if geom.Orient2D(a, b, c) <= 0 {
		return false
	}
	for _, idx := range remaining {
		if idx == i0 || idx == i1 || idx == i2 {
			continue
		}
		if pointInTriangle2(proj[idx], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle2(p, a, b, c geom.Vec2) bool {
	d1 := geom.Orient2D(a, b, p)
	d2 := geom.Orient2D(b, c, p)
	d3 := geom.Orient2D(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func signedArea2(poly []geom.Vec2) float64 {
	var sum float64
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += poly[i].Cross(poly[j])
	}
	return sum
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
