// Package hull computes the 3D convex hull of a point cloud, backing §4.3's
// hull() operation. It implements the incremental "beneath-beyond"
// algorithm: seed with a non-degenerate tetrahedron, then for each
// remaining point find the faces it sees (via Orient3D), remove them,
// and fan the point to the resulting horizon.
package hull

import (
	"errors"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// ErrDegenerate is returned when every input point is coplanar (or there
// are fewer than 4 distinct points), so no 3D hull exists.
var ErrDegenerate = errors.New("hull: points are coplanar or insufficient")

type face struct {
	a, b, c int // indices into the working point set
}

// Compute3D returns the convex hull of points as a Manifold.
func Compute3D(points []geom.Vec3, cfg geomconfig.Config) (*mesh.Manifold, error) {
	pts := dedup3(points)
	if len(pts) < 4 {
		return nil, ErrDegenerate
	}

	seedIdx, err := seedTetrahedron(pts)
	if err != nil {
		return nil, err
	}
	faces := seedIdx

	remaining := make([]int, 0, len(pts))
	used := map[int]bool{faces[0].a: true, faces[0].b: true, faces[0].c: true}
	for _, f := range faces {
		used[f.a], used[f.b], used[f.c] = true, true, true
	}
	for i := range pts {
		if !used[i] {
			remaining = append(remaining, i)
		}
	}

	for _, pi := range remaining {
		p := pts[pi]
		var visible []int
		for fi, f := range faces {
			if geom.Orient3D(pts[f.a], pts[f.b], pts[f.c], p) < 0 {
				visible = append(visible, fi)
			}
		}
		if len(visible) == 0 {
			continue // point is inside the current hull
		}

		horizon := horizonEdges(faces, visible)

		keep := make([]face, 0, len(faces))
		visSet := make(map[int]bool, len(visible))
		for _, fi := range visible {
			visSet[fi] = true
		}
		for fi, f := range faces {
			if !visSet[fi] {
				keep = append(keep, f)
			}
		}
		for _, e := range horizon {
			keep = append(keep, face{e[0], e[1], pi})
		}
		faces = keep
	}

	positions := make([]geom.Vec3, 0, len(faces)*3)
	triangles := make([][3]int, 0, len(faces))
	ids := make([]uint32, 0, len(faces))
	for _, f := range faces {
		base := len(positions)
		positions = append(positions, pts[f.a], pts[f.b], pts[f.c])
		triangles = append(triangles, [3]int{base, base + 1, base + 2})
		ids = append(ids, 0)
	}
	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}

// horizonEdges returns the boundary edges of the union of the visible
// faces: any directed edge whose opposite direction does not also belong
// to a visible face is on the horizon, oriented outward so fanning the
// new point to it preserves CCW winding.
func horizonEdges(faces []face, visible []int) [][2]int {
	type edgeKey struct{ a, b int }
	dirCount := make(map[edgeKey]bool)
	for _, fi := range visible {
		f := faces[fi]
		for _, e := range [][2]int{{f.a, f.b}, {f.b, f.c}, {f.c, f.a}} {
			dirCount[edgeKey{e[0], e[1]}] = true
		}
	}
	var horizon [][2]int
	for e := range dirCount {
		if !dirCount[edgeKey{e.b, e.a}] {
			horizon = append(horizon, [2]int{e.a, e.b})
		}
	}
	return horizon
}

// seedTetrahedron finds four non-coplanar points among pts and returns the
// four outward-facing triangles of the tetrahedron they form. It scans
// linearly for a non-degenerate point at each step rather than searching
// all 4-subsets, which is O(n) for ordinary (non-adversarial) point
// clouds; only truly degenerate inputs (long runs of collinear/coplanar
// points) push it toward worse behaviour.
func seedTetrahedron(pts []geom.Vec3) ([]face, error) {
	n := len(pts)
	if n < 4 {
		return nil, ErrDegenerate
	}
	i, j := 0, 1
	for j < n && pts[i] == pts[j] {
		j++
	}
	if j >= n {
		return nil, ErrDegenerate
	}
	k := j + 1
	for k < n && collinear(pts[i], pts[j], pts[k]) {
		k++
	}
	if k >= n {
		return nil, ErrDegenerate
	}
	l := k + 1
	for l < n && geom.Orient3D(pts[i], pts[j], pts[k], pts[l]) == 0 {
		l++
	}
	if l >= n {
		return nil, ErrDegenerate
	}

	a, b, c, d := i, j, k, l
	if geom.Orient3D(pts[a], pts[b], pts[c], pts[d]) < 0 {
		b, c = c, b
	}
	return []face{
		{a, b, c},
		{a, c, d},
		{a, d, b},
		{b, d, c},
	}, nil
}

func collinear(a, b, c geom.Vec3) bool {
	return b.Sub(a).Cross(c.Sub(a)).LengthSquared() == 0
}

func dedup3(points []geom.Vec3) []geom.Vec3 {
	seen := make(map[geom.Vec3]bool, len(points))
	out := make([]geom.Vec3, 0, len(points))
	for _, p := range points {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
