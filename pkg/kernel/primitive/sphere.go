package primitive

import (
	"fmt"
	"math"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// icosahedron returns the 12 vertices and 20 faces of a regulated
// icosahedron inscribed in the unit sphere, the seed for icosphere
// subdivision (§4.3).
func icosahedron() ([]geom.Vec3, [][3]int) {
	t := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	verts := make([]geom.Vec3, len(raw))
	for i, r := range raw {
		verts[i] = geom.Vec3FromArray(r).Normalized()
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return verts, faces
}

type midpointKey struct{ a, b int }

// subdivide splits every triangle into four by inserting and
// sphere-projecting each edge midpoint, one round of icosphere refinement.
func subdivide(verts []geom.Vec3, faces [][3]int) ([]geom.Vec3, [][3]int) {
	cache := make(map[midpointKey]int)
	midpoint := func(i, j int) int {
		k := midpointKey{i, j}
		if i > j {
			k = midpointKey{j, i}
		}
		if idx, ok := cache[k]; ok {
			return idx
		}
		mid := verts[i].Lerp(verts[j], 0.5).Normalized()
		idx := len(verts)
		verts = append(verts, mid)
		cache[k] = idx
		return idx
	}

	newFaces := make([][3]int, 0, len(faces)*4)
	for _, f := range faces {
		a := midpoint(f[0], f[1])
		b := midpoint(f[1], f[2])
		c := midpoint(f[2], f[0])
		newFaces = append(newFaces,
			[3]int{f[0], a, c},
			[3]int{f[1], b, a},
			[3]int{f[2], c, b},
			[3]int{a, b, c},
		)
	}
	return verts, newFaces
}

// subdivisionRounds returns the smallest k with 20*4^k >= target, per §4.3.
func subdivisionRounds(target int) int {
	faces := 20
	k := 0
	for faces < target {
		faces *= 4
		k++
	}
	return k
}

// Sphere builds an icosphere: start from a regulated icosahedron, subdivide
// until the face count meets the resolution implied by radius/fn/fa/fs, and
// project every inserted vertex back onto the sphere (§4.3). Every vertex
// lies on the sphere within cfg.Epsilon*radius.
func Sphere(radius float64, fn int, fa, fs float64, id uint32, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("primitive: sphere radius %v must be positive", radius)
	}
	segments := cfg.Resolution(radius, fn, fa, fs)
	k := subdivisionRounds(segments)

	verts, faces := icosahedron()
	for i := 0; i < k; i++ {
		verts, faces = subdivide(verts, faces)
	}

	positions := make([]geom.Vec3, len(verts))
	for i, v := range verts {
		positions[i] = v.Scale(radius)
	}
	triangles := make([][3]int, len(faces))
	ids := make([]uint32, len(faces))
	for i, f := range faces {
		triangles[i] = [3]int{f[0], f[1], f[2]}
		ids[i] = id
	}
	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}
