// Package primitive builds the base solids and 2D shapes of §4.3: cube,
// sphere (icosphere subdivision), cylinder, polyhedron, and the 2D
// primitives square/circle/polygon. Every constructor validates its inputs
// before building, in the teacher's primitive-constructor style
// (pkg/kernel/sdfx/sdfx.go's Box/Cylinder), generalized from SDF
// construction to explicit half-edge mesh construction since sdfx builds
// these implicitly via marching cubes rather than as an indexed mesh.
package primitive

import (
	"fmt"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// cubeFaces lists the 12 triangles of a unit box in terms of the 8 corner
// indices produced by cubeCorners, wound CCW when viewed from outside.
var cubeFaces = [12][3]int{
	{0, 3, 2}, {0, 2, 1}, // -z (bottom)
	{4, 5, 6}, {4, 6, 7}, // +z (top)
	{0, 1, 5}, {0, 5, 4}, // -y (front)
	{1, 2, 6}, {1, 6, 5}, // +x (right)
	{2, 3, 7}, {2, 7, 6}, // +y (back)
	{3, 0, 4}, {3, 4, 7}, // -x (left)
}

func cubeCorners(size geom.Vec3, center bool) [8]geom.Vec3 {
	var origin geom.Vec3
	if center {
		origin = size.Scale(-0.5)
	}
	x, y, z := size.X, size.Y, size.Z
	return [8]geom.Vec3{
		origin.Add(geom.NewVec3(0, 0, 0)),
		origin.Add(geom.NewVec3(x, 0, 0)),
		origin.Add(geom.NewVec3(x, y, 0)),
		origin.Add(geom.NewVec3(0, y, 0)),
		origin.Add(geom.NewVec3(0, 0, z)),
		origin.Add(geom.NewVec3(x, 0, z)),
		origin.Add(geom.NewVec3(x, y, z)),
		origin.Add(geom.NewVec3(0, y, z)),
	}
}

// Cube builds an 8-vertex, 12-triangle box. size must be componentwise > 0.
// When center is false the box occupies the positive octant from the
// origin; when true it is centered at the origin.
func Cube(size geom.Vec3, center bool, id uint32, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("primitive: cube size %v must be componentwise positive", size)
	}
	corners := cubeCorners(size, center)
	positions := corners[:]
	triangles := make([][3]int, len(cubeFaces))
	ids := make([]uint32, len(cubeFaces))
	for i, f := range cubeFaces {
		triangles[i] = f
		ids[i] = id
	}
	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}
