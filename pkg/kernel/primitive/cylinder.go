package primitive

import (
	"fmt"
	"math"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// Cylinder builds a cylinder (or cone, when rBottom or rTop is zero) with
// segments sides, per §4.3. The bottom circle sits at z=0 and the top at
// z=height unless center is set, in which case the solid is shifted down
// by height/2 along its axis. Each side is 2 triangles per segment,
// degenerating to 1 where a radius is 0. Caps are fan-triangulated (valid
// since a regular polygon is convex) and omitted where their radius is 0.
func Cylinder(height, rBottom, rTop float64, fn int, fa, fs float64, center bool, id uint32, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if height <= 0 {
		return nil, fmt.Errorf("primitive: cylinder height %v must be positive", height)
	}
	if rBottom < 0 || rTop < 0 {
		return nil, fmt.Errorf("primitive: cylinder radii must be non-negative")
	}
	if rBottom == 0 && rTop == 0 {
		return nil, fmt.Errorf("primitive: cylinder must have at least one positive radius")
	}

	maxR := math.Max(rBottom, rTop)
	segments := cfg.Resolution(maxR, fn, fa, fs)

	z0, z1 := 0.0, height
	if center {
		z0, z1 = -height/2, height/2
	}

	var positions []geom.Vec3
	bottomIdx := make([]int, segments)
	topIdx := make([]int, segments)

	haveBottom := rBottom > 0
	haveTop := rTop > 0

	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		c, s := math.Cos(theta), math.Sin(theta)
		if haveBottom {
			bottomIdx[i] = len(positions)
			positions = append(positions, geom.NewVec3(rBottom*c, rBottom*s, z0))
		}
		if haveTop {
			topIdx[i] = len(positions)
			positions = append(positions, geom.NewVec3(rTop*c, rTop*s, z1))
		}
	}

	var apexBottom, apexTop int
	if !haveBottom {
		apexBottom = len(positions)
		positions = append(positions, geom.NewVec3(0, 0, z0))
	}
	if !haveTop {
		apexTop = len(positions)
		positions = append(positions, geom.NewVec3(0, 0, z1))
	}

	var triangles [][3]int
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		switch {
		case haveBottom && haveTop:
			triangles = append(triangles,
				[3]int{bottomIdx[i], bottomIdx[j], topIdx[j]},
				[3]int{bottomIdx[i], topIdx[j], topIdx[i]},
			)
		case haveBottom && !haveTop:
			triangles = append(triangles, [3]int{bottomIdx[i], bottomIdx[j], apexTop})
		case !haveBottom && haveTop:
			triangles = append(triangles, [3]int{apexBottom, topIdx[j], topIdx[i]})
		}
	}

	// Bottom cap: fan from vertex 0, wound so the normal points -z (outward).
	if haveBottom {
		for i := 1; i < segments-1; i++ {
			triangles = append(triangles, [3]int{bottomIdx[0], bottomIdx[i+1], bottomIdx[i]})
		}
	}
	// Top cap: fan wound so the normal points +z (outward).
	if haveTop {
		for i := 1; i < segments-1; i++ {
			triangles = append(triangles, [3]int{topIdx[0], topIdx[i], topIdx[i+1]})
		}
	}

	ids := make([]uint32, len(triangles))
	for i := range ids {
		ids[i] = id
	}
	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}
