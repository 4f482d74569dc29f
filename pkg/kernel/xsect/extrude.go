package xsect

import (
	"math"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// LinearExtrudeParams mirrors §4.3's linear_extrude operation parameters.
type LinearExtrudeParams struct {
	Height    float64
	Twist     float64 // total rotation in degrees over the full height
	Slices    int      // 0 means derive from Twist/resolution
	Scale     geom.Vec2 // top-face scale relative to the base; {1,1} for none
	Center    bool
}

// LinearExtrude sweeps c along +Z for Height, optionally twisting and
// scaling the top face, per §4.3. A Scale of {0,0} is treated as unset
// and extrudes with no scaling ({1,1}); the top face is never collapsed
// to an apex.
func LinearExtrude(c *CrossSection, p LinearExtrudeParams, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if c.IsEmpty() || p.Height <= 0 {
		return mesh.Empty, nil
	}
	points, tris, err := Triangulate(c, cfg)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return mesh.Empty, nil
	}

	slices := p.Slices
	if slices <= 0 {
		slices = 1
		if p.Twist != 0 {
			slices = cfg.Resolution(1, cfg.DefaultFN, cfg.DefaultFA, cfg.DefaultFS)
		}
	}

	zBase, zTop := 0.0, p.Height
	if p.Center {
		zBase, zTop = -p.Height/2, p.Height/2
	}

	scale := p.Scale
	if scale.X == 0 && scale.Y == 0 {
		scale = geom.Vec2{X: 1, Y: 1}
	}

	var positions []geom.Vec3
	var triangles [][3]int
	var ids []uint32
	const capID, wallID = 1, 2

	ringAt := func(s int) []geom.Vec3 {
		t := float64(s) / float64(slices)
		z := zBase + t*(zTop-zBase)
		ang := p.Twist * t * math.Pi / 180
		sx := 1 + t*(scale.X-1)
		sy := 1 + t*(scale.Y-1)
		cosA, sinA := math.Cos(ang), math.Sin(ang)
		ring := make([]geom.Vec3, len(points))
		for i, pt := range points {
			x := pt.X * sx
			y := pt.Y * sy
			rx := x*cosA - y*sinA
			ry := x*sinA + y*cosA
			ring[i] = geom.Vec3{X: rx, Y: ry, Z: z}
		}
		return ring
	}

	rings := make([][]geom.Vec3, slices+1)
	for s := 0; s <= slices; s++ {
		rings[s] = ringAt(s)
	}

	addTri := func(a, b, c geom.Vec3, id uint32) {
		base := len(positions)
		positions = append(positions, a, b, c)
		triangles = append(triangles, [3]int{base, base + 1, base + 2})
		ids = append(ids, id)
	}

	// Bottom cap, reversed so its normal points -Z.
	for _, tr := range tris {
		addTri(rings[0][tr[2]], rings[0][tr[1]], rings[0][tr[0]], capID)
	}
	// Top cap.
	for _, tr := range tris {
		addTri(rings[slices][tr[0]], rings[slices][tr[1]], rings[slices][tr[2]], capID)
	}

	// Walls: stitch every boundary edge of the 2D cross-section between
	// adjacent rings. Boundary edges are exactly the contour edges, so walk
	// c.Contours directly rather than re-deriving them from the
	// triangulation's (possibly sanitized/reindexed) point list.
	ptIndex := make(map[geom.Vec2]int, len(points))
	for i, p := range points {
		ptIndex[p] = i
	}
	for s := 0; s < slices; s++ {
		for _, contour := range c.Contours {
			n := len(contour)
			for i := 0; i < n; i++ {
				a, ok1 := ptIndex[contour[i]]
				b, ok2 := ptIndex[contour[(i+1)%n]]
				if !ok1 || !ok2 {
					continue // collapsed by sanitation
				}
				a0, b0 := rings[s][a], rings[s][b]
				a1, b1 := rings[s+1][a], rings[s+1][b]
				addTri(a0, b0, b1, wallID)
				addTri(a0, b1, a1, wallID)
			}
		}
	}

	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}

// RotateExtrudeParams mirrors §4.3's rotate_extrude operation parameters.
type RotateExtrudeParams struct {
	Angle    float64 // degrees, 360 for a full revolution
	Segments int     // 0 means derive from resolution
}

// RotateExtrude revolves c (which must lie entirely on one side of the Y
// axis, per convention x >= 0) around the Y axis by Angle degrees,
// closing the seam for a full 360° sweep and capping both ends otherwise,
// per §4.3.
func RotateExtrude(c *CrossSection, p RotateExtrudeParams, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if c.IsEmpty() {
		return mesh.Empty, nil
	}
	angle := p.Angle
	if angle <= 0 {
		angle = 360
	}
	full := angle >= 360-1e-9

	points, tris, err := Triangulate(c, cfg)
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return mesh.Empty, nil
	}

	maxRadius := 0.0
	for _, pt := range points {
		if pt.X > maxRadius {
			maxRadius = pt.X
		}
	}
	segments := p.Segments
	if segments <= 0 {
		segments = cfg.Resolution(maxRadius, cfg.DefaultFN, cfg.DefaultFA, cfg.DefaultFS)
	}

	rings := segments
	if !full {
		rings = segments + 1
	}

	ringAt := func(s int) []geom.Vec3 {
		ang := angle * float64(s) / float64(segments) * math.Pi / 180
		cosA, sinA := math.Cos(ang), math.Sin(ang)
		ring := make([]geom.Vec3, len(points))
		for i, pt := range points {
			// 2D (x,y) maps to (radius, axial height): x is the radius
			// around Y, y becomes the Y coordinate.
			ring[i] = geom.Vec3{X: pt.X * cosA, Y: pt.Y, Z: pt.X * sinA}
		}
		return ring
	}

	ringSlice := make([][]geom.Vec3, rings)
	for s := 0; s < rings; s++ {
		ringSlice[s] = ringAt(s)
	}

	var positions []geom.Vec3
	var triangles [][3]int
	var ids []uint32
	const wallID, capID = 1, 2

	addTri := func(a, b, d geom.Vec3, id uint32) {
		base := len(positions)
		positions = append(positions, a, b, d)
		triangles = append(triangles, [3]int{base, base + 1, base + 2})
		ids = append(ids, id)
	}

	ptIndex := make(map[geom.Vec2]int, len(points))
	for i, p := range points {
		ptIndex[p] = i
	}

	sweepCount := segments
	if !full {
		sweepCount = segments
	}
	for s := 0; s < sweepCount; s++ {
		next := (s + 1) % rings
		if !full {
			next = s + 1
		}
		if next >= rings {
			break
		}
		for _, contour := range c.Contours {
			n := len(contour)
			for i := 0; i < n; i++ {
				a, ok1 := ptIndex[contour[i]]
				b, ok2 := ptIndex[contour[(i+1)%n]]
				if !ok1 || !ok2 {
					continue
				}
				a0, b0 := ringSlice[s][a], ringSlice[s][b]
				a1, b1 := ringSlice[next][a], ringSlice[next][b]
				addTri(a0, b1, b0, wallID)
				addTri(a0, a1, b1, wallID)
			}
		}
	}

	if !full {
		for _, tr := range tris {
			addTri(ringSlice[0][tr[2]], ringSlice[0][tr[1]], ringSlice[0][tr[0]], capID)
		}
		for _, tr := range tris {
			addTri(ringSlice[rings-1][tr[0]], ringSlice[rings-1][tr[1]], ringSlice[rings-1][tr[2]], capID)
		}
	}

	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}
