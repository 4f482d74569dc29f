package primitive

import (
	"fmt"
	"math"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/xsect"
)

// Square builds a rectangular CrossSection, centered at the origin or with
// its minimum corner there, analogous to Cube in 2D.
func Square(size geom.Vec2, center bool, cfg geomconfig.Config) (*xsect.CrossSection, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("primitive: square size %v must be componentwise positive", size)
	}
	var origin geom.Vec2
	if center {
		origin = size.Scale(-0.5)
	}
	contour := []geom.Vec2{
		origin,
		origin.Add(geom.Vec2{X: size.X}),
		origin.Add(size),
		origin.Add(geom.Vec2{Y: size.Y}),
	}
	return xsect.New([][]geom.Vec2{contour}), nil
}

// Circle builds a regular-polygon CrossSection approximating a circle of
// the given radius, with segment count resolved the same way Sphere/
// Cylinder resolve theirs (§4.3).
func Circle(radius float64, fn int, fa, fs float64, cfg geomconfig.Config) (*xsect.CrossSection, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("primitive: circle radius %v must be positive", radius)
	}
	segments := cfg.Resolution(radius, fn, fa, fs)
	contour := make([]geom.Vec2, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		contour[i] = geom.Vec2{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return xsect.New([][]geom.Vec2{contour}), nil
}

// Polygon builds a CrossSection directly from explicit point/path data, the
// 2D analogue of Polyhedron. paths is a list of index lists into points;
// each path becomes one contour. An empty paths list treats all points as
// a single contour in order, the common case.
func Polygon(points []geom.Vec2, paths [][]int) (*xsect.CrossSection, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("primitive: polygon needs at least 3 points, got %d", len(points))
	}
	if len(paths) == 0 {
		return xsect.New([][]geom.Vec2{points}), nil
	}
	contours := make([][]geom.Vec2, len(paths))
	for pi, path := range paths {
		if len(path) < 3 {
			return nil, fmt.Errorf("primitive: polygon path %d has fewer than 3 vertices", pi)
		}
		contour := make([]geom.Vec2, len(path))
		for i, idx := range path {
			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("primitive: polygon path %d references out-of-range point %d", pi, idx)
			}
			contour[i] = points[idx]
		}
		contours[pi] = contour
	}
	return xsect.New(contours), nil
}
