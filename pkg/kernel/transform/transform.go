// Package transform builds the Mat4s behind §4.4's affine operations
// (translate, rotate, scale, mirror, resize, multmatrix) and applies them
// to a Manifold. Winding/normal preservation is handled by
// Manifold.Transform itself (it flips triangle winding whenever the
// linear part's determinant is negative); this package's job is only to
// build the correct matrix for each named operation.
package transform

import (
	"fmt"
	"math"

	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// Translate shifts m by v.
func Translate(m *mesh.Manifold, v geom.Vec3) *mesh.Manifold {
	return m.Transform(geom.Translate(v))
}

// Rotate rotates m. If axis is non-zero, it is axis-angle (degrees around
// axis); otherwise euler gives independent X/Y/Z Euler angles in degrees,
// applied Z*Y*X, matching geom.EulerXYZ.
func Rotate(m *mesh.Manifold, axis geom.Vec3, angleDeg float64, euler geom.Vec3) *mesh.Manifold {
	if axis != (geom.Vec3{}) {
		return m.Transform(geom.RotateAxisAngle(axis, angleDeg*math.Pi/180))
	}
	return m.Transform(geom.EulerXYZ(euler.X, euler.Y, euler.Z))
}

// Scale scales m componentwise by v. v must be componentwise non-zero;
// zero would collapse the solid to a lower-dimensional degenerate mesh.
func Scale(m *mesh.Manifold, v geom.Vec3) (*mesh.Manifold, error) {
	if v.X == 0 || v.Y == 0 || v.Z == 0 {
		return nil, fmt.Errorf("transform: scale factors %v must be non-zero", v)
	}
	return m.Transform(geom.Scale(v)), nil
}

// Mirror reflects m across the plane through the origin with the given
// normal. The reflection matrix has a negative determinant, so
// Manifold.Transform flips winding automatically, keeping the solid
// externally-CCW.
func Mirror(m *mesh.Manifold, normal geom.Vec3) (*mesh.Manifold, error) {
	n := normal.Normalized()
	if n == (geom.Vec3{}) {
		return nil, fmt.Errorf("transform: mirror normal must be non-zero")
	}
	r := geom.Identity()
	// Householder reflection: I - 2*n*n^T.
	r[0][0] = 1 - 2*n.X*n.X
	r[0][1] = -2 * n.X * n.Y
	r[0][2] = -2 * n.X * n.Z
	r[1][0] = -2 * n.Y * n.X
	r[1][1] = 1 - 2*n.Y*n.Y
	r[1][2] = -2 * n.Y * n.Z
	r[2][0] = -2 * n.Z * n.X
	r[2][1] = -2 * n.Z * n.Y
	r[2][2] = 1 - 2*n.Z*n.Z
	return m.Transform(r), nil
}

// Resize computes the per-axis scale factor that would bring m's current
// bounding box extent to newSize (§4.4) and applies it. An axis in
// newSize that is zero leaves that axis unscaled unless auto requests
// proportional scaling, in which case it takes the largest factor among
// the explicitly resized axes (1 if there are none).
func Resize(m *mesh.Manifold, newSize geom.Vec3, auto [3]bool) (*mesh.Manifold, error) {
	bb := m.BoundingBox()
	if bb.Empty() {
		return m, nil
	}
	extent := bb.Diagonal()
	factor := func(newV, oldV float64) float64 {
		if newV == 0 || oldV == 0 {
			return 1
		}
		return newV / oldV
	}
	sx := factor(newSize.X, extent.X)
	sy := factor(newSize.Y, extent.Y)
	sz := factor(newSize.Z, extent.Z)

	// auto[i] requests axis i scale proportionally to the largest
	// explicitly-resized axis, rather than being left at 1.
	maxFactor := 0.0
	for _, a := range [3][2]float64{{newSize.X, sx}, {newSize.Y, sy}, {newSize.Z, sz}} {
		if a[0] != 0 && a[1] > maxFactor {
			maxFactor = a[1]
		}
	}
	if maxFactor == 0 {
		maxFactor = 1
	}
	if auto[0] && newSize.X == 0 {
		sx = maxFactor
	}
	if auto[1] && newSize.Y == 0 {
		sy = maxFactor
	}
	if auto[2] && newSize.Z == 0 {
		sz = maxFactor
	}
	return Scale(m, geom.NewVec3(sx, sy, sz))
}

// MultMatrix applies an arbitrary 4x4 matrix directly.
func MultMatrix(m *mesh.Manifold, mat geom.Mat4) *mesh.Manifold {
	return m.Transform(mat)
}
