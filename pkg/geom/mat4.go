package geom

import "math"

// Mat4 is a 4x4 affine transform matrix in row-major order. Row 3 is
// always [0,0,0,1] for the affine transforms this kernel needs
// (translate/rotate/scale/mirror/multmatrix all preserve it), but
// multmatrix is allowed to set it explicitly for a general projective
// matrix; determinant/inverse below handle the general case.
type Mat4 [4][4]float64

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	var m Mat4
	for i := range m {
		m[i][i] = 1
	}
	return m
}

// Translate builds a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[0][3] = v.X
	m[1][3] = v.Y
	m[2][3] = v.Z
	return m
}

// Scale builds a diagonal scale matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0][0] = v.X
	m[1][1] = v.Y
	m[2][2] = v.Z
	return m
}

// RotateX/Y/Z build rotation matrices from an angle in radians.
func RotateX(rad float64) Mat4 {
	m := Identity()
	c, s := math.Cos(rad), math.Sin(rad)
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return m
}

func RotateY(rad float64) Mat4 {
	m := Identity()
	c, s := math.Cos(rad), math.Sin(rad)
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return m
}

func RotateZ(rad float64) Mat4 {
	m := Identity()
	c, s := math.Cos(rad), math.Sin(rad)
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return m
}

// RotateAxisAngle builds a rotation matrix around an arbitrary unit axis
// (Rodrigues' formula).
func RotateAxisAngle(axis Vec3, rad float64) Mat4 {
	a := axis.Normalized()
	c, s := math.Cos(rad), math.Sin(rad)
	t := 1 - c
	x, y, z := a.X, a.Y, a.Z
	m := Identity()
	m[0][0], m[0][1], m[0][2] = t*x*x+c, t*x*y-s*z, t*x*z+s*y
	m[1][0], m[1][1], m[1][2] = t*x*y+s*z, t*y*y+c, t*y*z-s*x
	m[2][0], m[2][1], m[2][2] = t*x*z-s*y, t*y*z+s*x, t*z*z+c
	return m
}

// EulerXYZ builds a rotation matrix from Euler angles in degrees, applied
// Z * Y * X (matching the teacher's sdfx.Rotate convention).
func EulerXYZ(xDeg, yDeg, zDeg float64) Mat4 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	return RotateZ(rad(zDeg)).Mul(RotateY(rad(yDeg))).Mul(RotateX(rad(xDeg)))
}

// Mul returns a*b (applies b first, then a, to a column vector).
func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Apply transforms a point (w=1).
func (a Mat4) Apply(v Vec3) Vec3 {
	return Vec3{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z + a[0][3],
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z + a[1][3],
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z + a[2][3],
	}
}

// ApplyDirection transforms a direction vector (w=0) — used for normals
// only when the matrix is orthogonal; otherwise callers should use the
// inverse-transpose via NormalMatrix.
func (a Mat4) ApplyDirection(v Vec3) Vec3 {
	return Vec3{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z,
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z,
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z,
	}
}

// LinearDeterminant returns the determinant of the upper-left 3x3 linear
// part, whose sign tells transforms whether winding must flip (spec §4.4).
func (a Mat4) LinearDeterminant() float64 {
	m := a
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// NormalMatrix returns the inverse-transpose of the linear part, the
// correct transform for surface normals under non-uniform scale.
func (a Mat4) NormalMatrix() Mat4 {
	inv, ok := a.Inverse()
	if !ok {
		return a
	}
	return inv.Transpose()
}

func (a Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = a[j][i]
		}
	}
	return r
}

// Inverse computes the general 4x4 inverse via Gauss-Jordan elimination
// with partial pivoting. Returns ok=false for a singular matrix.
func (a Mat4) Inverse() (Mat4, bool) {
	var aug [4][8]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			aug[i][j] = a[i][j]
		}
		aug[i][4+i] = 1
	}
	for col := 0; col < 4; col++ {
		pivot := col
		best := math.Abs(aug[col][col])
		for r := col + 1; r < 4; r++ {
			if v := math.Abs(aug[r][col]); v > best {
				pivot, best = r, v
			}
		}
		if best < 1e-14 {
			return Mat4{}, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		pv := aug[col][col]
		for j := 0; j < 8; j++ {
			aug[col][j] /= pv
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := aug[r][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 8; j++ {
				aug[r][j] -= f * aug[col][j]
			}
		}
	}
	var inv Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			inv[i][j] = aug[i][4+j]
		}
	}
	return inv, true
}
