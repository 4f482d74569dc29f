package geom

import (
	"math"
	"testing"
)

func vecClose(a, b Vec3, tol float64) bool {
	return almostEqual(a.X, b.X, tol) && almostEqual(a.Y, b.Y, tol) && almostEqual(a.Z, b.Z, tol)
}

func TestMat4Identity(t *testing.T) {
	v := NewVec3(1, 2, 3)
	if got := Identity().Apply(v); got != v {
		t.Fatalf("Identity().Apply(v) = %v, want %v", got, v)
	}
}

func TestMat4Translate(t *testing.T) {
	m := Translate(NewVec3(10, 20, 30))
	got := m.Apply(NewVec3(1, 1, 1))
	want := NewVec3(11, 21, 31)
	if got != want {
		t.Fatalf("Translate.Apply = %v, want %v", got, want)
	}
}

func TestMat4RotateZ90(t *testing.T) {
	m := RotateZ(math.Pi / 2)
	got := m.Apply(NewVec3(1, 0, 0))
	want := NewVec3(0, 1, 0)
	if !vecClose(got, want, 1e-9) {
		t.Fatalf("RotateZ(90deg).Apply(x-axis) = %v, want %v", got, want)
	}
}

func TestMat4MulComposesTransforms(t *testing.T) {
	t1 := Translate(NewVec3(1, 0, 0))
	t2 := Translate(NewVec3(0, 1, 0))
	combined := t2.Mul(t1)
	got := combined.Apply(NewVec3(0, 0, 0))
	want := NewVec3(1, 1, 0)
	if got != want {
		t.Fatalf("(t2*t1).Apply(origin) = %v, want %v", got, want)
	}
}

func TestMat4ScaleLinearDeterminant(t *testing.T) {
	m := Scale(NewVec3(2, 3, 4))
	if got := m.LinearDeterminant(); !almostEqual(got, 24, 1e-9) {
		t.Fatalf("LinearDeterminant = %v, want 24", got)
	}

	mirror := Scale(NewVec3(-1, 1, 1))
	if got := mirror.LinearDeterminant(); got >= 0 {
		t.Fatalf("mirror determinant = %v, want negative", got)
	}
}

func TestMat4InverseRoundTrips(t *testing.T) {
	m := Translate(NewVec3(3, -2, 5)).Mul(RotateY(0.4)).Mul(Scale(NewVec3(2, 1, 3)))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse() reported singular for a well-conditioned matrix")
	}
	v := NewVec3(1, 2, 3)
	roundTrip := inv.Apply(m.Apply(v))
	if !vecClose(roundTrip, v, 1e-6) {
		t.Fatalf("inverse round-trip = %v, want %v", roundTrip, v)
	}
}

func TestMat4InverseSingular(t *testing.T) {
	m := Scale(NewVec3(0, 1, 1))
	if _, ok := m.Inverse(); ok {
		t.Fatal("Inverse() of a singular matrix reported ok=true")
	}
}
