package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -1, 2)

	if got := a.Add(b); got != (Vec3{5, 1, 5}) {
		t.Fatalf("Add = %v, want {5 1 5}", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, 3, 1}) {
		t.Fatalf("Sub = %v, want {-3 3 1}", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Fatalf("Scale = %v, want {2 4 6}", got)
	}
	if got := a.Dot(b); got != 4-2+6 {
		t.Fatalf("Dot = %v, want 8", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	z := x.Cross(y)
	if z != (Vec3{0, 0, 1}) {
		t.Fatalf("x cross y = %v, want {0 0 1}", z)
	}
}

func TestVec3Normalized(t *testing.T) {
	v := NewVec3(3, 4, 0)
	n := v.Normalized()
	if !almostEqual(n.Length(), 1, 1e-12) {
		t.Fatalf("normalized length = %v, want 1", n.Length())
	}
	zero := Vec3{}
	if got := zero.Normalized(); got != zero {
		t.Fatalf("zero.Normalized() = %v, want zero vector", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Fatal("finite vector reported non-finite")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Fatal("NaN vector reported finite")
	}
	if NewVec3(math.Inf(1), 0, 0).IsFinite() {
		t.Fatal("+Inf vector reported finite")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(10, 10, 10)
	mid := a.Lerp(b, 0.5)
	if mid != (Vec3{5, 5, 5}) {
		t.Fatalf("Lerp at 0.5 = %v, want {5 5 5}", mid)
	}
}

func TestVec2CrossAndTo3(t *testing.T) {
	a := Vec2{1, 0}
	b := Vec2{0, 1}
	if got := a.Cross(b); got != 1 {
		t.Fatalf("Vec2 cross = %v, want 1", got)
	}
	v3 := Vec2{2, 3}.To3()
	if v3 != (Vec3{2, 3, 0}) {
		t.Fatalf("To3 = %v, want {2 3 0}", v3)
	}
}
