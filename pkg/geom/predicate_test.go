package geom

import "testing"

func TestOrient2DSign(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{1, 0}
	left := Vec2{0, 1}
	right := Vec2{0, -1}

	if got := Orient2D(a, b, left); got <= 0 {
		t.Fatalf("Orient2D(a,b,left) = %d, want positive", got)
	}
	if got := Orient2D(a, b, right); got >= 0 {
		t.Fatalf("Orient2D(a,b,right) = %d, want negative", got)
	}
}

func TestOrient2DCollinearIsExactZero(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{1, 1}
	c := Vec2{2, 2}
	if got := Orient2D(a, b, c); got != 0 {
		t.Fatalf("Orient2D of collinear points = %d, want 0", got)
	}
}

func TestOrient2DTinyPerturbationStillResolvesSign(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{1e8, 0}
	c := Vec2{5e7, 1e-12}
	if got := Orient2D(a, b, c); got <= 0 {
		t.Fatalf("Orient2D with a tiny but nonzero perturbation = %d, want positive (exact, not epsilon-rounded to 0)", got)
	}
}

func TestOrient3DSign(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{1, 0, 0}
	c := Vec3{0, 1, 0}
	above := Vec3{0, 0, 1}
	below := Vec3{0, 0, -1}

	if got := Orient3D(a, b, c, below); got <= 0 {
		t.Fatalf("Orient3D(a,b,c,below) = %d, want positive", got)
	}
	if got := Orient3D(a, b, c, above); got >= 0 {
		t.Fatalf("Orient3D(a,b,c,above) = %d, want negative", got)
	}
}

func TestOrient3DCoplanarIsExactZero(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{1, 0, 0}
	c := Vec3{0, 1, 0}
	d := Vec3{1, 1, 0}
	if got := Orient3D(a, b, c, d); got != 0 {
		t.Fatalf("Orient3D of coplanar points = %d, want 0", got)
	}
}

func TestInCirclePointInsideAndOutside(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{1, 0}
	c := Vec2{0, 1}
	inside := Vec2{0.25, 0.25}
	outside := Vec2{10, 10}

	if got := InCircle(a, b, c, inside); got <= 0 {
		t.Fatalf("InCircle(inside) = %d, want positive", got)
	}
	if got := InCircle(a, b, c, outside); got >= 0 {
		t.Fatalf("InCircle(outside) = %d, want negative", got)
	}
}

func TestInCircleCocircularIsExactZero(t *testing.T) {
	// Four points on the unit circle centered at the origin.
	a := Vec2{1, 0}
	b := Vec2{0, 1}
	c := Vec2{-1, 0}
	d := Vec2{0, -1}
	if got := InCircle(a, b, c, d); got != 0 {
		t.Fatalf("InCircle of cocircular points = %d, want 0", got)
	}
}
