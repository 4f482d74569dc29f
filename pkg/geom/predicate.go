package geom

import "math/big"

// This file implements the exact orientation predicates the boolean engine
// and triangulator depend on (§4.1's "exact predicate" contract). Rather
// than Shewchuk's adaptive floating-point expansions (no pack or ecosystem
// Go package ships those), geode computes the determinant sign exactly
// using math/big.Rat: every input coordinate is finite float64, which
// converts to *big.Rat losslessly, so the arithmetic below is exact and the
// sign it returns is the true sign of the determinant, never an
// epsilon-perturbed approximation. This is slower than a floating filter but
// never wrong, which is the property boolean/triangulation code must have.

// Orient2D returns the sign of twice the signed area of triangle (a, b, c):
// positive if c is to the left of the directed line a->b, negative if to
// the right, zero if the three points are exactly collinear.
func Orient2D(a, b, c Vec2) int {
	ax, ay := big.NewRat(0, 1).SetFloat64(a.X), big.NewRat(0, 1).SetFloat64(a.Y)
	bx, by := big.NewRat(0, 1).SetFloat64(b.X), big.NewRat(0, 1).SetFloat64(b.Y)
	cx, cy := big.NewRat(0, 1).SetFloat64(c.X), big.NewRat(0, 1).SetFloat64(c.Y)

	// det [bx-ax  by-ay]
	//     [cx-ax  cy-ay]
	dx1 := new(big.Rat).Sub(bx, ax)
	dy1 := new(big.Rat).Sub(by, ay)
	dx2 := new(big.Rat).Sub(cx, ax)
	dy2 := new(big.Rat).Sub(cy, ay)

	left := new(big.Rat).Mul(dx1, dy2)
	right := new(big.Rat).Mul(dy1, dx2)
	det := new(big.Rat).Sub(left, right)
	return det.Sign()
}

// Orient3D returns the sign of the signed volume of tetrahedron (a, b, c, d):
// positive if d lies below the plane through a, b, c (the side from which
// a, b, c appear clockwise; seen from above they appear counterclockwise),
// negative if above, zero if the four points are exactly coplanar.
func Orient3D(a, b, c, d Vec3) int {
	toRat := func(v Vec3) [3]*big.Rat {
		return [3]*big.Rat{
			new(big.Rat).SetFloat64(v.X),
			new(big.Rat).SetFloat64(v.Y),
			new(big.Rat).SetFloat64(v.Z),
		}
	}
	ra, rb, rc, rd := toRat(a), toRat(b), toRat(c), toRat(d)

	sub := func(u, v [3]*big.Rat) [3]*big.Rat {
		return [3]*big.Rat{
			new(big.Rat).Sub(u[0], v[0]),
			new(big.Rat).Sub(u[1], v[1]),
			new(big.Rat).Sub(u[2], v[2]),
		}
	}
	m0 := sub(ra, rd)
	m1 := sub(rb, rd)
	m2 := sub(rc, rd)

	// det of the 3x3 matrix with rows m0, m1, m2.
	term := func(p, q, r, s *big.Rat) *big.Rat {
		return new(big.Rat).Sub(new(big.Rat).Mul(p, q), new(big.Rat).Mul(r, s))
	}
	minor0 := term(m1[1], m2[2], m1[2], m2[1])
	minor1 := term(m1[0], m2[2], m1[2], m2[0])
	minor2 := term(m1[0], m2[1], m1[1], m2[0])

	det := new(big.Rat)
	det.Add(det, new(big.Rat).Mul(m0[0], minor0))
	det.Sub(det, new(big.Rat).Mul(m0[1], minor1))
	det.Add(det, new(big.Rat).Mul(m0[2], minor2))
	return det.Sign()
}

// InCircle returns positive if d lies strictly inside the circle through
// a, b, c (which must be given in counterclockwise order), negative if
// strictly outside, and zero if the four points are exactly cocircular.
// Only this package's tests call it; pkg/kernel/xsect triangulates by
// ear-clipping with Orient2D.
func InCircle(a, b, c, d Vec2) int {
	toRat := func(v Vec2) (*big.Rat, *big.Rat) {
		return new(big.Rat).SetFloat64(v.X), new(big.Rat).SetFloat64(v.Y)
	}
	ax, ay := toRat(a)
	bx, by := toRat(b)
	cx, cy := toRat(c)
	dx, dy := toRat(d)

	sub := func(p, q *big.Rat) *big.Rat { return new(big.Rat).Sub(p, q) }
	adx, ady := sub(ax, dx), sub(ay, dy)
	bdx, bdy := sub(bx, dx), sub(by, dy)
	cdx, cdy := sub(cx, dx), sub(cy, dy)

	sq := func(p *big.Rat) *big.Rat { return new(big.Rat).Mul(p, p) }
	adSq := new(big.Rat).Add(sq(adx), sq(ady))
	bdSq := new(big.Rat).Add(sq(bdx), sq(bdy))
	cdSq := new(big.Rat).Add(sq(cdx), sq(cdy))

	mul := func(p, q *big.Rat) *big.Rat { return new(big.Rat).Mul(p, q) }
	det2 := func(a1, a2, b1, b2 *big.Rat) *big.Rat {
		return new(big.Rat).Sub(mul(a1, b2), mul(a2, b1))
	}

	// 3x3 determinant via cofactor expansion along the first row:
	// | adx ady adSq |
	// | bdx bdy bdSq |
	// | cdx cdy cdSq |
	m0 := det2(bdy, bdSq, cdy, cdSq)
	m1 := det2(bdx, bdSq, cdx, cdSq)
	m2 := det2(bdx, bdy, cdx, cdy)

	det := new(big.Rat)
	det.Add(det, mul(adx, m0))
	det.Sub(det, mul(ady, m1))
	det.Add(det, mul(adSq, m2))
	return det.Sign()
}
