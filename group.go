package rangehunter

import "fmt"

// AffinePoint is a point on secp256k1 in affine (x, y) coordinates.
// Infinity is represented by the Infinity flag rather than a sentinel
// coordinate pair.
type AffinePoint struct {
	X, Y     FieldElement
	Infinity bool
}

const curveGx = "79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"
const curveGy = "483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"

var curveG = AffinePoint{
	X: feFromBytes(mustHex32(curveGx)),
	Y: feFromBytes(mustHex32(curveGy)),
}

// mustHex32 decodes a 64-character hex string into a 32-byte slice;
// panics on malformed input, since it is only ever called on the
// compile-time curve constants above.
func mustHex32(h string) []byte {
	if len(h) != 64 {
		panic("mustHex32: expected 64 hex characters")
	}
	out := make([]byte, 32)
	for i := 0; i < 32; i++ {
		hi := hexNibble(h[2*i])
		lo := hexNibble(h[2*i+1])
		out[i] = hi<<4 | lo
	}
	return out
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		panic("mustHex32: invalid hex character")
	}
}

// affineDouble doubles a point using the standard
// lambda = 3x^2 / (2y) formula, with the inverse computed through the
// field's Fermat-based feInv rather than a binary gcd.
func affineDouble(p AffinePoint) AffinePoint {
	if p.Infinity || feIsZero(p.Y) {
		return AffinePoint{Infinity: true}
	}
	xSq := feMul(p.X, p.X)
	three := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 3}})
	num := feMul(three, xSq)
	twoY := feDouble(p.Y)
	lambda := feMul(num, feInv(twoY))

	x3 := feSub(feMul(lambda, lambda), feDouble(p.X))
	y3 := feSub(feMul(lambda, feSub(p.X, x3)), p.Y)
	return AffinePoint{X: x3, Y: y3}
}

// affineAdd adds two distinct affine points using the standard
// lambda = (y2-y1)/(x2-x1) formula.
func affineAdd(p, q AffinePoint) AffinePoint {
	if p.Infinity {
		return q
	}
	if q.Infinity {
		return p
	}
	if feEqual(p.X, q.X) {
		if feEqual(p.Y, q.Y) {
			return affineDouble(p)
		}
		return AffinePoint{Infinity: true}
	}
	lambda := feMul(feSub(q.Y, p.Y), feInv(feSub(q.X, p.X)))
	x3 := feSub(feSub(feMul(lambda, lambda), p.X), q.X)
	y3 := feSub(feMul(lambda, feSub(p.X, x3)), p.Y)
	return AffinePoint{X: x3, Y: y3}
}

// gTimesScalar computes scalar*G via a complete 256-bit MSB-first
// double-and-add, with no iteration cap and no shortcut that returns G
// unconditionally.
func gTimesScalar(scalar U256) AffinePoint {
	return pointTimesScalar(curveG, scalar)
}

// pointTimesScalar computes scalar*p via MSB-first double-and-add.
func pointTimesScalar(p AffinePoint, scalar U256) AffinePoint {
	result := AffinePoint{Infinity: true}
	for limbIdx := 0; limbIdx < 4; limbIdx++ {
		limb := scalar.limbs[limbIdx]
		for bit := 63; bit >= 0; bit-- {
			result = affineDouble(result)
			if (limb>>uint(bit))&1 == 1 {
				result = affineAdd(result, p)
			}
		}
	}
	return result
}

// JacobianPoint is a point on secp256k1 in Jacobian projective
// coordinates: the affine point it represents is
// (X/Z^2, Y/Z^3). Z == 0 represents the point at infinity.
type JacobianPoint struct {
	X, Y, Z FieldElement
}

// jacobianToAffine converts a Jacobian point back to affine form by
// dividing out the Z^2/Z^3 factors through a single shared inverse of
// Z. jacobianToAffine({X, Y, 1}) is the identity (X, Y).
func jacobianToAffine(p JacobianPoint) AffinePoint {
	if feIsZero(p.Z) {
		return AffinePoint{Infinity: true}
	}
	zInv := feInv(p.Z)
	zInv2 := feMul(zInv, zInv)
	zInv3 := feMul(zInv2, zInv)
	return AffinePoint{
		X: feMul(p.X, zInv2),
		Y: feMul(p.Y, zInv3),
	}
}

// jacobianFromAffine lifts an affine point into Jacobian coordinates
// with Z = 1.
func jacobianFromAffine(p AffinePoint) JacobianPoint {
	if p.Infinity {
		return JacobianPoint{}
	}
	return JacobianPoint{X: p.X, Y: p.Y, Z: feOne}
}

// jacobianPlusAffine adds a Jacobian point to an affine one (Z2 = 1
// implicitly), the mixed-addition formula that avoids inverting Z on
// every step of a scalar multiply: only the final jacobianToAffine
// call pays for one inverse.
func jacobianPlusAffine(p JacobianPoint, q AffinePoint) JacobianPoint {
	if feIsZero(p.Z) {
		return jacobianFromAffine(q)
	}
	if q.Infinity {
		return p
	}

	z1z1 := feMul(p.Z, p.Z)
	u2 := feMul(q.X, z1z1)
	s2 := feMul(feMul(q.Y, p.Z), z1z1)

	h := feSub(u2, p.X)
	r := feDouble(feSub(s2, p.Y))

	if feIsZero(h) {
		if feIsZero(r) {
			return jacobianDouble(p)
		}
		return JacobianPoint{}
	}

	hh := feMul(h, h)
	i := feDouble(feDouble(hh))
	j := feMul(h, i)
	v := feMul(p.X, i)

	x3 := feSub(feSub(feMul(r, r), j), feDouble(v))
	y3 := feSub(feMul(r, feSub(v, x3)), feDouble(feMul(p.Y, j)))
	z3 := feSub(feSub(feMul(feAdd(p.Z, h), feAdd(p.Z, h)), z1z1), hh)

	return JacobianPoint{X: x3, Y: y3, Z: z3}
}

// jacobianDouble doubles a Jacobian point, used by jacobianPlusAffine
// when the two addends coincide.
func jacobianDouble(p JacobianPoint) JacobianPoint {
	if feIsZero(p.Z) || feIsZero(p.Y) {
		return JacobianPoint{}
	}
	a := feMul(p.X, p.X)
	b := feMul(p.Y, p.Y)
	c := feMul(b, b)
	d := feDouble(feSub(feMul(feAdd(p.X, b), feAdd(p.X, b)), feAdd(a, c)))
	e := feMul(newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 3}}), a)
	f := feMul(e, e)

	x3 := feSub(f, feDouble(d))
	y3 := feSub(feMul(e, feSub(d, x3)), feMul(newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 8}}), c))
	z3 := feDouble(feMul(p.Y, p.Z))

	return JacobianPoint{X: x3, Y: y3, Z: z3}
}

// compressPoint encodes an affine point in 33-byte SEC1 compressed
// form: a parity-prefix byte (0x02 for even Y, 0x03 for odd) followed
// by the 32-byte big-endian X coordinate.
func compressPoint(p AffinePoint) [33]byte {
	var out [33]byte
	var xb [32]byte
	p.X.toBytes(xb[:])
	if p.Y.v.limbs[3]&1 == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	copy(out[1:], xb[:])
	return out
}

// fieldSqrtExp is (p+1)/4, the Fermat exponent secp256k1's p = 3 mod 4
// shape lets a modular square root be computed with: since p mod 4 == 3,
// sqrt(a) = a^((p+1)/4) mod p whenever a is a quadratic residue.
var fieldSqrtExp = U256{limbs: [4]uint64{
	0x3FFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFFBFFFFF0C,
}}

var curveB7 = newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 7}})

// DecompressPoint reconstructs the affine point for a 33-byte SEC1
// compressed encoding, recovering Y from y^2 = x^3 + 7 via the
// p = 3 (mod 4) square-root shortcut and selecting the root whose
// parity matches the compression prefix.
func DecompressPoint(compressed [33]byte) (AffinePoint, error) {
	prefix := compressed[0]
	if prefix != 0x02 && prefix != 0x03 {
		return AffinePoint{}, fmt.Errorf("rangehunter: invalid compressed point prefix 0x%02x", prefix)
	}
	x := feFromBytes(compressed[1:])

	rhs := feAdd(feMul(feMul(x, x), x), curveB7)
	y := feExp(rhs, fieldSqrtExp)

	if feMul(y, y) != rhs {
		return AffinePoint{}, fmt.Errorf("rangehunter: compressed point is not on the curve")
	}

	wantOdd := prefix == 0x03
	isOdd := y.v.limbs[3]&1 == 1
	if wantOdd != isOdd {
		y = feSub(newFieldElement(U256{}), y)
	}
	return AffinePoint{X: x, Y: y}, nil
}
