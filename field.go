package rangehunter

// FieldElement is an element of GF(p), p = 2^256 - 2^32 - 977, stored as
// a U256 always kept in [0, p). The representation is plain 4x64
// MSB-first limbs, not a Montgomery form, because the batch search
// kernel's bit-serial multiply walks that exact layout and must produce
// bit-identical results across independent implementations.
type FieldElement struct {
	v U256
}

// fieldP is the secp256k1 field modulus, limbs[0] most significant.
var fieldP = U256{limbs: [4]uint64{
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFEFFFFFC2F,
}}

// fieldPMinus2 is p-2, the Fermat exponent used by feInv.
var fieldPMinus2 = U256{limbs: [4]uint64{
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
	0xFFFFFFFEFFFFFC2D,
}}

func newFieldElement(v U256) FieldElement {
	return FieldElement{v: v}
}

func feFromBytes(b []byte) FieldElement {
	return FieldElement{v: u256FromBytes(b)}
}

func (a FieldElement) toBytes(b []byte) {
	a.v.toBytes(b)
}

// fieldGreaterOrEqual reports whether a >= p, via an explicit
// most-significant-limb-first cascade over all four limbs (comparing
// only the lowest limb, or mixing `<`/`>` on a single limb, gives the
// wrong answer whenever an earlier limb differs).
func fieldGreaterOrEqual(a, p U256) bool {
	return cmpGE256(a, p)
}

// feReduceOnce subtracts p once if a >= p. Used after an addition or
// doubling that can overflow by at most one multiple of p. The
// subtraction is unconditional: p's limbs are ANDed with a mask that is
// all ones when a >= p and zero otherwise.
func feReduceOnce(a U256) U256 {
	mask := -boolToU64(fieldGreaterOrEqual(a, fieldP))
	var pm U256
	for i := range pm.limbs {
		pm.limbs[i] = fieldP.limbs[i] & mask
	}
	r, _ := sub256(a, pm)
	return r
}

// fieldTwo256ModP is 2^256 mod p = 2^32 + 977, the wraparound correction
// applied when a 256-bit add of two field elements overflows.
var fieldTwo256ModP = U256{limbs: [4]uint64{0, 0, 0, 0x100000000 + 977}}

// feAdd computes (a+b) mod p. a and b are both < p < 2^256, so a+b < 2p
// fits in 257 bits; a carry out of add256 means the true sum is
// sum+2^256, which is congruent to sum+(2^256 mod p) here.
func feAdd(a, b FieldElement) FieldElement {
	sum, carry := add256(a.v, b.v)
	if carry != 0 {
		sum, _ = add256(sum, fieldTwo256ModP)
	}
	return FieldElement{v: feReduceOnce(sum)}
}

// feDouble computes 2a mod p.
func feDouble(a FieldElement) FieldElement {
	return feAdd(a, a)
}

// feSub computes (a-b) mod p. When a < b, sub256 wraps to diff-2^256;
// since p = 2^256-fieldTwo256ModP, correcting back into [0,p) means
// subtracting fieldTwo256ModP (not adding p) from that wrapped value.
func feSub(a, b FieldElement) FieldElement {
	diff, borrow := sub256(a.v, b.v)
	if borrow != 0 {
		diff, _ = sub256(diff, fieldTwo256ModP)
	}
	return FieldElement{v: diff}
}

func feEqual(a, b FieldElement) bool {
	return a.v == b.v
}

func feIsZero(a FieldElement) bool {
	return a.v == U256{}
}

// feMul computes (a*b) mod p with a bit-serial Russian-peasant walk:
// walk b's limbs from index 3 up to 0 (least significant limb first)
// and within each limb walk bits 0 (LSB) up to 63 (MSB); whenever the
// current bit of b is set, add the running doubled copy of a into the
// accumulator, then double that running copy of a for the next bit.
// Doubling the accumulator itself would require walking b MSB-first
// (Horner's method) instead; pairing LSB-first traversal with
// doubling a is what keeps this correct.
func feMul(a, b FieldElement) FieldElement {
	var acc FieldElement // zero
	cur := a
	for limbIdx := 3; limbIdx >= 0; limbIdx-- {
		limb := b.v.limbs[limbIdx]
		for bit := 0; bit < 64; bit++ {
			if (limb>>uint(bit))&1 == 1 {
				acc = feAdd(acc, cur)
			}
			cur = feDouble(cur)
		}
	}
	return acc
}

// feOne is the field element 1.
var feOne = newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 1}})

// feExp computes a^e mod p via plain most-significant-bit-first
// square-and-multiply, walking e's limbs 0 (most significant) to 3 and
// bits 63 down to 0 within each limb.
func feExp(a FieldElement, e U256) FieldElement {
	result := feOne
	for limbIdx := 0; limbIdx < 4; limbIdx++ {
		limb := e.limbs[limbIdx]
		for bit := 63; bit >= 0; bit-- {
			result = feMul(result, result)
			if (limb>>uint(bit))&1 == 1 {
				result = feMul(result, a)
			}
		}
	}
	return result
}

// feInv computes the multiplicative inverse of a mod p via Fermat's
// little theorem: a^(p-2) mod p.
func feInv(a FieldElement) FieldElement {
	return feExp(a, fieldPMinus2)
}
