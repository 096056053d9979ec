package rangehunter

import "testing"

func pMinusOne() FieldElement {
	v, _ := sub256(fieldP, U256{limbs: [4]uint64{0, 0, 0, 1}})
	return newFieldElement(v)
}

func pMinusTwo() FieldElement {
	return newFieldElement(fieldPMinus2)
}

func TestFeAddWraparound(t *testing.T) {
	one := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 1}})
	got := feAdd(pMinusOne(), one)
	if !feIsZero(got) {
		t.Fatalf("fe_add(p-1, 1) = %+v, want 0", got.v)
	}
}

func TestFeSubUnderflow(t *testing.T) {
	zero := newFieldElement(U256{})
	one := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 1}})
	got := feSub(zero, one)
	if got.v != pMinusOne().v {
		t.Fatalf("fe_sub(0, 1) = %+v, want p-1 = %+v", got.v, pMinusOne().v)
	}
}

func TestFeDoubleBoundary(t *testing.T) {
	got := feDouble(pMinusOne())
	if got.v != pMinusTwo().v {
		t.Fatalf("fe_double(p-1) = %+v, want p-2 = %+v", got.v, pMinusTwo().v)
	}
}

func TestFeInvOne(t *testing.T) {
	one := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 1}})
	got := feInv(one)
	if got.v != one.v {
		t.Fatalf("fe_inv(1) = %+v, want 1", got.v)
	}
}

func TestFeMulByZeroAndOne(t *testing.T) {
	one := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 1}})
	five := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 5}})
	if got := feMul(five, one); got.v != five.v {
		t.Fatalf("5*1 = %+v, want 5", got.v)
	}
	zero := newFieldElement(U256{})
	if got := feMul(five, zero); !feIsZero(got) {
		t.Fatalf("5*0 = %+v, want 0", got.v)
	}
}

func TestFeMulMatchesRepeatedAdd(t *testing.T) {
	seven := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 7}})
	three := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 3}})

	sum := newFieldElement(U256{})
	for i := 0; i < 7; i++ {
		sum = feAdd(sum, three)
	}
	got := feMul(seven, three)
	if got.v != sum.v {
		t.Fatalf("7*3 via feMul = %+v, want %+v (via repeated feAdd)", got.v, sum.v)
	}
}

func TestFieldGreaterOrEqual(t *testing.T) {
	if !fieldGreaterOrEqual(fieldP, fieldP) {
		t.Fatalf("p >= p must hold")
	}
	if fieldGreaterOrEqual(pMinusOne().v, fieldP) {
		t.Fatalf("p-1 >= p must not hold")
	}
}

func TestFeInvRoundTrip(t *testing.T) {
	a := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 12345}})
	inv := feInv(a)
	product := feMul(a, inv)
	one := newFieldElement(U256{limbs: [4]uint64{0, 0, 0, 1}})
	if product.v != one.v {
		t.Fatalf("a * feInv(a) = %+v, want 1", product.v)
	}
}
