package rangehunter

import "testing"

func allOnesChainCode() [32]byte {
	var cc [32]byte
	for i := range cc {
		cc[i] = 0x01
	}
	return cc
}

func TestCKDpubDeterministic(t *testing.T) {
	parent := XPub{Point: curveG, ChainCode: allOnesChainCode()}

	child1, err := CKDpub(parent, 0)
	if err != nil {
		t.Fatalf("CKDpub: %v", err)
	}
	child2, err := CKDpub(parent, 0)
	if err != nil {
		t.Fatalf("CKDpub: %v", err)
	}

	var x1, x2 [32]byte
	child1.Point.X.toBytes(x1[:])
	child2.Point.X.toBytes(x2[:])
	if x1 != x2 || child1.ChainCode != child2.ChainCode {
		t.Fatalf("CKDpub must be deterministic for the same parent/index")
	}
}

func TestCKDpubDifferentIndicesDiffer(t *testing.T) {
	parent := XPub{Point: curveG, ChainCode: allOnesChainCode()}

	childA, err := CKDpub(parent, 0)
	if err != nil {
		t.Fatal(err)
	}
	childB, err := CKDpub(parent, 1)
	if err != nil {
		t.Fatal(err)
	}

	var xa, xb [32]byte
	childA.Point.X.toBytes(xa[:])
	childB.Point.X.toBytes(xb[:])
	if xa == xb {
		t.Fatalf("CKDpub(parent, 0) and CKDpub(parent, 1) must differ")
	}
}

func TestCKDpubRejectsHardenedIndex(t *testing.T) {
	parent := XPub{Point: curveG, ChainCode: allOnesChainCode()}
	if _, err := CKDpub(parent, 1<<31); err == nil {
		t.Fatalf("expected an error deriving a hardened (>=2^31) index")
	}
}

func BenchmarkCKDpub(b *testing.B) {
	parent := XPub{Point: curveG, ChainCode: allOnesChainCode()}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CKDpub(parent, uint32(i)); err != nil {
			b.Fatal(err)
		}
	}
}
