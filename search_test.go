package rangehunter

import "testing"

func TestBatchAddressSearchSingleMatch(t *testing.T) {
	parent := XPub{Point: curveG, ChainCode: allOnesChainCode()}
	cache := NewCache([]CacheKey{{A: 0, B: 0}}, []XPub{parent})

	const startCounter = 5
	const maxDepth = 10
	const cacheBranchFactor = nonHardenedCount // c < M for every c in this test

	h, err := childAddress(parent, startCounter)
	if err != nil {
		t.Fatalf("childAddress: %v", err)
	}

	result := BatchAddressSearch(cache, cacheBranchFactor, []Range{{Low: h, High: h}}, startCounter, maxDepth, DefaultSearchConfig())

	if len(result.Matches) != 1 {
		t.Fatalf("expected exactly 1 match, got %d: %+v", len(result.Matches), result.Matches)
	}
	if result.Matches[0].Counter != startCounter {
		t.Fatalf("expected match at counter %d, got %d", startCounter, result.Matches[0].Counter)
	}
	if result.MatchOverflow {
		t.Fatalf("did not expect match overflow")
	}
	if result.CacheMissCount != 0 {
		t.Fatalf("expected no cache misses, got %d", result.CacheMissCount)
	}
}

func TestBatchAddressSearchCacheMiss(t *testing.T) {
	parent := XPub{Point: curveG, ChainCode: allOnesChainCode()}
	cache := NewCache([]CacheKey{{A: 999, B: 0}}, []XPub{parent})

	result := BatchAddressSearch(cache, nonHardenedCount, []Range{{}}, 0, 5, DefaultSearchConfig())

	if result.CacheMissCount != 5 {
		t.Fatalf("expected every counter to miss the cache, got %d misses", result.CacheMissCount)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("expected no matches on a total cache miss")
	}
}

func TestCacheLookupDistinguishesBFromA(t *testing.T) {
	lowB := XPub{Point: curveG, ChainCode: allOnesChainCode()}
	highB := XPub{Point: gTimesScalar(U256{limbs: [4]uint64{0, 0, 0, 2}}), ChainCode: allOnesChainCode()}
	cache := NewCache(
		[]CacheKey{{A: 7, B: 0}, {A: 7, B: 1}},
		[]XPub{lowB, highB},
	)

	got, ok := cache.lookup(CacheKey{A: 7, B: 0})
	if !ok || got.Point.X.v != lowB.Point.X.v {
		t.Fatalf("lookup(A=7,B=0) did not resolve to the B=0 entry")
	}

	got, ok = cache.lookup(CacheKey{A: 7, B: 1})
	if !ok || got.Point.X.v != highB.Point.X.v {
		t.Fatalf("lookup(A=7,B=1) did not resolve to the B=1 entry")
	}

	if _, ok := cache.lookup(CacheKey{A: 7, B: 2}); ok {
		t.Fatalf("lookup(A=7,B=2) should miss: no such ancestor is cached")
	}
}

func TestDecomposeCounterBoundary(t *testing.T) {
	a, b, index := decomposeCounter(1<<31, 1)
	if b != 1 || a != 0 || index != 0 {
		t.Fatalf("decomposeCounter(2^31, M=1) = (a=%d, b=%d, index=%d), want (0, 1, 0)", a, b, index)
	}
}

func TestRangeContains(t *testing.T) {
	low := [20]byte{0x10}
	high := [20]byte{0x20}
	r := Range{Low: low, High: high}

	if !r.contains([20]byte{0x15}) {
		t.Fatalf("0x15... should be inside [0x10..., 0x20...]")
	}
	if r.contains([20]byte{0x05}) {
		t.Fatalf("0x05... should be outside the range")
	}
	if !r.contains(low) || !r.contains(high) {
		t.Fatalf("range bounds must be inclusive")
	}
}

func BenchmarkBatchAddressSearch(b *testing.B) {
	parent := XPub{Point: curveG, ChainCode: allOnesChainCode()}
	cache := NewCache([]CacheKey{{A: 0, B: 0}}, []XPub{parent})
	ranges := []Range{{}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BatchAddressSearch(cache, nonHardenedCount, ranges, 0, 1000, DefaultSearchConfig())
	}
}
