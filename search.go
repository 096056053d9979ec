package rangehunter

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// CacheKey identifies a cached ancestor in the key tree by both
// coordinates decomposeCounter produces: B (which non-hardened
// "generation" of ancestors the cache entry belongs to) and A (that
// ancestor's index within its generation). Two ancestors can share the
// same A with a different B, so both fields must match for a lookup
// to resolve to the right entry.
type CacheKey struct {
	B, A uint32
}

// Cache maps a small set of ancestor counters to their already-derived
// XPubs, the "warm start" the search kernel looks up before walking
// CKDpub forward from scratch. It is a small, fixed-size table with
// first-match-wins lookup semantics.
type Cache struct {
	keys   []CacheKey
	values []XPub
}

// NewCache builds a Cache from parallel key/value slices. Both slices
// must be the same non-zero length; a zero-length cache is an
// invariant violation the kernel has no recovery path for (§7.3),
// so it panics rather than returning an error.
func NewCache(keys []CacheKey, values []XPub) *Cache {
	if len(keys) == 0 || len(keys) != len(values) {
		panic("rangehunter: cache must be non-empty with matching key/value slices")
	}
	return &Cache{keys: keys, values: values}
}

// lookup returns the cached XPub whose key equals key (both the B and
// A coordinates), branchlessly scanning every entry and keeping the
// first match rather than exiting early: the first matching index is
// captured through a mask, so later matches cannot overwrite it.
// The cache-miss path returns (XPub{}, false) rather than a zeroed
// XPub a caller might mistake for a real key.
func (c *Cache) lookup(key CacheKey) (XPub, bool) {
	var found, foundIdx uint64
	for i, k := range c.keys {
		match := boolToU64(k.A == key.A) & boolToU64(k.B == key.B)
		take := -(match &^ found)
		foundIdx = (foundIdx &^ take) | (uint64(i) & take)
		found |= match
	}
	if found == 0 {
		return XPub{}, false
	}
	return c.values[foundIdx], true
}

// Range is an inclusive HASH160 range a match must fall within.
type Range struct {
	Low, High [20]byte
}

// contains reports whether h falls within [r.Low, r.High], comparing
// bytes most-significant-first the same way fieldGreaterOrEqual
// compares field limbs most-significant-first.
func (r Range) contains(h [20]byte) bool {
	return hash160Cmp(h, r.Low) >= 0 && hash160Cmp(h, r.High) <= 0
}

// hash160Cmp compares two 20-byte big-endian values, returning -1, 0,
// or 1. Every byte is visited: an equal-so-far flag lets only the
// first differing byte set the greater/less flags.
func hash160Cmp(a, b [20]byte) int {
	var gt, lt uint64
	eq := uint64(1)
	for i := 0; i < 20; i++ {
		gt |= eq & boolToU64(a[i] > b[i])
		lt |= eq & boolToU64(a[i] < b[i])
		eq &= boolToU64(a[i] == b[i])
	}
	return int(gt) - int(lt)
}

// Match records a single hit: the absolute counter that produced it
// and the matching HASH160.
type Match struct {
	Counter uint64
	Hash160 [20]byte
}

// SearchConfig controls BatchAddressSearch's fan-out, mirroring the
// pack's worker-pool Config/DefaultConfig shape
// (parallel_bls.go/batch_verifier.go) rather than a bare goroutine
// count passed as a loose argument.
type SearchConfig struct {
	// Workers is how many goroutines split the counter range. Zero
	// means GOMAXPROCS-sized default, chosen by the caller via
	// DefaultSearchConfig.
	Workers int
}

// DefaultSearchConfig returns a SearchConfig with Workers left at its
// zero value, letting BatchAddressSearch pick GOMAXPROCS workers.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{Workers: 0}
}

// SearchResult is the outcome of a batch search run: the matches found
// (bounded by MaxMatches), whether the match count overflowed that
// bound, and how many counters hit a cache miss along the way.
type SearchResult struct {
	Matches        []Match
	MatchOverflow  bool
	CacheMissCount uint32
}

// decomposeCounter splits an absolute counter c into the cache
// ancestor coordinates (a, b) and the child index to derive from that
// ancestor:
//
//	index = c mod M
//	t     = c div M
//	a     = t mod N
//	b     = t div N
//
// where N = nonHardenedCount (2^31) and M is the cache's branching
// factor (the number of children each cached ancestor fans out into
// before the next ancestor is needed).
func decomposeCounter(c uint64, cacheBranchFactor uint64) (a, b uint64, index uint32) {
	index = uint32(c % cacheBranchFactor)
	t := c / cacheBranchFactor
	a = t % nonHardenedCount
	b = t / nonHardenedCount
	return
}

// BatchAddressSearch enumerates counters [startCounter, startCounter+maxDepth)
// across a goroutine worker pool, derives each counter's HASH160 via the
// cached ancestor its (b, a) coordinates select, and records every hit that falls
// within any of the given ranges. Each goroutine walks a contiguous
// slice of the counter range independently, guarding the shared match
// slice and counters with atomics.
func BatchAddressSearch(cache *Cache, cacheBranchFactor uint64, ranges []Range, startCounter uint64, maxDepth uint64, cfg SearchConfig) SearchResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if uint64(workers) > maxDepth {
		workers = int(maxDepth)
	}
	if workers <= 0 {
		workers = 1
	}

	matches := make([]Match, MaxMatches)
	var matchCount atomic.Uint32
	var overflow atomic.Bool
	var cacheMiss atomic.Uint32

	var wg sync.WaitGroup
	chunk := maxDepth / uint64(workers)
	remainder := maxDepth % uint64(workers)

	var offset uint64
	for w := 0; w < workers; w++ {
		size := chunk
		if uint64(w) < remainder {
			size++
		}
		lo := startCounter + offset
		hi := lo + size
		offset += size

		wg.Add(1)
		go func(lo, hi uint64) {
			defer wg.Done()
			searchRange(cache, cacheBranchFactor, ranges, lo, hi, matches, &matchCount, &overflow, &cacheMiss)
		}(lo, hi)
	}
	wg.Wait()

	n := matchCount.Load()
	if n > MaxMatches {
		n = MaxMatches
	}
	return SearchResult{
		Matches:        append([]Match(nil), matches[:n]...),
		MatchOverflow:  overflow.Load(),
		CacheMissCount: cacheMiss.Load(),
	}
}

// searchRange walks the half-open counter interval [lo, hi), the unit
// of work one goroutine performs.
func searchRange(cache *Cache, cacheBranchFactor uint64, ranges []Range, lo, hi uint64, matches []Match, matchCount *atomic.Uint32, overflow *atomic.Bool, cacheMiss *atomic.Uint32) {
	for c := lo; c < hi; c++ {
		a, b, index := decomposeCounter(c, cacheBranchFactor)

		ancestor, ok := cache.lookup(CacheKey{A: uint32(a), B: uint32(b)})
		if !ok {
			cacheMiss.Add(1)
			continue
		}

		h, err := childAddress(ancestor, index)
		if err != nil {
			continue
		}

		for _, r := range ranges {
			if !r.contains(h) {
				continue
			}
			slot := matchCount.Add(1) - 1
			if slot >= MaxMatches {
				overflow.Store(true)
				break
			}
			matches[slot] = Match{Counter: c, Hash160: h}
			break
		}
	}
}
