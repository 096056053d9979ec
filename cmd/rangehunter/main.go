// Command rangehunter is a thin host harness around the rangehunter
// library: it loads a JSON cache-and-range descriptor, runs a batch
// address search over a counter window, and prints whatever matches.
//
// Usage:
//
//	rangehunter -input ranges.json -start 0 -depth 1000000 -workers 8
//
// Descriptor parsing, key-tree construction above the cached prefix,
// and persisting results remain out of scope for this harness; it
// exists only to exercise the library end to end.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"rangehunter.dev"
	"rangehunter.dev/internal/rlog"
)

// Config holds the harness's resolved CLI flags.
type Config struct {
	InputPath string
	Start     uint64
	Depth     uint64
	Workers   int
	CacheStep uint64
}

// DefaultConfig returns a Config with the workers left at zero
// (library default: GOMAXPROCS) and a conservative single-level
// cache step.
func DefaultConfig() Config {
	return Config{
		Start:     0,
		Depth:     1,
		Workers:   0,
		CacheStep: 1 << 31,
	}
}

// Validate reports whether cfg describes a runnable search.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("rangehunter: -input is required")
	}
	if c.Depth == 0 {
		return fmt.Errorf("rangehunter: -depth must be > 0")
	}
	if c.CacheStep == 0 {
		return fmt.Errorf("rangehunter: -cachestep must be > 0")
	}
	return nil
}

// descriptorEntry is one cache ancestor in the JSON input file: a
// compressed public key and chain code, keyed by the (b, a) ancestor
// coordinates decomposeCounter produces.
type descriptorEntry struct {
	B           uint32 `json:"b"`
	A           uint32 `json:"a"`
	CompressedX string `json:"compressed_x"`
	ParityOdd   bool   `json:"parity_odd"`
	ChainCode   string `json:"chain_code"`
}

type rangeEntry struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

type descriptorFile struct {
	Cache  []descriptorEntry `json:"cache"`
	Ranges []rangeEntry      `json:"ranges"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := rlog.Default().Module("cmd")

	cfg := DefaultConfig()
	fs := flag.NewFlagSet("rangehunter", flag.ContinueOnError)
	fs.StringVar(&cfg.InputPath, "input", cfg.InputPath, "path to a JSON cache/range descriptor")
	fs.Uint64Var(&cfg.Start, "start", cfg.Start, "first counter to search")
	fs.Uint64Var(&cfg.Depth, "depth", cfg.Depth, "number of counters to search")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "goroutine worker count (0 = default)")
	fs.Uint64Var(&cfg.CacheStep, "cachestep", cfg.CacheStep, "counters spanned per cached ancestor")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cache, ranges, err := loadDescriptor(cfg.InputPath)
	if err != nil {
		log.Error("failed to load descriptor", "error", err)
		return 1
	}

	log.Info("starting batch search",
		"start", cfg.Start, "depth", cfg.Depth, "workers", cfg.Workers)

	result := rangehunter.BatchAddressSearch(cache, cfg.CacheStep, ranges, cfg.Start, cfg.Depth,
		rangehunter.SearchConfig{Workers: cfg.Workers})

	log.Info("batch search finished",
		"matches", len(result.Matches),
		"overflow", result.MatchOverflow,
		"cache_misses", result.CacheMissCount)

	for _, m := range result.Matches {
		fmt.Printf("%d %x\n", m.Counter, m.Hash160)
	}

	return 0
}

// loadDescriptor parses a JSON cache/range file into the types the
// library's BatchAddressSearch expects. JSON is the one place this
// harness reaches for encoding/json: it is boundary/file-format
// parsing, not a domain data structure.
func loadDescriptor(path string) (*rangehunter.Cache, []rangehunter.Range, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var doc descriptorFile
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("rangehunter: decoding %s: %w", path, err)
	}

	keys := make([]rangehunter.CacheKey, 0, len(doc.Cache))
	values := make([]rangehunter.XPub, 0, len(doc.Cache))
	for _, e := range doc.Cache {
		xpub, err := decodeXPub(e)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, rangehunter.CacheKey{A: e.A, B: e.B})
		values = append(values, xpub)
	}

	ranges := make([]rangehunter.Range, 0, len(doc.Ranges))
	for _, r := range doc.Ranges {
		lo, err := decodeHash160(r.Low)
		if err != nil {
			return nil, nil, err
		}
		hi, err := decodeHash160(r.High)
		if err != nil {
			return nil, nil, err
		}
		ranges = append(ranges, rangehunter.Range{Low: lo, High: hi})
	}

	return rangehunter.NewCache(keys, values), ranges, nil
}

// decodeXPub reconstructs an XPub from a descriptor entry's hex
// fields, decompressing the point from its X coordinate and parity
// flag.
func decodeXPub(e descriptorEntry) (rangehunter.XPub, error) {
	xb, err := hex.DecodeString(e.CompressedX)
	if err != nil || len(xb) != 32 {
		return rangehunter.XPub{}, fmt.Errorf("rangehunter: cache entry (b=%d,a=%d): bad compressed_x: %v", e.B, e.A, err)
	}
	var compressed [33]byte
	if e.ParityOdd {
		compressed[0] = 0x03
	} else {
		compressed[0] = 0x02
	}
	copy(compressed[1:], xb)

	point, err := rangehunter.DecompressPoint(compressed)
	if err != nil {
		return rangehunter.XPub{}, fmt.Errorf("rangehunter: cache entry (b=%d,a=%d): %w", e.B, e.A, err)
	}

	ccBytes, err := hex.DecodeString(e.ChainCode)
	if err != nil || len(ccBytes) != 32 {
		return rangehunter.XPub{}, fmt.Errorf("rangehunter: cache entry (b=%d,a=%d): bad chain_code: %v", e.B, e.A, err)
	}
	var cc [32]byte
	copy(cc[:], ccBytes)

	return rangehunter.XPub{Point: point, ChainCode: cc}, nil
}

// decodeHash160 decodes a 40-character hex string into a 20-byte
// HASH160 value.
func decodeHash160(s string) ([20]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 20 {
		return [20]byte{}, fmt.Errorf("rangehunter: bad hash160 value %q", s)
	}
	var out [20]byte
	copy(out[:], b)
	return out, nil
}
