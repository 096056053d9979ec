package main

import "testing"

func TestConfigValidateRequiresInput(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error when -input is unset")
	}
	cfg.InputPath = "ranges.json"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigValidateRejectsZeroDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputPath = "ranges.json"
	cfg.Depth = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error when -depth is 0")
	}
}

func TestDecodeHash160ValidAndInvalid(t *testing.T) {
	_, err := decodeHash160("751e76e8199196d454941c45d1b3a323f1433bd6")
	if err != nil {
		t.Fatalf("decodeHash160: %v", err)
	}
	if _, err := decodeHash160("not-hex"); err == nil {
		t.Fatalf("expected an error decoding invalid hex")
	}
}
