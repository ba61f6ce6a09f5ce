package config

import "testing"

func TestValidateRejectsOverlapNotBelowChunkSize(t *testing.T) {
	cfg := Load()
	cfg.ChunkSize = 100
	cfg.ChunkOverlap = 100
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected overlap >= chunk size to be rejected")
	}
	cfg.ChunkOverlap = 99
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejectsBadTopKAndTemperature(t *testing.T) {
	cfg := Load()
	cfg.RetrievalTopK = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected non-positive top-k to be rejected")
	}
	cfg = Load()
	cfg.AnalysisTemp = 3.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected out-of-range temperature to be rejected")
	}
}
