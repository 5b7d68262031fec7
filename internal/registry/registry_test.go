package registry

import (
	"strings"
	"testing"
)

func TestRegistryCounts(t *testing.T) {
	if got := len(Backbones()); got != 16 {
		t.Fatalf("backbone count = %d, want 16", got)
	}
	if got := len(Codecs()); got != 4 {
		t.Fatalf("codec count = %d, want 4", got)
	}
	if got := len(BuiltinVoices()); got != 8 {
		t.Fatalf("builtin voice count = %d, want 8", got)
	}
}

func TestQuantizedBackbonesStream(t *testing.T) {
	for _, b := range Backbones() {
		quantized := strings.Contains(b.ID, "-q4-") || strings.Contains(b.ID, "-q8-")
		if quantized && !b.SupportsStreaming {
			t.Errorf("%s: quantized backbone should support streaming", b.ID)
		}
		if !quantized && b.SupportsStreaming {
			t.Errorf("%s: non-quantized backbone should not support streaming", b.ID)
		}
		if quantized && b.Backend != BackendGGUF {
			t.Errorf("%s: quantized backbone should be gguf, got %s", b.ID, b.Backend)
		}
	}
}

func TestBackboneByID(t *testing.T) {
	b, ok := BackboneByID("neutts-nano-q4-gguf")
	if !ok {
		t.Fatalf("expected neutts-nano-q4-gguf in registry")
	}
	if !b.CPUOnly() {
		t.Fatalf("gguf backbone should be CPU-only")
	}
	if _, ok := BackboneByID("does-not-exist"); ok {
		t.Fatalf("unexpected hit for unknown id")
	}
}

func TestRegistryCopiesAreIsolated(t *testing.T) {
	a := Backbones()
	a[0].ID = "mutated"
	if Backbones()[0].ID == "mutated" {
		t.Fatalf("Backbones() must return a copy")
	}
}
