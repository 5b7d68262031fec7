package engine

import (
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"neuttsd/internal/registry"
)

func torchSpec() Spec {
	b, _ := registry.BackboneByID("neutts-nano")
	return Spec{Backbone: b, CodecID: "neuphonic/neucodec", BackboneDevice: "cpu", CodecDevice: "cpu"}
}

func TestNewExecEngineRequiresCommand(t *testing.T) {
	if _, err := newExecEngine(Config{}, torchSpec()); err == nil {
		t.Fatalf("expected error for missing sidecar command")
	}
	if _, err := newExecEngine(Config{SidecarCommand: "   "}, torchSpec()); err == nil {
		t.Fatalf("expected error for blank sidecar command")
	}
}

func TestNewExecEngineMissingBinary(t *testing.T) {
	if _, err := newExecEngine(Config{SidecarCommand: "definitely-not-a-real-binary-xyz --flag"}, torchSpec()); err == nil {
		t.Fatalf("expected error for unresolvable binary")
	}
}

func TestDefaultFactoryUnknownBackend(t *testing.T) {
	f := DefaultFactory(Config{})
	_, err := f(Spec{Backbone: registry.Backbone{ID: "x", Backend: "weird"}})
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestGGUFWeightsPath(t *testing.T) {
	p := ggufWeightsPath("/models", "neuphonic/neutts-nano-q4-gguf")
	if p != "/models/neutts-nano-q4-gguf.gguf" {
		t.Fatalf("weights path = %q", p)
	}
}

func TestDecodeWAVRoundTrip(t *testing.T) {
	samples := []float32{0, 0.25, -0.25, 0.5, -0.5}
	var ws memSeeker
	enc := wav.NewEncoder(&ws, 24000, 16, 1, 1)
	ints := make([]int, len(samples))
	for i, s := range samples {
		ints[i] = int(s * 32767)
	}
	if err := enc.Write(&gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: 24000},
		Data:           ints,
		SourceBitDepth: 16,
	}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := decodeWAV(ws.buf)
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("sample count = %d, want %d", len(got), len(samples))
	}
	for i := range samples {
		if diff := got[i] - samples[i]; diff > 0.001 || diff < -0.001 {
			t.Fatalf("sample[%d] = %f, want ~%f", i, got[i], samples[i])
		}
	}
}

// memSeeker is a minimal in-memory io.WriteSeeker for building WAV fixtures.
type memSeeker struct {
	buf []byte
	pos int
}

func (m *memSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		grown := make([]byte, need)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		m.pos = int(offset)
	case 1:
		m.pos += int(offset)
	case 2:
		m.pos = len(m.buf) + int(offset)
	}
	return int64(m.pos), nil
}
