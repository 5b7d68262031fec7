package voices

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// testWAV builds a silent WAV clip for fixtures.
func testWAV(t *testing.T, rate, channels int, seconds float64) []byte {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "fixture-*.wav")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	defer f.Close()

	n := int(float64(rate)*seconds) * channels
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, n),
		SourceBitDepth: 16,
	}
	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(Config{Dir: t.TempDir()})
}

func TestScanBuiltins(t *testing.T) {
	s := newTestStore(t)
	all := s.Voices()
	if len(all) != 8 {
		t.Fatalf("expected 8 built-in voices in an empty dir, got %d", len(all))
	}
	for _, e := range all {
		if !e.Builtin {
			t.Fatalf("voice %q should be built-in", e.Name)
		}
		if e.Available {
			t.Fatalf("voice %q has no files and must not be available", e.Name)
		}
	}

	dave, err := s.Voice("dave")
	if err != nil {
		t.Fatalf("Voice(dave): %v", err)
	}
	if dave.Language != "en-us" || dave.Gender != "male" {
		t.Fatalf("unexpected dave entry: %+v", dave)
	}
}

func TestScanBuiltinAvailability(t *testing.T) {
	dir := t.TempDir()
	builtin := filepath.Join(dir, "builtin")
	if err := os.MkdirAll(builtin, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(builtin, "jo.wav"), testWAV(t, 24000, 1, 3), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := os.WriteFile(filepath.Join(builtin, "jo.txt"), []byte("hello there"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}

	s := NewStore(Config{Dir: dir})
	jo, err := s.Voice("jo")
	if err != nil {
		t.Fatalf("Voice(jo): %v", err)
	}
	if !jo.Available || !jo.Builtin {
		t.Fatalf("jo should be available and built-in: %+v", jo)
	}
}

func TestScanCustomVoice(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom")
	if err := os.MkdirAll(custom, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	os.WriteFile(filepath.Join(custom, "alice.wav"), testWAV(t, 24000, 1, 3), 0o644)
	os.WriteFile(filepath.Join(custom, "alice.txt"), []byte("transcript"), 0o644)
	os.WriteFile(filepath.Join(custom, "alice.json"), []byte(`{"language":"en-us","gender":"female"}`), 0o644)
	// Waveform without transcript stays unavailable.
	os.WriteFile(filepath.Join(custom, "bob.wav"), testWAV(t, 24000, 1, 3), 0o644)

	s := NewStore(Config{Dir: dir})

	alice, err := s.Voice("alice")
	if err != nil {
		t.Fatalf("Voice(alice): %v", err)
	}
	if alice.Builtin || !alice.Available {
		t.Fatalf("alice should be an available custom voice: %+v", alice)
	}
	if alice.Language != "en-us" || alice.Gender != "female" {
		t.Fatalf("metadata not loaded: %+v", alice)
	}

	bob, err := s.Voice("bob")
	if err != nil {
		t.Fatalf("Voice(bob): %v", err)
	}
	if bob.Available {
		t.Fatalf("bob has no transcript and must not be available")
	}
}

func TestVoiceUnknown(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Voice("nobody"); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestGetReferenceText(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Upload("carol", testWAV(t, 24000, 1, 3), "  the quick brown fox \n", "en-us", "female"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	text, err := s.GetReferenceText("carol")
	if err != nil {
		t.Fatalf("GetReferenceText: %v", err)
	}
	if text != "the quick brown fox" {
		t.Fatalf("unexpected transcript %q", text)
	}

	if _, err := s.GetReferenceText("nobody"); !IsNotFound(err) {
		t.Fatalf("expected not-found for unknown voice, got %v", err)
	}
	// Registered built-in without a transcript on disk.
	if _, err := s.GetReferenceText("dave"); !IsNotFound(err) {
		t.Fatalf("expected not-found for missing transcript, got %v", err)
	}
}

func TestUpload(t *testing.T) {
	s := newTestStore(t)
	path, err := s.Upload("carol", testWAV(t, 24000, 1, 3), "hi", "en-us", "female")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("waveform not written: %v", err)
	}
	if filepath.Dir(path) != s.customDir {
		t.Fatalf("upload landed in %q, want the custom dir", filepath.Dir(path))
	}

	// Registered immediately, no re-scan needed.
	carol, err := s.Voice("carol")
	if err != nil {
		t.Fatalf("Voice(carol): %v", err)
	}
	if !carol.Available {
		t.Fatalf("uploaded voice must be available")
	}

	if _, err := s.Upload("carol", nil, "", "", ""); !IsAlreadyExists(err) {
		t.Fatalf("expected already-exists, got %v", err)
	}
	if _, err := s.Upload("dave", nil, "", "", ""); !IsAlreadyExists(err) {
		t.Fatalf("built-in names are taken, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete("dave"); !IsInvalidOperation(err) {
		t.Fatalf("expected invalid-operation for built-in voice, got %v", err)
	}
	if err := s.Delete("nobody"); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}

	if _, err := s.Upload("carol", testWAV(t, 24000, 1, 3), "hi", "en-us", "female"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	// Simulate a cached reference for one codec.
	cached := codesFile(s.customDir, "carol", "neuphonic/neucodec")
	os.WriteFile(cached, []byte{1, 2, 3}, 0o644)

	if err := s.Delete("carol"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Voice("carol"); !IsNotFound(err) {
		t.Fatalf("deleted voice still registered")
	}
	for _, p := range []string{wavFile(s.customDir, "carol"), textFile(s.customDir, "carol"), cached} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("artifact %s not removed", p)
		}
	}
}

type countingEncoder struct {
	calls int
	codes []byte
}

func (c *countingEncoder) EncodeReference(ctx context.Context, modelID, wavPath string) ([]byte, error) {
	c.calls++
	return c.codes, nil
}

func TestGetOrEncodeReferenceCodes(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Upload("carol", testWAV(t, 24000, 1, 3), "hi", "en-us", "female"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	enc := &countingEncoder{codes: []byte{7, 7, 7}}

	codes, err := s.GetOrEncodeReferenceCodes(context.Background(), "carol", "neuphonic/neucodec", "neutts-nano", enc)
	if err != nil {
		t.Fatalf("GetOrEncodeReferenceCodes: %v", err)
	}
	if len(codes) != 3 {
		t.Fatalf("unexpected codes: %v", codes)
	}

	// Second call hits the persistent cache.
	if _, err := s.GetOrEncodeReferenceCodes(context.Background(), "carol", "neuphonic/neucodec", "neutts-nano", enc); err != nil {
		t.Fatalf("cached GetOrEncodeReferenceCodes: %v", err)
	}
	if enc.calls != 1 {
		t.Fatalf("reference encoded %d times, want 1", enc.calls)
	}

	// Cache survives a process restart (fresh store over the same root).
	s2 := NewStore(Config{Dir: s.root})
	if _, err := s2.GetOrEncodeReferenceCodes(context.Background(), "carol", "neuphonic/neucodec", "neutts-nano", enc); err != nil {
		t.Fatalf("restarted GetOrEncodeReferenceCodes: %v", err)
	}
	if enc.calls != 1 {
		t.Fatalf("persistent cache missed after restart")
	}

	if _, err := s.GetOrEncodeReferenceCodes(context.Background(), "dave", "neuphonic/neucodec", "neutts-nano", enc); !IsNotFound(err) {
		t.Fatalf("expected not-found for voice without waveform, got %v", err)
	}
}

func TestCodesPathSlashes(t *testing.T) {
	p := codesFile("voices", "jo", "neuphonic/neucodec-onnx-decoder")
	if filepath.Base(p) != "jo_neuphonic_neucodec-onnx-decoder.pt" {
		t.Fatalf("unexpected cache file name %q", filepath.Base(p))
	}
}

func TestEncodeBuiltinCachesInBuiltinDir(t *testing.T) {
	dir := t.TempDir()
	builtin := filepath.Join(dir, "builtin")
	if err := os.MkdirAll(builtin, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	os.WriteFile(filepath.Join(builtin, "jo.wav"), testWAV(t, 24000, 1, 3), 0o644)
	os.WriteFile(filepath.Join(builtin, "jo.txt"), []byte("hello"), 0o644)

	s := NewStore(Config{Dir: dir})
	enc := &countingEncoder{codes: []byte{9}}
	if _, err := s.GetOrEncodeReferenceCodes(context.Background(), "jo", "neuphonic/neucodec", "neutts-nano", enc); err != nil {
		t.Fatalf("GetOrEncodeReferenceCodes: %v", err)
	}
	if !exists(codesFile(builtin, "jo", "neuphonic/neucodec")) {
		t.Fatalf("built-in codes cache not written alongside built-in content")
	}
	if exists(codesFile(filepath.Join(dir, "custom"), "jo", "neuphonic/neucodec")) {
		t.Fatalf("built-in codes cache leaked into the custom dir")
	}
}
