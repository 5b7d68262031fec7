// Package voices maintains the reference voice store: built-in voices from
// the registry plus custom uploads on disk, with a persistent cache of
// encoded reference codes per (voice, codec) pair.
//
// Layout under the voices root:
//
//	builtin/{voice}.wav          shipped reference waveform
//	builtin/{voice}.txt          shipped reference transcript
//	builtin/{voice}_{codec}.pt   cached reference codes (writable cache even
//	                             though the content is read-only)
//	custom/{voice}.wav           uploaded reference waveform
//	custom/{voice}.txt           uploaded reference transcript
//	custom/{voice}.json          upload metadata
//	custom/{voice}_{codec}.pt    cached reference codes
//
// Codec slashes are replaced by underscores in cache file names.
package voices

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"neuttsd/internal/registry"
)

// Entry is one voice known to the store.
type Entry struct {
	Name        string
	Language    string
	Gender      string
	Description string
	Builtin     bool
	Available   bool
	WAVPath     string
	TextPath    string
}

// Encoder turns a reference waveform into engine codes. The lifecycle
// manager satisfies this.
type Encoder interface {
	EncodeReference(ctx context.Context, modelID, wavPath string) ([]byte, error)
}

// Config configures a Store.
type Config struct {
	// Dir is the voices root; builtin/ and custom/ live beneath it. The
	// custom directory is created on first write if absent.
	Dir string
	// Logger is optional; nil disables store logging.
	Logger *zerolog.Logger
}

// Store is the voice reference cache. Safe for concurrent use.
type Store struct {
	root       string
	builtinDir string
	customDir  string
	log        zerolog.Logger

	mu      sync.RWMutex
	entries map[string]Entry

	// encodeMu serializes cache misses so a reference is encoded at most
	// once per (voice, codec) even under concurrent first requests.
	encodeMu sync.Mutex
}

// NewStore creates a Store and performs an initial scan.
func NewStore(cfg Config) *Store {
	s := &Store{
		root:       cfg.Dir,
		builtinDir: filepath.Join(cfg.Dir, "builtin"),
		customDir:  filepath.Join(cfg.Dir, "custom"),
		log:        zerolog.Nop(),
		entries:    make(map[string]Entry),
	}
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	}
	s.Scan()
	return s
}

// metadata is the sidecar record written for custom voices.
type metadata struct {
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

func wavFile(dir, name string) string  { return filepath.Join(dir, name+".wav") }
func textFile(dir, name string) string { return filepath.Join(dir, name+".txt") }
func metaFile(dir, name string) string { return filepath.Join(dir, name+".json") }

func codesFile(dir, name, codecID string) string {
	return filepath.Join(dir, name+"_"+strings.ReplaceAll(codecID, "/", "_")+".pt")
}

// dirFor returns the directory that owns a voice's files.
func (s *Store) dirFor(builtin bool) string {
	if builtin {
		return s.builtinDir
	}
	return s.customDir
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Scan rebuilds the in-memory index from the built-in registry and the
// custom directory. A voice is available only when both its waveform and
// transcript are on disk. Full rebuild, safe to call repeatedly.
func (s *Store) Scan() {
	entries := make(map[string]Entry)

	for _, v := range registry.BuiltinVoices() {
		wavPath := wavFile(s.builtinDir, v.Name)
		textPath := textFile(s.builtinDir, v.Name)
		entries[v.Name] = Entry{
			Name:        v.Name,
			Language:    v.Language,
			Gender:      v.Gender,
			Description: v.Description,
			Builtin:     true,
			Available:   exists(wavPath) && exists(textPath),
			WAVPath:     wavPath,
			TextPath:    textPath,
		}
	}

	matches, err := filepath.Glob(filepath.Join(s.customDir, "*.wav"))
	if err == nil {
		for _, wavPath := range matches {
			name := strings.TrimSuffix(filepath.Base(wavPath), ".wav")
			if _, builtin := registry.BuiltinVoice(name); builtin {
				continue
			}
			textPath := textFile(s.customDir, name)
			e := Entry{
				Name:      name,
				WAVPath:   wavPath,
				TextPath:  textPath,
				Available: exists(textPath),
			}
			if raw, err := os.ReadFile(metaFile(s.customDir, name)); err == nil {
				var meta metadata
				if json.Unmarshal(raw, &meta) == nil {
					e.Language = meta.Language
					e.Gender = meta.Gender
				}
			}
			entries[name] = e
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	s.log.Debug().Int("voices", len(entries)).Msg("voice index rebuilt")
}

// Voices returns all known voices sorted by name.
func (s *Store) Voices() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Voice looks up a single voice.
func (s *Store) Voice(name string) (Entry, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, ErrNotFound(name)
	}
	return e, nil
}

// GetReferenceText returns the reference transcript for a voice.
func (s *Store) GetReferenceText(name string) (string, error) {
	e, err := s.Voice(name)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(e.TextPath)
	if err != nil {
		return "", ErrNotFound(name)
	}
	return strings.TrimSpace(string(raw)), nil
}

// GetOrEncodeReferenceCodes returns the encoded reference codes for
// (voice, codec), encoding and persisting them on first use. Codes are
// cached next to the voice's own files, builtin or custom.
func (s *Store) GetOrEncodeReferenceCodes(ctx context.Context, name, codecID, modelID string, enc Encoder) ([]byte, error) {
	e, err := s.Voice(name)
	if err != nil {
		return nil, err
	}
	path := codesFile(s.dirFor(e.Builtin), name, codecID)
	if raw, err := os.ReadFile(path); err == nil {
		return raw, nil
	}

	s.encodeMu.Lock()
	defer s.encodeMu.Unlock()

	// Re-check under the lock; a concurrent miss may have filled the cache.
	if raw, err := os.ReadFile(path); err == nil {
		return raw, nil
	}

	if !exists(e.WAVPath) {
		return nil, ErrNotFound(name)
	}

	s.log.Info().Str("voice", name).Str("codec", codecID).Msg("encoding reference audio")
	codes, err := enc.EncodeReference(ctx, modelID, e.WAVPath)
	if err != nil {
		return nil, fmt.Errorf("encode reference for voice %q: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(path, codes, 0o644); err != nil {
		return nil, fmt.Errorf("persist reference codes: %w", err)
	}
	return codes, nil
}

// Upload writes a custom voice's waveform and transcript and registers it
// immediately. The caller validates the audio beforehand.
func (s *Store) Upload(name string, wavData []byte, refText, language, gender string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return "", ErrAlreadyExists(name)
	}
	if err := os.MkdirAll(s.customDir, 0o755); err != nil {
		return "", fmt.Errorf("create custom voices dir: %w", err)
	}

	wavPath := wavFile(s.customDir, name)
	if err := os.WriteFile(wavPath, wavData, 0o644); err != nil {
		return "", fmt.Errorf("write voice waveform: %w", err)
	}
	textPath := textFile(s.customDir, name)
	if err := os.WriteFile(textPath, []byte(refText), 0o644); err != nil {
		os.Remove(wavPath)
		return "", fmt.Errorf("write voice transcript: %w", err)
	}
	if raw, err := json.Marshal(metadata{Language: language, Gender: gender}); err == nil {
		os.WriteFile(metaFile(s.customDir, name), raw, 0o644)
	}

	s.entries[name] = Entry{
		Name:      name,
		Language:  language,
		Gender:    gender,
		Available: true,
		WAVPath:   wavPath,
		TextPath:  textPath,
	}
	s.log.Info().Str("voice", name).Msg("voice uploaded")
	return wavPath, nil
}

// Delete removes a custom voice and all its cached artifacts. Built-in
// voices cannot be deleted; only the custom directory is ever written.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return ErrNotFound(name)
	}
	if e.Builtin {
		return ErrInvalidOperation("cannot delete built-in voice: " + name)
	}

	os.Remove(e.WAVPath)
	os.Remove(e.TextPath)
	os.Remove(metaFile(s.customDir, name))
	if cached, err := filepath.Glob(filepath.Join(s.customDir, name+"_*.pt")); err == nil {
		for _, p := range cached {
			os.Remove(p)
		}
	}
	delete(s.entries, name)
	s.log.Info().Str("voice", name).Msg("voice deleted")
	return nil
}
