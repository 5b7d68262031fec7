// Package engine abstracts the speech-synthesis runtimes behind a single
// interface. The serving layer treats an Engine as an opaque collaborator
// that turns (text, reference codes, reference text) into PCM waveforms.
package engine

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"neuttsd/internal/registry"
)

// ErrGGUFNotBuilt is returned when a GGUF load is requested from a binary
// compiled without the llama build tag. There is no mocked fallback.
var ErrGGUFNotBuilt = errors.New("gguf support not built (missing 'llama' build tag)")

// GGUFBuilt reports whether this binary carries the in-process GGUF runtime
// (compiled with the llama build tag).
func GGUFBuilt() bool { return ggufBuilt }

// Engine is one loaded inference runtime. Implementations are NOT safe for
// concurrent use; the lifecycle manager serializes calls per engine.
type Engine interface {
	// Infer synthesizes the full waveform for text.
	Infer(text string, refCodes []byte, refText string) ([]float32, error)
	// InferStream synthesizes incrementally, invoking emit for each waveform
	// chunk in generation order. Only streaming-capable backends implement
	// this; others return an error.
	InferStream(text string, refCodes []byte, refText string, emit func([]float32) error) error
	// EncodeReference encodes a reference waveform file into codec codes.
	EncodeReference(wavPath string) ([]byte, error)
	// Close releases the runtime's resources.
	Close() error
}

// Spec carries everything needed to construct an engine instance.
type Spec struct {
	Backbone       registry.Backbone
	CodecID        string
	BackboneDevice string
	CodecDevice    string
}

// Factory constructs an Engine from a Spec. The lifecycle manager takes a
// Factory so tests can substitute fakes.
type Factory func(Spec) (Engine, error)

// Config tunes the default factory.
type Config struct {
	// ModelsDir holds local GGUF backbone weights, one <repo-base>.gguf each.
	ModelsDir string
	// SidecarCommand runs torch/onnx inference and codec operations out of
	// process (shell-words parsed).
	SidecarCommand string
	// Threads and CtxSize are passed to the in-process GGUF runtime.
	Threads int
	CtxSize int
	// SampleRate of waveforms produced by the runtimes.
	SampleRate int
}

// DefaultFactory selects a runtime per backend family: GGUF backbones run
// in-process (behind the llama build tag), torch/onnx backbones run through
// the sidecar command.
func DefaultFactory(cfg Config) Factory {
	return func(spec Spec) (Engine, error) {
		switch spec.Backbone.Backend {
		case registry.BackendGGUF:
			return newGGUFEngine(cfg, spec)
		case registry.BackendTorch, registry.BackendONNX:
			return newExecEngine(cfg, spec)
		default:
			return nil, fmt.Errorf("unknown backend %q for model %s", spec.Backbone.Backend, spec.Backbone.ID)
		}
	}
}

// ggufWeightsPath resolves the local weights file for a GGUF backbone.
func ggufWeightsPath(modelsDir, repo string) string {
	return filepath.Join(modelsDir, path.Base(repo)+".gguf")
}
