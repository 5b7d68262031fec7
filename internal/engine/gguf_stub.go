//go:build !llama

package engine

// This file provides a no-CGO stub for the GGUF runtime. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.

// ggufBuilt indicates this binary was compiled with in-process GGUF support.
var ggufBuilt = false

func newGGUFEngine(cfg Config, spec Spec) (Engine, error) {
	return nil, ErrGGUFNotBuilt
}
