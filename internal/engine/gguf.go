//go:build llama

package engine

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// ggufBuilt indicates this binary was compiled with in-process GGUF support.
var ggufBuilt = true

// speechToken matches the discrete codec tokens emitted by the backbone.
var speechToken = regexp.MustCompile(`<\|speech_(\d+)\|>`)

// Number of codec tokens decoded per streamed waveform chunk.
const streamTokensPerChunk = 50

// ggufEngine runs a quantized backbone in-process via llama.cpp and decodes
// the generated codec tokens through the sidecar codec.
type ggufEngine struct {
	model   *llama.LLama
	codec   *execEngine
	threads int
}

func newGGUFEngine(cfg Config, spec Spec) (Engine, error) {
	weights := ggufWeightsPath(cfg.ModelsDir, spec.Backbone.Repo)
	if _, err := os.Stat(weights); err != nil {
		return nil, fmt.Errorf("gguf weights for %s: %w", spec.Backbone.ID, err)
	}
	ctxSize := cfg.CtxSize
	if ctxSize <= 0 {
		ctxSize = 4096
	}
	model, err := llama.New(weights, llama.SetContext(ctxSize))
	if err != nil {
		return nil, fmt.Errorf("load gguf backbone: %w", err)
	}
	codecEng, err := newExecEngine(cfg, spec)
	if err != nil {
		model.Free()
		return nil, err
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = 4
	}
	return &ggufEngine{model: model, codec: codecEng.(*execEngine), threads: threads}, nil
}

// buildPrompt frames the synthesis request the way the backbone was trained:
// reference text and codes first, then the target text.
func buildPrompt(text, refText string, refCodes []byte) string {
	var b strings.Builder
	b.WriteString("user: Convert the text to speech:")
	b.WriteString(refText)
	b.WriteString(" ")
	b.WriteString(text)
	b.WriteString("\nassistant:")
	b.WriteString(string(refCodes))
	return b.String()
}

func (e *ggufEngine) generate(text string, refCodes []byte, refText string, onTokens func([]string) error) error {
	var pending []string
	var cbErr error
	e.model.SetTokenCallback(func(tok string) bool {
		for _, m := range speechToken.FindAllString(tok, -1) {
			pending = append(pending, m)
		}
		if len(pending) >= streamTokensPerChunk {
			if err := onTokens(pending); err != nil {
				cbErr = err
				return false
			}
			pending = nil
		}
		return true
	})
	_, err := e.model.Predict(buildPrompt(text, refText, refCodes),
		llama.SetTokens(0),
		llama.SetThreads(e.threads),
		llama.SetTemperature(1.0),
		llama.SetTopK(50),
		llama.SetTopP(0.95),
	)
	if cbErr != nil {
		return cbErr
	}
	if err != nil {
		return fmt.Errorf("gguf predict: %w", err)
	}
	if len(pending) > 0 {
		return onTokens(pending)
	}
	return nil
}

// decodeTokens asks the sidecar codec to turn speech tokens into PCM.
func (e *ggufEngine) decodeTokens(tokens []string) ([]float32, error) {
	args := e.codec.baseArgs("decode")
	out, err := e.codec.run(args, []byte(strings.Join(tokens, "")))
	if err != nil {
		return nil, err
	}
	return decodeWAV(out)
}

func (e *ggufEngine) Infer(text string, refCodes []byte, refText string) ([]float32, error) {
	var all []string
	err := e.generate(text, refCodes, refText, func(tokens []string) error {
		all = append(all, tokens...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("backbone produced no speech tokens")
	}
	return e.decodeTokens(all)
}

func (e *ggufEngine) InferStream(text string, refCodes []byte, refText string, emit func([]float32) error) error {
	return e.generate(text, refCodes, refText, func(tokens []string) error {
		pcm, err := e.decodeTokens(tokens)
		if err != nil {
			return err
		}
		return emit(pcm)
	})
}

func (e *ggufEngine) EncodeReference(wavPath string) ([]byte, error) {
	return e.codec.EncodeReference(wavPath)
}

func (e *ggufEngine) Close() error {
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}
