// Package tts composes the lifecycle manager, voice store, chunker and
// audio writer into whole-request synthesis: resolve model and voice, fetch
// reference codes, chunk long input, run single-shot or streaming inference
// and encode the waveform into the requested container format.
package tts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"neuttsd/internal/audio"
	"neuttsd/internal/chunker"
	"neuttsd/internal/manager"
	"neuttsd/internal/voices"
)

// Input bounds for a single synthesis request.
const (
	maxInputChars = 10000
	minSpeed      = 0.25
	maxSpeed      = 4.0

	// Inputs longer than this are chunked into separate inference calls.
	chunkThreshold = 500
)

// Engine is the slice of the lifecycle manager the orchestrator needs.
type Engine interface {
	GetHandle(modelID string) (*manager.Handle, error)
	Infer(ctx context.Context, modelID, text string, refCodes []byte, refText string) ([]float32, error)
	InferStream(ctx context.Context, modelID, text string, refCodes []byte, refText string) (<-chan []float32, error)
	EncodeReference(ctx context.Context, modelID, wavPath string) ([]byte, error)
}

// VoiceStore is the slice of the voice store the orchestrator needs.
type VoiceStore interface {
	GetReferenceText(name string) (string, error)
	GetOrEncodeReferenceCodes(ctx context.Context, name, codecID, modelID string, enc voices.Encoder) ([]byte, error)
}

// Request is one synthesis request, already format-parsed by the caller.
type Request struct {
	Model  string
	Input  string
	Voice  string
	Format audio.Format
	Speed  float64
}

// Config configures an Orchestrator.
type Config struct {
	DefaultModel string
	DefaultVoice string
	SampleRate   int
	FFmpegPath   string
	// Logger is optional; nil disables orchestrator logging.
	Logger *zerolog.Logger
}

// Orchestrator drives synthesis requests end to end.
type Orchestrator struct {
	engine Engine
	store  VoiceStore
	cfg    Config
	log    zerolog.Logger
}

// New creates an Orchestrator.
func New(engine Engine, store VoiceStore, cfg Config) *Orchestrator {
	o := &Orchestrator{
		engine: engine,
		store:  store,
		cfg:    cfg,
		log:    zerolog.Nop(),
	}
	if cfg.Logger != nil {
		o.log = *cfg.Logger
	}
	return o
}

// resolved carries a validated request plus everything inference needs.
type resolved struct {
	model    string
	voice    string
	speed    float64
	refCodes []byte
	refText  string
	handle   *manager.Handle
}

func (o *Orchestrator) resolve(ctx context.Context, req Request) (resolved, error) {
	if len(req.Input) == 0 {
		return resolved{}, ErrInvalidRequest("input text is empty")
	}
	if len(req.Input) > maxInputChars {
		return resolved{}, ErrInvalidRequest(fmt.Sprintf("input text exceeds %d characters", maxInputChars))
	}
	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}
	if speed < minSpeed || speed > maxSpeed {
		return resolved{}, ErrInvalidRequest(fmt.Sprintf("speed %.2f outside [%.2f, %.2f]", speed, minSpeed, maxSpeed))
	}

	model := req.Model
	if model == "" {
		model = o.cfg.DefaultModel
	}
	voice := req.Voice
	if voice == "" {
		voice = o.cfg.DefaultVoice
	}

	h, err := o.engine.GetHandle(model)
	if err != nil {
		return resolved{}, err
	}
	refText, err := o.store.GetReferenceText(voice)
	if err != nil {
		return resolved{}, err
	}
	refCodes, err := o.store.GetOrEncodeReferenceCodes(ctx, voice, h.CodecID, model, o.engine)
	if err != nil {
		return resolved{}, err
	}

	return resolved{
		model:    model,
		voice:    voice,
		speed:    speed,
		refCodes: refCodes,
		refText:  refText,
		handle:   h,
	}, nil
}

// chunks splits input for per-chunk inference. Short inputs go through as a
// single call.
func (o *Orchestrator) chunks(input string) []string {
	if len(input) <= chunkThreshold {
		return []string{input}
	}
	return chunker.ChunkText(input, chunkThreshold)
}

// Generate synthesizes the full request and returns the encoded audio.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	r, err := o.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	var wav []float32
	for _, chunk := range o.chunks(req.Input) {
		part, err := o.engine.Infer(ctx, r.model, chunk, r.refCodes, r.refText)
		if err != nil {
			return nil, err
		}
		wav = append(wav, part...)
	}
	if r.speed != 1.0 {
		wav = audio.ApplySpeed(wav, r.speed)
	}

	o.log.Debug().Str("model", r.model).Str("voice", r.voice).Int("samples", len(wav)).Msg("synthesis complete")
	return audio.EncodeComplete(wav, req.Format, o.cfg.SampleRate, audio.Options{FFmpegPath: o.cfg.FFmpegPath})
}

// Stream synthesizes the request incrementally, calling emit for every
// non-empty encoded fragment. Models without native streaming support are
// driven chunk by chunk through single-shot inference.
func (o *Orchestrator) Stream(ctx context.Context, req Request, emit func([]byte) error) error {
	r, err := o.resolve(ctx, req)
	if err != nil {
		return err
	}

	w, err := audio.NewWriter(req.Format, o.cfg.SampleRate, audio.Options{FFmpegPath: o.cfg.FFmpegPath})
	if err != nil {
		return err
	}
	defer w.Close()

	write := func(samples []float32) error {
		if r.speed != 1.0 {
			samples = audio.ApplySpeed(samples, r.speed)
		}
		b, err := w.WriteChunk(samples)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return nil
		}
		return emit(b)
	}

	if r.handle.Backbone.SupportsStreaming {
		ch, err := o.engine.InferStream(ctx, r.model, req.Input, r.refCodes, r.refText)
		if err != nil {
			return err
		}
		for samples := range ch {
			if err := write(samples); err != nil {
				return err
			}
		}
	} else {
		for _, chunk := range o.chunks(req.Input) {
			samples, err := o.engine.Infer(ctx, r.model, chunk, r.refCodes, r.refText)
			if err != nil {
				return err
			}
			if err := write(samples); err != nil {
				return err
			}
		}
	}

	tail, err := w.Finalize()
	if err != nil {
		return err
	}
	if len(tail) > 0 {
		return emit(tail)
	}
	return nil
}
