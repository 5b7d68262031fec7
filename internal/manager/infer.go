package manager

import "context"

// Infer synthesizes a full waveform. The handle's guard is held for the
// duration so concurrent requests to the same model are serialized; a worker
// slot bounds blocking engine work across all models.
func (m *Manager) Infer(ctx context.Context, modelID, text string, refCodes []byte, refText string) ([]float32, error) {
	h, err := m.GetHandle(modelID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	release := m.acquireWorker()
	defer release()
	return h.eng.Infer(text, refCodes, refText)
}

// InferStream synthesizes incrementally and returns a channel of waveform
// chunks in generation order. The channel is closed when the stream ends,
// for any reason: mid-stream engine failures are logged and published as
// events, then the stream terminates through the same close.
//
// The handle's guard is held by the producer for the entire stream.
func (m *Manager) InferStream(ctx context.Context, modelID, text string, refCodes []byte, refText string) (<-chan []float32, error) {
	h, err := m.GetHandle(modelID)
	if err != nil {
		return nil, err
	}
	if !h.Backbone.SupportsStreaming {
		return nil, ErrUnsupported("model " + modelID + " does not support streaming inference")
	}

	out := make(chan []float32, m.streamBuffer)
	go func() {
		defer close(out)

		h.mu.Lock()
		defer h.mu.Unlock()
		release := m.acquireWorker()
		defer release()

		err := h.eng.InferStream(text, refCodes, refText, func(chunk []float32) error {
			select {
			case out <- chunk:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			m.log.Error().Err(err).Str("model", modelID).Msg("streaming inference failed")
			m.publisher.Publish(Event{Name: "stream_error", ModelID: modelID, Fields: map[string]any{"error": err.Error()}})
		}
	}()
	return out, nil
}

// EncodeReference encodes a reference waveform through the model's codec,
// guard-serialized like Infer.
func (m *Manager) EncodeReference(ctx context.Context, modelID, wavPath string) ([]byte, error) {
	h, err := m.GetHandle(modelID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	release := m.acquireWorker()
	defer release()
	return h.eng.EncodeReference(wavPath)
}
