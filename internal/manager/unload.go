package manager

// Unload removes a model's handle and releases its engine. The handle is
// removed from the active set first so new requests see the model as gone,
// then the guard is acquired so any in-flight inference finishes before the
// engine is torn down.
func (m *Manager) Unload(modelID string) error {
	m.mu.Lock()
	h, ok := m.handles[modelID]
	if !ok {
		m.mu.Unlock()
		return ErrNotLoaded(modelID)
	}
	delete(m.handles, modelID)
	m.mu.Unlock()

	m.publisher.Publish(Event{Name: "unload_start", ModelID: modelID})

	h.mu.Lock()
	err := h.eng.Close()
	h.mu.Unlock()
	if err != nil {
		m.log.Warn().Err(err).Str("model", modelID).Msg("engine close failed")
	}

	m.log.Info().Str("model", modelID).Msg("model unloaded")
	m.publisher.Publish(Event{Name: "unload_done", ModelID: modelID})
	return nil
}

// SwitchDevice moves a loaded model to different devices by unloading it and
// issuing a fresh asynchronous load, surfaced as a single task.
func (m *Manager) SwitchDevice(modelID, backboneDevice, codecDevice string) (LoadTask, error) {
	m.mu.RLock()
	h, ok := m.handles[modelID]
	m.mu.RUnlock()
	if !ok {
		return LoadTask{}, ErrNotLoaded(modelID)
	}

	if h.Backbone.CPUOnly() {
		return LoadTask{}, ErrInvalidOperation(
			"model " + modelID + " is quantized (llama.cpp) and only supports CPU; device switching is not available")
	}

	codecID := h.CodecID
	if backboneDevice == "" {
		backboneDevice = h.BackboneDevice
	}
	if codecDevice == "" {
		codecDevice = h.CodecDevice
	}

	m.log.Info().Str("model", modelID).
		Str("backbone_device", backboneDevice).Str("codec_device", codecDevice).
		Msg("switching device")

	if err := m.Unload(modelID); err != nil {
		return LoadTask{}, err
	}
	return m.RequestLoad(LoadRequest{
		ModelID:        modelID,
		CodecID:        codecID,
		BackboneDevice: backboneDevice,
		CodecDevice:    codecDevice,
	})
}
