package manager

// Startup loads each of the given default models sequentially. A failing
// model is logged and skipped so one bad default cannot block the others.
func (m *Manager) Startup(defaultModels []string) {
	for _, modelID := range defaultModels {
		if _, err := m.LoadBlocking(LoadRequest{ModelID: modelID}); err != nil {
			m.log.Error().Err(err).Str("model", modelID).Msg("failed to load default model")
		}
	}
}

// Shutdown unloads every loaded model, swallowing individual unload errors
// so one stuck model cannot block the rest from releasing.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.handles))
	for id := range m.handles {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		if err := m.Unload(id); err != nil {
			m.log.Warn().Err(err).Str("model", id).Msg("unload during shutdown failed")
		}
	}
}
