package manager

import "time"

// GetTask returns a copy of the task with the given id. Copy-on-read keeps
// pollers safe from concurrent cleanup.
func (m *Manager) GetTask(taskID string) (LoadTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return LoadTask{}, ErrTaskNotFound(taskID)
	}
	return *t, nil
}

// Tasks returns a snapshot of all known load tasks.
func (m *Manager) Tasks() []LoadTask {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LoadTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t)
	}
	return out
}

// CleanupOldTasks removes terminal tasks whose completion is older than
// maxAge and returns the number removed. Safe to call opportunistically.
func (m *Manager) CleanupOldTasks(maxAge time.Duration) int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, t := range m.tasks {
		if t.Status.Terminal() && !t.CompletedAt.IsZero() && now.Sub(t.CompletedAt) > maxAge {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed
}

// TaskRetention is the configured retention window for terminal tasks.
func (m *Manager) TaskRetention() time.Duration { return m.taskRetention }
