package manager

import (
	"time"

	"github.com/google/uuid"

	"neuttsd/internal/engine"
	"neuttsd/internal/registry"
)

// LoadRequest selects what to load and where to place it. Empty fields fall
// back to the manager's configured defaults.
type LoadRequest struct {
	ModelID        string
	CodecID        string
	BackboneDevice string
	CodecDevice    string
}

// RequestLoad starts loading a model in the background and returns a task
// for polling. Idempotent: an already-loaded model yields an immediately
// ready task, and a model with an active task yields that task unchanged.
func (m *Manager) RequestLoad(req LoadRequest) (LoadTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.handles[req.ModelID]; ok {
		now := time.Now()
		task := &LoadTask{
			TaskID:          uuid.NewString(),
			ModelID:         req.ModelID,
			Status:          TaskReady,
			ProgressMessage: "Already loaded",
			StartedAt:       now,
			CompletedAt:     now,
		}
		m.tasks[task.TaskID] = task
		return *task, nil
	}

	for _, t := range m.tasks {
		if t.ModelID == req.ModelID && t.Status.Active() {
			return *t, nil
		}
	}

	if _, ok := registry.BackboneByID(req.ModelID); !ok {
		return LoadTask{}, ErrModelNotFound(req.ModelID)
	}
	if _, err := m.resolveCodec(req.CodecID); err != nil {
		return LoadTask{}, err
	}

	task := &LoadTask{
		TaskID:          uuid.NewString(),
		ModelID:         req.ModelID,
		Status:          TaskPending,
		ProgressMessage: "Queued",
		StartedAt:       time.Now(),
	}
	m.tasks[task.TaskID] = task

	go m.backgroundLoad(task.TaskID, req)
	return *task, nil
}

// backgroundLoad drives one load to a terminal task state. Failures are
// captured into the task, never propagated to unrelated callers.
func (m *Manager) backgroundLoad(taskID string, req LoadRequest) {
	m.setTask(taskID, TaskDownloading, "Downloading / checking cache...")
	m.publisher.Publish(Event{Name: "load_start", ModelID: req.ModelID, Fields: map[string]any{"task_id": taskID}})

	// Heuristic boundary between network fetch and in-memory init: after a
	// few seconds a still-downloading task is presumed to be loading.
	timer := time.AfterFunc(downloadHeuristic, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if t, ok := m.tasks[taskID]; ok && t.Status == TaskDownloading {
			t.Status = TaskLoading
			t.ProgressMessage = "Initializing model..."
		}
	})
	defer timer.Stop()

	h, err := m.construct(req)
	if err != nil {
		m.failTask(taskID, err)
		m.log.Error().Err(err).Str("model", req.ModelID).Str("task", taskID).Msg("model load failed")
		m.publisher.Publish(Event{Name: "load_error", ModelID: req.ModelID, Fields: map[string]any{"task_id": taskID, "error": err.Error()}})
		return
	}

	m.mu.Lock()
	m.handles[req.ModelID] = h
	if t, ok := m.tasks[taskID]; ok {
		t.Status = TaskReady
		t.ProgressMessage = "Model ready"
		t.CompletedAt = time.Now()
	}
	m.mu.Unlock()

	m.log.Info().Str("model", req.ModelID).Str("task", taskID).
		Str("backbone_device", h.BackboneDevice).Str("codec_device", h.CodecDevice).
		Msg("model loaded")
	m.publisher.Publish(Event{Name: "load_ready", ModelID: req.ModelID, Fields: map[string]any{"task_id": taskID}})
}

// LoadBlocking loads a model synchronously. Used at process startup; returns
// the existing handle if the model is already loaded.
func (m *Manager) LoadBlocking(req LoadRequest) (*Handle, error) {
	m.mu.RLock()
	if h, ok := m.handles[req.ModelID]; ok {
		m.mu.RUnlock()
		m.log.Info().Str("model", req.ModelID).Msg("model already loaded")
		return h, nil
	}
	m.mu.RUnlock()

	if _, ok := registry.BackboneByID(req.ModelID); !ok {
		return nil, ErrModelNotFound(req.ModelID)
	}

	h, err := m.construct(req)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if existing, ok := m.handles[req.ModelID]; ok {
		// Lost a race with a concurrent load; keep the winner.
		m.mu.Unlock()
		_ = h.eng.Close()
		return existing, nil
	}
	m.handles[req.ModelID] = h
	m.mu.Unlock()

	m.log.Info().Str("model", req.ModelID).
		Str("backbone_device", h.BackboneDevice).Str("codec_device", h.CodecDevice).
		Msg("model loaded")
	return h, nil
}

// resolveCodec applies the configured default and rejects codec ids absent
// from the registry.
func (m *Manager) resolveCodec(codecID string) (string, error) {
	if codecID == "" {
		codecID = m.defaultCodec
	}
	if _, ok := registry.CodecByID(codecID); !ok {
		return "", ErrModelNotFound(codecID)
	}
	return codecID, nil
}

// construct resolves effective codec/devices and builds the engine through
// the worker pool. The engine factory is the slow, blocking part.
func (m *Manager) construct(req LoadRequest) (*Handle, error) {
	backbone, ok := registry.BackboneByID(req.ModelID)
	if !ok {
		return nil, ErrModelNotFound(req.ModelID)
	}

	codecID, err := m.resolveCodec(req.CodecID)
	if err != nil {
		return nil, err
	}
	bbDevice := resolveDevice(req.BackboneDevice, m.backboneDevice)
	ccDevice := resolveDevice(req.CodecDevice, m.codecDevice)

	// Quantized backbones run on llama.cpp, which is CPU-only here; a
	// requested GPU placement is overridden, not an error, on load.
	if backbone.CPUOnly() {
		bbDevice = "cpu"
	}

	release := m.acquireWorker()
	eng, err := m.factory(engine.Spec{
		Backbone:       backbone,
		CodecID:        codecID,
		BackboneDevice: bbDevice,
		CodecDevice:    ccDevice,
	})
	release()
	if err != nil {
		return nil, err
	}

	return &Handle{
		ModelID:        req.ModelID,
		CodecID:        codecID,
		BackboneDevice: bbDevice,
		CodecDevice:    ccDevice,
		Backbone:       backbone,
		eng:            eng,
	}, nil
}

// setTask updates a task's status and message under the manager lock.
func (m *Manager) setTask(taskID string, status TaskStatus, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[taskID]; ok {
		t.Status = status
		t.ProgressMessage = msg
	}
}

func (m *Manager) failTask(taskID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[taskID]; ok {
		t.Status = TaskError
		t.ErrorMessage = err.Error()
		t.ProgressMessage = "Failed"
		t.CompletedAt = time.Now()
	}
}
