package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"neuttsd/internal/engine"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxWorkers    = 4
	defaultStreamBuffer  = 8
	defaultTaskRetention = time.Hour
	// downloadHeuristic is how long a load may sit in "downloading" before
	// it is presumed to be initializing in memory instead.
	downloadHeuristic = 3 * time.Second
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	Factory        engine.Factory
	DefaultCodec   string
	BackboneDevice string // "auto", "cpu" or "cuda"
	CodecDevice    string
	MaxWorkers     int
	StreamBuffer   int
	TaskRetention  time.Duration
	Publisher      EventPublisher
	// Logger is optional; nil disables manager logging.
	Logger *zerolog.Logger
}

// Manager owns the loaded engine handles and the load-task registry.
type Manager struct {
	mu      sync.RWMutex
	handles map[string]*Handle
	tasks   map[string]*LoadTask

	factory        engine.Factory
	defaultCodec   string
	backboneDevice string
	codecDevice    string
	streamBuffer   int
	taskRetention  time.Duration

	// workers bounds concurrent blocking engine work across all models.
	workers chan struct{}

	publisher EventPublisher
	log       zerolog.Logger
	startTime time.Time
}

// New constructs a Manager from Config, applying package defaults.
func New(cfg Config) *Manager {
	m := &Manager{
		handles:        make(map[string]*Handle),
		tasks:          make(map[string]*LoadTask),
		factory:        cfg.Factory,
		defaultCodec:   cfg.DefaultCodec,
		backboneDevice: cfg.BackboneDevice,
		codecDevice:    cfg.CodecDevice,
		streamBuffer:   cfg.StreamBuffer,
		taskRetention:  cfg.TaskRetention,
		publisher:      cfg.Publisher,
		log:            zerolog.Nop(),
		startTime:      time.Now(),
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	}
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = defaultMaxWorkers
	}
	m.workers = make(chan struct{}, workers)
	if m.streamBuffer <= 0 {
		m.streamBuffer = defaultStreamBuffer
	}
	if m.taskRetention <= 0 {
		m.taskRetention = defaultTaskRetention
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if m.backboneDevice == "" {
		m.backboneDevice = "auto"
	}
	if m.codecDevice == "" {
		m.codecDevice = "cpu"
	}
	return m
}

// IsLoaded reports whether a live handle exists for modelID.
func (m *Manager) IsLoaded(modelID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.handles[modelID]
	return ok
}

// Loaded returns a snapshot of all live handles.
func (m *Manager) Loaded() []*Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Handle, 0, len(m.handles))
	for _, h := range m.handles {
		out = append(out, h)
	}
	return out
}

// GetHandle returns the live handle for modelID.
func (m *Manager) GetHandle(modelID string) (*Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[modelID]
	if !ok {
		return nil, ErrNotLoaded(modelID)
	}
	return h, nil
}

// acquireWorker reserves a slot in the bounded worker pool.
func (m *Manager) acquireWorker() func() {
	m.workers <- struct{}{}
	return func() { <-m.workers }
}

// resolveDevice maps the configured "auto" device to a concrete one. CUDA
// probing is delegated to the engine runtimes; auto defaults to cpu here.
func resolveDevice(requested, fallback string) string {
	d := requested
	if d == "" {
		d = fallback
	}
	if d == "auto" || d == "" {
		return "cpu"
	}
	return d
}
