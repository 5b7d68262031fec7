package manager

import (
	"sync"
	"time"

	"neuttsd/internal/engine"
	"neuttsd/internal/registry"
)

// TaskStatus is the lifecycle state of a LoadTask. Transitions are
// monotonic: pending -> downloading -> loading -> {ready | error}.
type TaskStatus string

const (
	TaskPending     TaskStatus = "pending"
	TaskDownloading TaskStatus = "downloading"
	TaskLoading     TaskStatus = "loading"
	TaskReady       TaskStatus = "ready"
	TaskError       TaskStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool { return s == TaskReady || s == TaskError }

// Active reports whether the status is non-terminal.
func (s TaskStatus) Active() bool { return !s.Terminal() }

// LoadTask tracks one asynchronous load operation. Pollers receive copies;
// the manager's copy is mutated only under the manager mutex.
type LoadTask struct {
	TaskID          string
	ModelID         string
	Status          TaskStatus
	ProgressMessage string
	ErrorMessage    string
	StartedAt       time.Time
	CompletedAt     time.Time
}

// Elapsed returns the task's running time, or total time once terminal.
func (t LoadTask) Elapsed() time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	end := t.CompletedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(t.StartedAt)
}

// Handle is one loaded, ready-to-use engine instance. The guard serializes
// every engine invocation for this model into a strict one-at-a-time
// sequence; it is also taken by unload so teardown waits for in-flight work.
type Handle struct {
	ModelID        string
	CodecID        string
	BackboneDevice string
	CodecDevice    string
	Backbone       registry.Backbone

	eng engine.Engine
	mu  sync.Mutex
}
