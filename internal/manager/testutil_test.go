package manager

import (
	"errors"
	"sync"
	"testing"
	"time"

	"neuttsd/internal/engine"
)

// fakeEngine is a lightweight in-memory engine used for tests.
type fakeEngine struct {
	mu          sync.Mutex
	wav         []float32
	chunks      [][]float32
	streamErr   error
	inferErr    error
	inferGate   chan struct{} // when set, Infer blocks until closed
	encodeCodes []byte
	closed      bool
}

func (f *fakeEngine) Infer(text string, refCodes []byte, refText string) ([]float32, error) {
	if f.inferGate != nil {
		<-f.inferGate
	}
	if f.inferErr != nil {
		return nil, f.inferErr
	}
	return f.wav, nil
}

func (f *fakeEngine) InferStream(text string, refCodes []byte, refText string, emit func([]float32) error) error {
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return f.streamErr
}

func (f *fakeEngine) EncodeReference(wavPath string) ([]byte, error) {
	return f.encodeCodes, nil
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeEngine) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeFactory builds fakeEngines, optionally blocking on gate to let tests
// observe in-flight loads.
type fakeFactory struct {
	mu    sync.Mutex
	eng   *fakeEngine
	err   error
	gate  chan struct{}
	specs []engine.Spec
}

func (f *fakeFactory) factory(spec engine.Spec) (engine.Engine, error) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.eng != nil {
		return f.eng, nil
	}
	return &fakeEngine{}, nil
}

func (f *fakeFactory) lastSpec(t *testing.T) engine.Spec {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.specs) == 0 {
		t.Fatalf("factory was never invoked")
	}
	return f.specs[len(f.specs)-1]
}

func newTestManager(f *fakeFactory) *Manager {
	return New(Config{
		Factory:      f.factory,
		DefaultCodec: "neuphonic/neucodec-onnx-decoder",
		MaxWorkers:   2,
	})
}

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

// waitReady polls a task until it reaches a terminal state.
func waitReady(t *testing.T, m *Manager, taskID string) LoadTask {
	t.Helper()
	var task LoadTask
	waitFor(t, 2*time.Second, func() bool {
		var err error
		task, err = m.GetTask(taskID)
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		return task.Status.Terminal()
	})
	return task
}

var errBoom = errors.New("boom")
