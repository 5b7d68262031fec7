package manager

import (
	"testing"
)

func TestUnload(t *testing.T) {
	eng := &fakeEngine{}
	m := newTestManager(&fakeFactory{eng: eng})
	if _, err := m.LoadBlocking(LoadRequest{ModelID: "neutts-nano"}); err != nil {
		t.Fatalf("LoadBlocking: %v", err)
	}

	if err := m.Unload("neutts-nano"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if m.IsLoaded("neutts-nano") {
		t.Fatalf("model still reported loaded after unload")
	}
	if !eng.isClosed() {
		t.Fatalf("engine must be closed on unload")
	}
}

func TestUnloadNotLoaded(t *testing.T) {
	m := newTestManager(&fakeFactory{})
	if err := m.Unload("neutts-nano"); !IsNotLoaded(err) {
		t.Fatalf("expected not-loaded, got %v", err)
	}
}

func TestSwitchDeviceQuantized(t *testing.T) {
	m := newTestManager(&fakeFactory{})
	if _, err := m.LoadBlocking(LoadRequest{ModelID: "neutts-nano-q4-gguf"}); err != nil {
		t.Fatalf("LoadBlocking: %v", err)
	}

	_, err := m.SwitchDevice("neutts-nano-q4-gguf", "cuda", "")
	if !IsInvalidOperation(err) {
		t.Fatalf("expected invalid-operation for quantized model, got %v", err)
	}
	if !m.IsLoaded("neutts-nano-q4-gguf") {
		t.Fatalf("rejected switch must leave the model loaded")
	}
}

func TestSwitchDeviceNotLoaded(t *testing.T) {
	m := newTestManager(&fakeFactory{})
	if _, err := m.SwitchDevice("neutts-nano", "cuda", ""); !IsNotLoaded(err) {
		t.Fatalf("expected not-loaded, got %v", err)
	}
}

func TestSwitchDevice(t *testing.T) {
	f := &fakeFactory{}
	m := newTestManager(f)
	if _, err := m.LoadBlocking(LoadRequest{ModelID: "neutts-nano"}); err != nil {
		t.Fatalf("LoadBlocking: %v", err)
	}

	task, err := m.SwitchDevice("neutts-nano", "cuda", "cuda")
	if err != nil {
		t.Fatalf("SwitchDevice: %v", err)
	}
	done := waitReady(t, m, task.TaskID)
	if done.Status != TaskReady {
		t.Fatalf("expected ready after switch, got %s (%s)", done.Status, done.ErrorMessage)
	}

	spec := f.lastSpec(t)
	if spec.BackboneDevice != "cuda" || spec.CodecDevice != "cuda" {
		t.Fatalf("reload did not carry the requested devices: %+v", spec)
	}
}
