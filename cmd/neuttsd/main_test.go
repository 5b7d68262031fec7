package main

import (
	"testing"

	"neuttsd/internal/config"
)

func TestOverlay(t *testing.T) {
	base := config.Config{Addr: ":8880", VoicesDir: "voices", LogLevel: "info"}
	got := overlay(base, config.Config{Addr: ":9000", MaxWorkers: 2})
	if got.Addr != ":9000" {
		t.Fatalf("flag addr not applied: %q", got.Addr)
	}
	if got.VoicesDir != "voices" || got.LogLevel != "info" {
		t.Fatalf("unset flags must not clobber config: %+v", got)
	}
	if got.MaxWorkers != 2 {
		t.Fatalf("max workers not applied: %d", got.MaxWorkers)
	}
}

func TestFirstModel(t *testing.T) {
	if m := firstModel(config.Config{DefaultModels: "neutts-nano, neutts-air"}); m != "neutts-nano" {
		t.Fatalf("firstModel = %q", m)
	}
	if m := firstModel(config.Config{}); m != "" {
		t.Fatalf("empty list should yield empty model, got %q", m)
	}
}
