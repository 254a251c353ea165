package ratelimit

import (
	"context"
	"testing"

	"github.com/ZordnajelA/aura/internal/common"
)

func newTestRegistry() *Registry {
	return NewRegistry(map[string]Limits{
		"gemini": {RPMLimit: 10, RPDLimit: 4000},
		"claude": {RPMLimit: 50, RPDLimit: 10000},
	}, common.GetLogger())
}

func TestRegistry_GetReturnsSameInstance(t *testing.T) {
	registry := newTestRegistry()

	first, err := registry.Get("gemini")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := registry.Get("gemini")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if first != second {
		t.Error("expected the same limiter instance for repeated Get calls")
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	registry := newTestRegistry()

	if _, err := registry.Get("openai"); err == nil {
		t.Error("expected error for unconfigured provider")
	}
	if err := registry.Acquire(context.Background(), "openai"); err == nil {
		t.Error("expected Acquire error for unconfigured provider")
	}
}

func TestRegistry_UsageSnapshot(t *testing.T) {
	registry := newTestRegistry()

	if err := registry.Acquire(context.Background(), "gemini"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	usages := registry.UsageSnapshot()
	if len(usages) != 2 {
		t.Fatalf("expected 2 providers in snapshot, got %d", len(usages))
	}

	// Sorted by provider name: claude then gemini
	if usages[0].Provider != "claude" || usages[1].Provider != "gemini" {
		t.Errorf("unexpected snapshot order: %s, %s", usages[0].Provider, usages[1].Provider)
	}
	if usages[1].RPDUsed != 1 {
		t.Errorf("gemini RPDUsed = %d, want 1", usages[1].RPDUsed)
	}
}

func TestRegistry_CheckAvailability(t *testing.T) {
	registry := NewRegistry(map[string]Limits{
		"gemini": {RPMLimit: 1, RPDLimit: 1},
	}, common.GetLogger())

	available, err := registry.CheckAvailability("gemini")
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	if !available {
		t.Error("expected gemini available before any requests")
	}

	if err := registry.Acquire(context.Background(), "gemini"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	available, err = registry.CheckAvailability("gemini")
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	if available {
		t.Error("expected gemini unavailable after quota consumed")
	}
}
