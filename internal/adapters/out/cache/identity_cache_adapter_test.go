package cache

import (
	"context"
	"testing"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/domain"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)               {}
func (nopLogger) Info(string, out.LogFields)                {}
func (nopLogger) Warn(string, out.LogFields)                {}
func (nopLogger) Error(string, out.LogFields)               {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

func cacheConfig(size int) *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.Size = size
	return cfg
}

func TestDisabledCacheReturnsNil(t *testing.T) {
	adapter, err := NewIdentityCacheAdapter(&config.Config{}, nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adapter != nil {
		t.Fatal("expected nil adapter when the cache is disabled")
	}
}

func TestStoreGetInvalidate(t *testing.T) {
	adapter, err := NewIdentityCacheAdapter(cacheConfig(10), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	view := domain.PatientView{ID: "P1", FirstName: "Afiavi", Phone: "+22960807271"}

	if _, exists := adapter.GetPatientView(ctx, "D1"); exists {
		t.Fatal("expected a miss on an empty cache")
	}

	adapter.StorePatientView(ctx, "D1", view)

	cached, exists := adapter.GetPatientView(ctx, "D1")
	if !exists {
		t.Fatal("expected a hit after store")
	}
	if *cached != view {
		t.Errorf("expected %+v, got %+v", view, *cached)
	}

	adapter.InvalidatePatientView(ctx, "D1")
	if _, exists := adapter.GetPatientView(ctx, "D1"); exists {
		t.Fatal("expected a miss after invalidation")
	}
}

func TestEvictionAtCapacity(t *testing.T) {
	adapter, err := NewIdentityCacheAdapter(cacheConfig(2), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	adapter.StorePatientView(ctx, "D1", domain.PatientView{ID: "P1"})
	adapter.StorePatientView(ctx, "D2", domain.PatientView{ID: "P2"})
	adapter.StorePatientView(ctx, "D3", domain.PatientView{ID: "P3"})

	// D1 est l'entrée la moins récemment utilisée, donc évincée
	if _, exists := adapter.GetPatientView(ctx, "D1"); exists {
		t.Error("expected the oldest entry to be evicted")
	}
	if _, exists := adapter.GetPatientView(ctx, "D3"); !exists {
		t.Error("expected the newest entry to be kept")
	}
}
