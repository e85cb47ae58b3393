package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/justyntemme/webby-pdf/internal/config"
	"github.com/justyntemme/webby-pdf/internal/storage"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContextPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	time.Sleep(5 * time.Millisecond)
	if env.Uptime() < 5*time.Millisecond {
		t.Errorf("Uptime() = %v", env.Uptime())
	}
}

func TestBookmarksScope(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Log = zaptest.NewLogger(t)
	env.Cfg = config.Default()
	env.Cfg.Storage.Path = storage.MemoryPath

	if err := env.OpenStorage(); err != nil {
		t.Fatalf("OpenStorage() error = %v", err)
	}
	defer env.Close()

	doc := &models.Document{ID: "0c6f6a8e-1a4b-5b7e-9a5e-1a2b3c4d5e6f"}
	if got := env.Bookmarks(doc).Key(); got != "pdf-bookmarks:"+doc.ID {
		t.Errorf("document scope key = %q", got)
	}

	if err := env.KV.Set("pdf-bookmarks:"+doc.ID, `[{"page":3,"label":"Page 3"}]`); err != nil {
		t.Fatal(err)
	}
	store := env.Bookmarks(doc)
	if store.Len() != 0 {
		t.Errorf("store has %d bookmarks before Load", store.Len())
	}
	store.Load()
	if !store.Has(3) {
		t.Error("Load() did not read the stored collection")
	}

	env.Cfg.Bookmarks.Scope = "global"
	if got := env.Bookmarks(doc).Key(); got != "pdf-bookmarks" {
		t.Errorf("global scope key = %q", got)
	}
}

func TestCloseTwice(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Log = zaptest.NewLogger(t)
	env.KV = storage.NewMemory()

	if err := env.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := env.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
