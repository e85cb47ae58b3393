// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/internal/bookmarks"
	"github.com/justyntemme/webby-pdf/internal/config"
	"github.com/justyntemme/webby-pdf/internal/document"
	"github.com/justyntemme/webby-pdf/internal/storage"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg  *config.Config
	Log  *zap.Logger
	KV   storage.KV
	Docs *document.Loader

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// OpenStorage opens the bookmark storage selected by configuration
func (e *LocalEnv) OpenStorage() error {
	kv, err := storage.Open(e.Cfg.StoragePath())
	if err != nil {
		return fmt.Errorf("unable to open storage: %w", err)
	}
	e.KV = kv
	e.Log.Debug("Storage opened", zap.String("location", e.Cfg.StoragePath()))
	return nil
}

// Bookmarks builds the bookmark store for doc honoring the configured scope.
// The store starts empty, callers Load it before use.
func (e *LocalEnv) Bookmarks(doc *models.Document) *bookmarks.Store {
	key := bookmarks.Key(bookmarks.Scope(e.Cfg.Bookmarks.Scope), doc.ID)
	return bookmarks.NewStore(e.KV, key, e.Log)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// Close releases storage and flushes logs
func (e *LocalEnv) Close() (err error) {
	if e.KV != nil {
		if er := e.KV.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close storage: %w", er))
		}
		e.KV = nil
	}
	if e.Log != nil {
		// syncing stdout/stderr fails on some terminals, not worth reporting
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
	return err
}
