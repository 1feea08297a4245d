// Package workspace owns the lifecycle of the three stores: it opens the
// configured storage backend, restores each store from it and closes the
// backend when the caller is done.
package workspace

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/asteroid-belt/gatewise/internal/config"
	"github.com/asteroid-belt/gatewise/internal/fetch"
	"github.com/asteroid-belt/gatewise/internal/progress"
	"github.com/asteroid-belt/gatewise/internal/pyq"
	"github.com/asteroid-belt/gatewise/internal/settings"
	"github.com/asteroid-belt/gatewise/internal/storage"
)

// ErrCacheDisabled is returned by Downloader when paper caching is turned off
// in the settings.
var ErrCacheDisabled = errors.New("paper cache is disabled in settings")

// Workspace is an open set of stores sharing one backend.
type Workspace struct {
	Config *config.Config
	Paths  config.Paths

	KV       storage.KV
	Progress *progress.Store
	Pyq      *pyq.Store
	Settings *settings.Store
}

type options struct {
	now    func() time.Time
	logger progress.Logger
}

// Option configures Open and New.
type Option func(*options)

// WithClock sets the clock used by the progress and PYQ stores.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger every store reports failures to.
func WithLogger(l progress.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open opens the backend selected by cfg.Storage.Backend and builds the stores.
func Open(cfg *config.Config, opts ...Option) (*Workspace, error) {
	kv, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	ws, err := New(cfg, kv, opts...)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return ws, nil
}

func openBackend(cfg *config.Config) (storage.KV, error) {
	paths := config.GetPaths(cfg)
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		dbCfg := storage.DefaultConfig(paths.Database)
		if cfg.Storage.BusyTimeout > 0 {
			dbCfg.BusyTimeout = cfg.Storage.BusyTimeout
		}
		db, err := storage.NewSQLite(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, nil
	case config.BackendFile:
		fkv, err := storage.NewFileKV(paths.Documents)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return fkv, nil
	case config.BackendMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// New builds the stores on an already open backend. The workspace takes
// ownership of kv.
func New(cfg *config.Config, kv storage.KV, opts ...Option) (*Workspace, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var progressOpts []progress.Option
	var pyqOpts []pyq.Option
	var settingsOpts []settings.Option
	if cfg.Study.SyllabusTopics > 0 {
		progressOpts = append(progressOpts, progress.WithSyllabusSize(cfg.Study.SyllabusTopics))
	}
	if o.now != nil {
		progressOpts = append(progressOpts, progress.WithClock(o.now))
		pyqOpts = append(pyqOpts, pyq.WithClock(o.now))
	}
	if o.logger != nil {
		progressOpts = append(progressOpts, progress.WithLogger(o.logger))
		pyqOpts = append(pyqOpts, pyq.WithLogger(o.logger))
		settingsOpts = append(settingsOpts, settings.WithLogger(o.logger))
	}

	progressStore, err := progress.Open(kv, progressOpts...)
	if err != nil {
		return nil, err
	}
	pyqStore, err := pyq.Open(kv, pyqOpts...)
	if err != nil {
		return nil, err
	}
	settingsStore, err := settings.Open(kv, settingsOpts...)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		Config:   cfg,
		Paths:    config.GetPaths(cfg),
		KV:       kv,
		Progress: progressStore,
		Pyq:      pyqStore,
		Settings: settingsStore,
	}, nil
}

// Downloader builds a paper downloader from the current settings.
func (w *Workspace) Downloader(onProgress func(id string, percent int)) (*fetch.Downloader, error) {
	snap := w.Settings.Snapshot()
	if !snap.PyqSettings.CacheEnabled {
		return nil, ErrCacheDisabled
	}
	return fetch.New(fetch.Config{
		CacheDir:          w.Paths.Papers,
		AllowedSources:    snap.PyqSettings.AllowedSources,
		RequestsPerSecond: w.Config.Download.RequestsPerSecond,
		HTTPClient:        &http.Client{Timeout: w.Config.Download.Timeout},
		OnProgress:        onProgress,
	})
}

// Close releases the backend. It is safe to call more than once.
func (w *Workspace) Close() error {
	return w.KV.Close()
}
