// Package app assembles the transport, resource clients and stores into
// one context object that commands receive.
package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"taskboard/internal/backend/restapi"
	"taskboard/internal/config"
	"taskboard/internal/localstore"
	"taskboard/internal/logging"
	"taskboard/internal/metrics"
	"taskboard/internal/service"
	"taskboard/internal/stores"
)

// App holds everything a command needs. There is one App per process.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector

	// API is the full tracker API, used directly for lookups that have no
	// store (user search, single task).
	API service.Service

	Auth     *stores.AuthStore
	Projects *stores.ProjectsStore
	Tasks    *stores.TasksStore

	kv           localstore.Store
	closers      []func()
	sessionEnded atomic.Bool
}

// New builds an App talking to the API configured in cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Storage.Backend == config.BackendFile || cfg.Storage.Backend == "" {
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}
	}

	kv, err := localstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	collector := metrics.NewCollector()
	transport, err := restapi.New(ctx, restapi.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
		Store:   kv,
		Logger:  logger,
		Metrics: collector,
	})
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	a := Assemble(cfg, logger, restapi.NewBackend(transport), transport, kv)
	a.Metrics = collector
	a.closers = append(a.closers, transport.SessionEvents().Listen(func(ev restapi.SessionEnded) {
		a.HandleSessionEnded(ev.Path)
	}))
	return a, nil
}

// Assemble builds an App from existing parts. Tests pass fakes here.
func Assemble(cfg *config.Config, logger *zap.Logger, api service.Service, session stores.Session, kv localstore.Store) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := stores.Options{
		Logger:   logger,
		Messages: stores.CatalogFor(cfg.Locale),
	}
	return &App{
		Config:   cfg,
		Logger:   logging.Component(logger, "app"),
		API:      api,
		Auth:     stores.NewAuthStore(api, session, kv, opts),
		Projects: stores.NewProjectsStore(api, opts),
		Tasks:    stores.NewTasksStore(api, opts),
		kv:       kv,
	}
}

// HandleSessionEnded resets all stores after the server rejected the
// session token. path is the request that was rejected.
func (a *App) HandleSessionEnded(path string) {
	a.Logger.Info("session ended", zap.String("path", path))
	a.sessionEnded.Store(true)
	a.Auth.EndSession()
	a.Projects.Reset()
	a.Tasks.ClearTasks()
}

// SessionEnded reports whether the server ended the session during this
// process's lifetime.
func (a *App) SessionEnded() bool {
	return a.sessionEnded.Load()
}

// Logout ends the session locally and forgets all loaded data.
func (a *App) Logout(ctx context.Context) {
	a.Auth.Logout(ctx)
	a.Projects.Reset()
	a.Tasks.ClearTasks()
}

// Close releases the local store and event listeners.
func (a *App) Close() error {
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
	if a.kv == nil {
		return nil
	}
	return a.kv.Close()
}
