// Package app provides the dependency injection container for the
// application.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryoseto/quadra/internal/domain"
	"github.com/ryoseto/quadra/internal/engine"
	"github.com/ryoseto/quadra/internal/history"
	"github.com/ryoseto/quadra/internal/infra/auditlog"
	"github.com/ryoseto/quadra/internal/infra/config"
	"github.com/ryoseto/quadra/internal/infra/gitstore"
	"github.com/ryoseto/quadra/internal/infra/jsonstore"
	"github.com/ryoseto/quadra/internal/infra/logging"
	"github.com/ryoseto/quadra/internal/recur"
)

// Container provides dependency injection for the application. It holds
// the wired engine, history, scheduler, and port implementations.
type Container struct {
	Store       *engine.Store
	History     *history.Engine
	Scheduler   *recur.Scheduler
	Syncer      *engine.Syncer
	Persistence domain.Persistence
	Audit       domain.AuditLog
	Clock       domain.Clock
	Logger      *logging.Logger
	Config      *domain.Config
	DataDir     string
}

// New creates a fully wired Container: configuration is loaded, the
// persistence sink is chosen, the last snapshot is restored, and the
// history engine and persistence syncer are subscribed to the store.
func New() (*Container, error) {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires a Container from an explicit configuration. Useful
// for tests.
func NewWithConfig(cfg *domain.Config) (*Container, error) {
	dataDir := cfg.Store.DataDir
	if dataDir == "" {
		dataDir = defaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	logger := logging.New(dataDir, logging.ParseLevel(cfg.Log.Level))

	audit, err := auditlog.Open(filepath.Join(dataDir, "audit.yaml"))
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	var sink domain.Persistence
	if cfg.Store.Type == "git" {
		gitDir := cfg.Store.GitDir
		if gitDir == "" {
			gitDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("resolve git directory: %w", err)
			}
		}
		sink, err = gitstore.New(gitDir, "quadra")
		if err != nil {
			return nil, err
		}
	} else {
		sink = jsonstore.New(filepath.Join(dataDir, "tasks.json"))
	}

	clock := domain.RealClock{}
	store := engine.New(clock, audit, logger)

	snap, err := sink.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	store.Load(snap)

	hist := history.New(store, audit, clock, cfg.History.Capacity, cfg.History.RecordDebounce, logger)
	syncer := engine.NewSyncer(store, sink, cfg.History.SaveDebounce, logger)
	scheduler := recur.NewScheduler(store, clock, logger)

	return &Container{
		Store:       store,
		History:     hist,
		Scheduler:   scheduler,
		Syncer:      syncer,
		Persistence: sink,
		Audit:       audit,
		Clock:       clock,
		Logger:      logger,
		Config:      cfg,
		DataDir:     dataDir,
	}, nil
}

// Close flushes pending writes and releases resources.
func (c *Container) Close() {
	c.Syncer.Flush()
	c.History.Close()
	_ = c.Logger.Close()
}

// defaultDataDir returns $XDG_DATA_HOME/quadra, falling back to
// ~/.local/share/quadra.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "quadra-data"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quadra")
}
