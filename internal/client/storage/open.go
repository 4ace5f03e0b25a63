// Package storage selects the persistence backend for the session and wraps
// it in the boundary the rest of the client talks to.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/settings"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const (
	BackendIndexed = "indexed"
	BackendFlat    = "flat"
)

// Options control backend selection.
type Options struct {
	// DataDir holds the kv directory and the SQLite file.
	DataDir string
	// Backend is the preferred backend; empty means indexed.
	Backend string
	// DBPath overrides the SQLite file location.
	DBPath string
}

func (o Options) dbPath() string {
	if o.DBPath != "" {
		return o.DBPath
	}
	return filepath.Join(o.DataDir, "tasks.db")
}

// Repositories is the backend chosen for this process.
type Repositories struct {
	Tasks    tasks.Repository
	Settings settings.Repository
	// KV is always the file store; backups live there whatever the backend.
	KV kv.Store
	// Degraded is set when the preferred backend could not be used.
	Degraded bool
}

func (r *Repositories) Close() error {
	return r.Tasks.Close()
}

// Open picks the backend once. When the indexed backend cannot be opened or
// initialised it logs the failure and falls back to the flat backend for the
// rest of the process.
func Open(ctx context.Context, opts Options, log logging.Logger) (*Repositories, error) {
	store, err := kv.NewFileStore(filepath.Join(opts.DataDir, "kv"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNoBackend, err)
	}

	preferred := opts.Backend
	if preferred == "" {
		preferred = BackendIndexed
	}

	if preferred == BackendIndexed {
		repos, err := openIndexed(ctx, opts.dbPath(), store)
		if err == nil {
			log.Info(ctx, "storage backend selected", "backend", BackendIndexed, "path", opts.dbPath())
			return repos, nil
		}
		log.Warn(ctx, "indexed backend unavailable, falling back to flat", "path", opts.dbPath(), "error", err)
	}

	repos, err := openFlat(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNoBackend, err)
	}
	repos.Degraded = preferred != BackendFlat
	log.Info(ctx, "storage backend selected", "backend", BackendFlat, "dir", store.Dir())
	return repos, nil
}

func openIndexed(ctx context.Context, path string, store kv.Store) (*Repositories, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection keeps transactions
	// from tripping over each other.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA journal_mode = WAL`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	repo := tasks.NewSQLiteRepository(db)
	if err := repo.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repositories{
		Tasks:    repo,
		Settings: settings.NewSQLiteRepository(db),
		KV:       store,
	}, nil
}

func openFlat(ctx context.Context, store kv.Store) (*Repositories, error) {
	repo := tasks.NewFlatRepository(store)
	if err := repo.Init(ctx); err != nil {
		return nil, err
	}
	return &Repositories{
		Tasks:    repo,
		Settings: settings.NewKVRepository(store),
		KV:       store,
	}, nil
}
