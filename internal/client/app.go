// Package client wires the taskkeeper core together: storage, services, the
// optional local HTTP API and import inbox, periodic backups and the
// interactive shell.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/cli"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/httpapi"
	"github.com/dmitrijs2005/taskkeeper/internal/client/inbox"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *storage.Store
	tasks   services.TaskService
	backups services.BackupService
	saver   *services.AutoSaver
}

// NewApp opens storage and builds the services. A degraded store (indexed
// backend requested but unavailable) is logged, not fatal.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(logOut, c.LogLevel)

	repos, err := storage.Open(ctx, storage.Options{DataDir: c.DataDir, Backend: c.StorageBackend()}, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	store := storage.NewStore(repos, logger)
	if store.Degraded() {
		logger.Warn(ctx, "running on the flat backend; search and categories are computed in memory")
	}

	ids := models.NewIDGenerator(time.Now)
	tasks := services.NewTaskService(ctx, store, logger, services.TaskOptions{Simple: c.Simple(), IDs: ids, Now: time.Now})
	backups := services.NewBackupService(store, ids, logger, time.Now)

	return &App{
		config:  c,
		logger:  logger,
		store:   store,
		tasks:   tasks,
		backups: backups,
		saver:   services.NewAutoSaver(tasks, c.AutoSaveDelay, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context) {
	s := httpapi.NewServer(app.config.ListenAddr, httpapi.NewRouter(app.tasks, app.backups, app.logger), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
	}
}

func (app *App) startInbox(ctx context.Context) {
	w := inbox.NewWatcher(app.config.InboxDir, app.backups, app.logger, inbox.DefaultSettle)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "inbox stopped", "error", err)
	}
}

// Run starts the background workers and the shell on in/out. It returns once
// the shell exits or a termination signal arrives, after pending note edits
// are written and storage is closed.
func (app *App) Run(ctx context.Context, in cli.LineInput, out io.Writer) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	app.logger.Info(ctx, "Starting app...", "backend", app.store.Backend(), "variant", app.config.Variant)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.backups.Run(ctx, app.config.BackupInterval)
	}()

	if app.config.ListenAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx)
		}()
	}

	if app.config.InboxDir != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startInbox(ctx)
		}()
	}

	shell := cli.NewApp(app.tasks, app.backups, app.saver, in, out, cli.Options{Simple: app.config.Simple()})
	done := make(chan struct{})
	go func() {
		defer close(done)
		shell.Run(ctx)
	}()

	// the shell may stay blocked on a read after a signal
	select {
	case <-done:
	case <-ctx.Done():
	}
	cancelFunc()
	wg.Wait()

	app.saver.Close()
	_ = in.Close()
	return app.store.Close()
}
