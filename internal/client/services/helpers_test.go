package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// clock hands out strictly increasing times.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func openStore(t *testing.T, backend string) *storage.Store {
	t.Helper()
	repos, err := storage.Open(context.Background(), storage.Options{DataDir: t.TempDir(), Backend: backend}, logging.Discard())
	require.NoError(t, err)
	s := storage.NewStore(repos, logging.Discard())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fixture struct {
	store   Store
	tasks   TaskService
	backups BackupService
	ids     *models.IDGenerator
	clock   *clock
}

func newFixture(t *testing.T, backend string, simple bool) *fixture {
	t.Helper()
	c := newClock()
	ids := models.NewIDGenerator(c.Now)
	store := openStore(t, backend)
	ctx := context.Background()
	return &fixture{
		store:   store,
		tasks:   NewTaskService(ctx, store, logging.Discard(), TaskOptions{Simple: simple, IDs: ids, Now: c.Now}),
		backups: NewBackupService(store, ids, logging.Discard(), c.Now),
		ids:     ids,
		clock:   c,
	}
}

var backends = []string{storage.BackendIndexed, storage.BackendFlat}

func forEachBackend(t *testing.T, fn func(t *testing.T, f *fixture)) {
	for _, b := range backends {
		t.Run(b, func(t *testing.T) {
			fn(t, newFixture(t, b, false))
		})
	}
}

func ptr[T any](v T) *T { return &v }

// brokenStore fails every operation the way storage.Store reports failures.
type brokenStore struct {
	tasks map[int64]models.Task
	puts  int
}

func (b *brokenStore) Put(context.Context, *models.Task) bool { b.puts++; return false }
func (b *brokenStore) Get(_ context.Context, id int64) (*models.Task, bool) {
	t, ok := b.tasks[id]
	if !ok {
		return nil, false
	}
	c := t.Clone()
	return &c, true
}
func (b *brokenStore) GetAll(context.Context) []models.Task     { return []models.Task{} }
func (b *brokenStore) Delete(context.Context, int64) bool       { return false }
func (b *brokenStore) Categories(context.Context) []string      { return []string{} }
func (b *brokenStore) Settings(context.Context) models.Settings { return models.DefaultSettings() }
func (b *brokenStore) SaveSettings(context.Context, models.Settings) bool {
	return false
}
func (b *brokenStore) ResetSettings(context.Context) bool             { return false }
func (b *brokenStore) SaveBackup(context.Context, models.Backup) bool { return false }
func (b *brokenStore) LatestBackup(context.Context) (*models.Backup, bool) {
	return nil, false
}
