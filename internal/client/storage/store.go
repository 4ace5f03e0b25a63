package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// BackupKey is the kv key holding the latest periodic backup.
const BackupKey = "backup"

// Store is the failure boundary around the selected repositories. Backend
// errors are logged and never returned; writes report success as a bool.
type Store struct {
	repos *Repositories
	log   logging.Logger
}

func NewStore(repos *Repositories, log logging.Logger) *Store {
	return &Store{
		repos: repos,
		log:   log.With("backend", repos.Tasks.Name()),
	}
}

// Backend names the active task backend.
func (s *Store) Backend() string {
	return s.repos.Tasks.Name()
}

// Degraded reports whether the session fell back from the preferred backend.
func (s *Store) Degraded() bool {
	return s.repos.Degraded
}

func (s *Store) Close() error {
	return s.repos.Close()
}

// Put stores task and reports whether the backend acknowledged the write.
func (s *Store) Put(ctx context.Context, task *models.Task) bool {
	if err := s.repos.Tasks.Put(ctx, task); err != nil {
		s.log.Error(ctx, "put failed", "id", task.ID, "error", err)
		return false
	}
	return true
}

// Get returns the task, or false when it is missing or unreadable.
func (s *Store) Get(ctx context.Context, id int64) (*models.Task, bool) {
	t, err := s.repos.Tasks.Get(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.Error(ctx, "get failed", "id", id, "error", err)
		return nil, false
	}
	return t, true
}

// GetAll returns the full task set, or an empty slice if it cannot be read.
func (s *Store) GetAll(ctx context.Context) []models.Task {
	list, err := s.repos.Tasks.GetAll(ctx)
	if err != nil {
		s.log.Error(ctx, "get all failed", "error", err)
		return []models.Task{}
	}
	return list
}

func (s *Store) Delete(ctx context.Context, id int64) bool {
	if err := s.repos.Tasks.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "delete failed", "id", id, "error", err)
		return false
	}
	return true
}

func (s *Store) Categories(ctx context.Context) []string {
	names, err := s.repos.Tasks.Categories(ctx)
	if err != nil {
		s.log.Error(ctx, "categories failed", "error", err)
		return []string{}
	}
	return names
}

// Settings returns stored preferences laid over the defaults.
func (s *Store) Settings(ctx context.Context) models.Settings {
	out := models.DefaultSettings()

	stored, err := s.repos.Settings.List(ctx)
	if err != nil {
		s.log.Error(ctx, "settings read failed", "error", err)
		return out
	}
	if len(stored) == 0 {
		return out
	}

	fields := make(map[string]json.RawMessage, len(stored))
	for k, v := range stored {
		fields[k] = v
	}
	raw, err := json.Marshal(fields)
	if err == nil {
		err = json.Unmarshal(raw, &out)
	}
	if err != nil {
		s.log.Warn(ctx, "stored settings ignored", "error", err)
		return models.DefaultSettings()
	}
	return out
}

// SaveSettings writes every settings field under its JSON name.
func (s *Store) SaveSettings(ctx context.Context, v models.Settings) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	for k, field := range fields {
		if err := s.repos.Settings.Set(ctx, k, field); err != nil {
			s.log.Error(ctx, "settings write failed", "key", k, "error", err)
			return false
		}
	}
	return true
}

// ResetSettings drops stored preferences so the defaults apply again.
func (s *Store) ResetSettings(ctx context.Context) bool {
	if err := s.repos.Settings.Clear(ctx); err != nil {
		s.log.Error(ctx, "settings reset failed", "error", err)
		return false
	}
	return true
}

func (s *Store) SaveBackup(ctx context.Context, b models.Backup) bool {
	raw, err := json.Marshal(b)
	if err != nil {
		s.log.Error(ctx, "backup encode failed", "error", err)
		return false
	}
	if err := s.repos.KV.Set(ctx, BackupKey, raw); err != nil {
		s.log.Error(ctx, "backup write failed", "error", err)
		return false
	}
	return true
}

// LatestBackup returns the last stored backup, if any.
func (s *Store) LatestBackup(ctx context.Context) (*models.Backup, bool) {
	raw, err := s.repos.KV.Get(ctx, BackupKey)
	if err != nil {
		s.log.Error(ctx, "backup read failed", "error", err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	var b models.Backup
	if err := json.Unmarshal(raw, &b); err != nil {
		s.log.Error(ctx, "backup decode failed", "error", err)
		return nil, false
	}
	return &b, true
}
