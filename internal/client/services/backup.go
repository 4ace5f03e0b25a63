package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// DefaultBackupInterval is how often Run snapshots the store.
const DefaultBackupInterval = 5 * time.Minute

// BackupService exports, imports and periodically snapshots the task set.
type BackupService interface {
	ExportAll(ctx context.Context) models.Backup
	WriteExport(ctx context.Context, w io.Writer) error
	ExportFileName(now time.Time) string

	ImportAll(ctx context.Context, doc models.Backup) (int, error)
	Import(ctx context.Context, r io.Reader) (int, error)

	CreateBackup(ctx context.Context) bool
	LatestBackup(ctx context.Context) *models.Backup
	Run(ctx context.Context, interval time.Duration)

	Settings(ctx context.Context) models.Settings
	SaveSettings(ctx context.Context, s models.Settings) bool
	ResetSettings(ctx context.Context) bool
}

type backupService struct {
	store Store
	ids   *models.IDGenerator
	now   func() time.Time
	log   logging.Logger
}

// NewBackupService returns a BackupService. ids, when set, observes every
// imported id so later creations never collide with them.
func NewBackupService(store Store, ids *models.IDGenerator, log logging.Logger, now func() time.Time) BackupService {
	if now == nil {
		now = time.Now
	}
	return &backupService{store: store, ids: ids, now: now, log: log}
}

func (s *backupService) ExportAll(ctx context.Context) models.Backup {
	return models.Backup{
		Version:   models.BackupVersion,
		Timestamp: models.Timestamp(s.now()),
		Tasks:     s.store.GetAll(ctx),
		Settings:  s.store.Settings(ctx),
	}
}

func (s *backupService) WriteExport(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.ExportAll(ctx))
}

func (s *backupService) ExportFileName(now time.Time) string {
	return fmt.Sprintf("tasks_backup_%s.json", now.UTC().Format(time.DateOnly))
}

// ImportAll merges doc into the store by id. The whole document is checked
// first; if anything is wrong nothing is written. The count of tasks the
// backend acknowledged is returned.
func (s *backupService) ImportAll(ctx context.Context, doc models.Backup) (int, error) {
	if doc.Version == "" {
		return 0, fmt.Errorf("%w: missing version", common.ErrInvalidFormat)
	}
	if doc.Tasks == nil {
		return 0, fmt.Errorf("%w: missing tasks", common.ErrInvalidFormat)
	}
	for _, t := range doc.Tasks {
		if err := models.ValidateImported(t); err != nil {
			return 0, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
		}
	}
	if err := models.CheckContentOwnership(s.afterImport(ctx, doc.Tasks)); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}

	imported := 0
	for i := range doc.Tasks {
		t := doc.Tasks[i]
		if t.Content == nil {
			t.Content = []models.ContentItem{}
		}
		if s.ids != nil {
			s.ids.Observe(models.MaxID([]models.Task{t}))
		}
		if s.store.Put(ctx, &t) {
			imported++
		}
	}
	s.log.Info(ctx, "import finished", "tasks", len(doc.Tasks), "stored", imported)
	return imported, nil
}

// afterImport returns the task set the store would hold once incoming is
// merged: stored tasks the document does not replace, then the document.
func (s *backupService) afterImport(ctx context.Context, incoming []models.Task) []models.Task {
	replaced := make(map[int64]struct{}, len(incoming))
	for _, t := range incoming {
		replaced[t.ID] = struct{}{}
	}
	var merged []models.Task
	for _, t := range s.store.GetAll(ctx) {
		if _, ok := replaced[t.ID]; !ok {
			merged = append(merged, t)
		}
	}
	return append(merged, incoming...)
}

func (s *backupService) Import(ctx context.Context, r io.Reader) (int, error) {
	var doc models.Backup
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}
	return s.ImportAll(ctx, doc)
}

func (s *backupService) CreateBackup(ctx context.Context) bool {
	b := s.ExportAll(ctx)
	if !s.store.SaveBackup(ctx, b) {
		return false
	}
	s.log.Debug(ctx, "backup created", "tasks", len(b.Tasks))
	return true
}

func (s *backupService) LatestBackup(ctx context.Context) *models.Backup {
	b, ok := s.store.LatestBackup(ctx)
	if !ok {
		return nil
	}
	return b
}

// Run snapshots the store every interval while the autoBackup setting is on.
// It returns when ctx is cancelled.
func (s *backupService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultBackupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.store.Settings(ctx).AutoBackup {
				continue
			}
			if !s.CreateBackup(ctx) {
				s.log.Warn(ctx, "periodic backup failed")
			}
		}
	}
}

func (s *backupService) Settings(ctx context.Context) models.Settings {
	return s.store.Settings(ctx)
}

func (s *backupService) SaveSettings(ctx context.Context, v models.Settings) bool {
	return s.store.SaveSettings(ctx, v)
}

func (s *backupService) ResetSettings(ctx context.Context) bool {
	return s.store.ResetSettings(ctx)
}
