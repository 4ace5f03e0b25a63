package services

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// Store is the persistence boundary the services depend on. Failures never
// surface as errors: writes report an acknowledgement, reads come back empty.
// *storage.Store implements it.
type Store interface {
	Put(ctx context.Context, task *models.Task) bool
	Get(ctx context.Context, id int64) (*models.Task, bool)
	GetAll(ctx context.Context) []models.Task
	Delete(ctx context.Context, id int64) bool
	Categories(ctx context.Context) []string

	Settings(ctx context.Context) models.Settings
	SaveSettings(ctx context.Context, s models.Settings) bool
	ResetSettings(ctx context.Context) bool
	SaveBackup(ctx context.Context, b models.Backup) bool
	LatestBackup(ctx context.Context) (*models.Backup, bool)
}
