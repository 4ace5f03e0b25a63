package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// Repository describes the storage contract for Task records.
type Repository interface {
	// Name identifies the backend in logs ("indexed" or "flat").
	Name() string

	// Init prepares the schema. Calling it again is harmless.
	Init(ctx context.Context) error

	// Put inserts the task or fully overwrites the stored record with the same id.
	// Content ids held by another task make it fail with common.ErrContentOwned.
	Put(ctx context.Context, task *models.Task) error

	// Get returns one task, or common.ErrorNotFound.
	Get(ctx context.Context, id int64) (*models.Task, error)

	// GetAll returns every stored task.
	GetAll(ctx context.Context) ([]models.Task, error)

	// Delete removes the task and all of its content items.
	Delete(ctx context.Context, id int64) error

	// Categories lists the distinct category names in use, sorted.
	Categories(ctx context.Context) ([]string, error)

	Close() error
}
