package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// FlatKey is the kv key holding the JSON-encoded task array.
const FlatKey = "tasks"

// FlatRepository implements Repository over a single kv blob.
type FlatRepository struct {
	store kv.Store
	// mu serializes read-modify-write cycles on the blob.
	mu sync.Mutex
}

func NewFlatRepository(store kv.Store) *FlatRepository {
	return &FlatRepository{store: store}
}

func (r *FlatRepository) Name() string { return "flat" }

// Init writes an empty list when no blob exists yet and verifies an existing
// blob can be decoded.
func (r *FlatRepository) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.store.Get(ctx, FlatKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return r.save(ctx, []models.Task{})
	}
	var existing []models.Task
	if err := json.Unmarshal(raw, &existing); err != nil {
		return fmt.Errorf("stored task list is corrupt: %w", err)
	}
	return nil
}

func (r *FlatRepository) load(ctx context.Context) ([]models.Task, error) {
	raw, err := r.store.Get(ctx, FlatKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []models.Task{}, nil
	}
	var list []models.Task
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %w", err)
	}
	return list, nil
}

func (r *FlatRepository) save(ctx context.Context, list []models.Task) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode task list: %w", err)
	}
	return r.store.Set(ctx, FlatKey, raw)
}

func (r *FlatRepository) Put(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	if err := checkOwnership(list, task); err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID == task.ID {
			list[i] = task.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, task.Clone())
	}
	return r.save(ctx, list)
}

// checkOwnership rejects task when one of its content ids is held by another
// stored task.
func checkOwnership(list []models.Task, task *models.Task) error {
	ids := make(map[int64]struct{}, len(task.Content))
	for _, c := range task.Content {
		ids[c.ID] = struct{}{}
	}
	for _, other := range list {
		if other.ID == task.ID {
			continue
		}
		for _, c := range other.Content {
			if _, taken := ids[c.ID]; taken {
				return fmt.Errorf("%w: content %d", common.ErrContentOwned, c.ID)
			}
		}
	}
	return nil
}

func (r *FlatRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *FlatRepository) GetAll(ctx context.Context) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *FlatRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, t := range list {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return r.save(ctx, kept)
}

func (r *FlatRepository) Categories(ctx context.Context) ([]string, error) {
	list, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, t := range list {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		names = append(names, t.Category)
	}
	sort.Strings(names)
	return names, nil
}

func (r *FlatRepository) Close() error { return nil }
