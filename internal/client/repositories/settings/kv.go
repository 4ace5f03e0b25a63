package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// KVKey is the kv key holding the settings object.
const KVKey = "settings"

// KVRepository keeps all settings in one JSON object under KVKey.
type KVRepository struct {
	store kv.Store
	mu    sync.Mutex
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) load(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, err := r.store.Get(ctx, KVKey)
	if err != nil {
		return nil, err
	}
	m := make(map[string]json.RawMessage)
	if raw == nil {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return m, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("settings[%s]: %w", key, common.ErrInvalidFormat)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load(ctx)
	if err != nil {
		return err
	}
	m[key] = json.RawMessage(value)

	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, KVKey, raw)
}

func (r *KVRepository) List(ctx context.Context) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]byte, len(m))
	for k, v := range m {
		result[k] = []byte(v)
	}
	return result, nil
}

func (r *KVRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, KVKey)
}
