// Package settings persists user preferences as a flat key/value map. Values
// are JSON documents so both backends can store them unchanged.
package settings

import (
	"context"
)

type Repository interface {
	Set(ctx context.Context, key string, value []byte) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
