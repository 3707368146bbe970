package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/habitd/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Entry keys. Each holds one JSON document.
const (
	HabitsKey  = "habitd.habits.v3"
	ProfileKey = "habitd.profile.v3"
	APIKeyKey  = "habitd.apiKey.v1"
)

// Repository is a string-keyed store of JSON documents.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// SnapshotStore persists the whole application state at once.
type SnapshotStore interface {
	// Load reads the stored snapshot. Fields missing from the stored profile keep the
	// values from defaults.
	Load(ctx context.Context, defaults model.Profile) (model.Snapshot, error)
	// Save writes every entry or none of them.
	Save(ctx context.Context, snap model.Snapshot) error
}
