package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/runnerr0/milestones/internal/config"
	"github.com/runnerr0/milestones/internal/milestone"
)

// DefaultKey is the key the milestone collection is stored under.
const DefaultKey = "milestones"

// MilestoneStore persists the milestone collection as a JSON array under a
// single key of a KV.
type MilestoneStore struct {
	kv  KV
	key string
}

// NewMilestoneStore wraps kv. An empty key selects DefaultKey.
func NewMilestoneStore(kv KV, key string) *MilestoneStore {
	if key == "" {
		key = DefaultKey
	}
	return &MilestoneStore{kv: kv, key: key}
}

// Load decodes the stored collection. A missing key is an empty collection.
func (s *MilestoneStore) Load(ctx context.Context) ([]milestone.Milestone, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []milestone.Milestone{}, nil
		}
		return nil, err
	}

	var ms []milestone.Milestone
	if err := json.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	if ms == nil {
		ms = []milestone.Milestone{}
	}
	return ms, nil
}

// Save encodes and writes the full collection.
func (s *MilestoneStore) Save(ctx context.Context, ms []milestone.Milestone) error {
	if ms == nil {
		ms = []milestone.Milestone{}
	}
	data, err := json.Marshal(ms)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	return s.kv.Put(ctx, s.key, data)
}

// Ping checks that the backend is reachable.
func (s *MilestoneStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close closes the underlying KV.
func (s *MilestoneStore) Close() error {
	return s.kv.Close()
}

// KV returns the underlying key-value store.
func (s *MilestoneStore) KV() KV {
	return s.kv
}

// Open connects to the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, path)
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
