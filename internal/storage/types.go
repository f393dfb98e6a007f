package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a durable key-value store holding opaque values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Stats holds aggregate statistics about a SQLite store.
type Stats struct {
	Keys       int64
	ValueBytes int64
	Writes     int64
	LastWrite  time.Time
}
