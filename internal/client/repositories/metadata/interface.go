// Package metadata is the durable key/value store behind the persisted
// credential: a SQLite table by default, Redis optionally.
package metadata

import (
	"context"
)

// Op is one write in a batch: a put of Value, or a delete when Delete is set.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

func Put(key string, value []byte) Op { return Op{Key: key, Value: value} }

func Del(key string) Op { return Op{Key: key, Delete: true} }

// Repository stores opaque values by key. Get returns (nil, nil) for an
// absent key and Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Apply runs every op or none of them.
	Apply(ctx context.Context, ops ...Op) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
