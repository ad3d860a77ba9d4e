// Package db declares the storage contracts the repositories consume: a
// key-value cache store and the nested-document search engine.
package db

import (
	"context"
	"time"
)

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations with expiry, used for caching.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// DocStore is the search engine facade: document lookup by id and execution
// of a compiled request body. Ranking and storage internals stay behind it.
type DocStore interface {
	Pinger
	GetSource(ctx context.Context, collection, id string) (map[string]any, error)
	Search(ctx context.Context, collection string, body map[string]any) (*SearchResponse, error)
}

// SearchResponse is the engine's answer to a search request.
type SearchResponse struct {
	Total int64
	Hits  []SearchHit
}

// SearchHit is a single document hit.
type SearchHit struct {
	ID         string
	Score      float64
	Source     map[string]any
	Highlights map[string][]string
}
