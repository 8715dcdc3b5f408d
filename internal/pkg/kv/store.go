// Package kv provides a small durable key-value layer used for appearance
// settings, presets and other blob-shaped state. Values are opaque strings
// (usually JSON) keyed by short names like "title:settings".
package kv

import (
	"context"
	"errors"
)

// ErrTooLarge is returned by Set when a value exceeds the store's size cap.
var ErrTooLarge = errors.New("kv: value too large")

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a durable string-to-string map.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
