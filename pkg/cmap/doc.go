// Package cmap provides a concurrent map implementation for Capsule.
//
// Keys are strings and are spread over a power-of-two number of shards
// by their murmur3 hash. Every shard is guarded by its own RWMutex, so
// readers of different shards never contend and a write to one key only
// blocks operations on keys that share its shard.
//
// Usage:
//
//	m := cmap.New[[]byte]()
//	m.Set("/srv/pages/logo.png", data)
//	val, ok := m.Get("/srv/pages/logo.png")
//
// A Set replaces the stored value in one step: a concurrent Get observes
// either the previous state or the new value, never a partial one.
package cmap
