// Package contentcache provides the in-memory content cache for Capsule.
//
// The cache has two independent namespaces keyed by the resolved file
// path: converted page text and raw asset bytes. Both are backed by
// sharded concurrent maps (pkg/cmap), so any number of connections may
// read and write concurrently without external locking.
//
// Staleness: entries are never evicted, expired or invalidated. A file that
// changes on disk after it was first served keeps being served from the
// cache until the process restarts. This is intended, and tests must not
// expect edits to show up.
package contentcache
