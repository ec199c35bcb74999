// Package store provides the in-memory resource store backing mock APIs.
//
// Data is organized as tenant → collection → ordered document sequence.
// A tenant is one mocked API; collections are created lazily on first
// access. Every stored document carries a unique string "id" within its
// collection.
//
// # Locking
//
// The store is shared across concurrent HTTP requests. A sync.RWMutex
// guards the tenant/collection maps, and each collection carries its own
// RWMutex: writers (Insert/Replace/Merge/Remove) take it exclusively,
// readers (List/GetByID) take it shared and return snapshots. Documents
// handed out by reads are shared pointers; callers that mutate results
// must clone first.
//
// # Persistence
//
// Collections round-trip to one JSON file each (a plain array of
// documents) under <dataDir>/<tenant>/<collection>.json. Loading and
// saving happen only at process boundaries; no I/O occurs inside the
// request path.
package store
