// Package storage provides pluggable persistence backends for the catalog service.
//
// # Overview
//
// The storage layer owns the two durable record types — users and
// products — behind small, focused interfaces. The API layer depends
// only on these interfaces, never on a concrete backend.
//
// # Backends
//
// MongoStorage (pkg/storage/mongo): the production document store. A
// unique index on users.email makes the store the sole arbiter of
// duplicate registrations; the losing writer of a racing insert gets a
// duplicate-key error mapped to ErrDuplicateEmail.
//
// MemoryStorage (pkg/storage/memory): in-process backend for tests and
// local development.
//
// CachedProductStore (cache.go): optional Redis read-through cache
// decorating any ProductStore. Mutations invalidate, reads populate.
//
// # Configuration
//
//	cfg := storage.DefaultConfig()
//	cfg.Type = "mongo"
//	cfg.MongoURL = "mongodb://localhost:27017"
//
// # Related Packages
//
//   - pkg/api: HTTP handlers consuming UserStore and ProductStore
//   - pkg/config: environment-driven storage configuration
package storage
