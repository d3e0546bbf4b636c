// Package repositories implements SQLite persistence for the local research archive.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ResultRepository] : Archived research results with remote-id and topic lookups
//   - [TopicRepository] : Topic history with name-based lookups
//
// Sequence numbers provide stable, human-readable ordering (e.g., result #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
