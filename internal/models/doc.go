// Package models defines domain entities and persistence interfaces for the squall research client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Wire-level structs exchanged with the research backend
//   - [ResearchSession] : One in-flight or completed research job
//   - [ProgressUpdate] : Partial session state returned by the progress endpoint
//   - [ResultSummary] : Lightweight listing record for a completed session
//   - [ResearchResult] : Fully materialized article with sections and references
//
// 2. Persistent Entities: Database-backed models for the local archive
//   - [ArchivedResult] : A completed result saved to the local SQLite archive
//   - [Topic] : A previously researched topic with its last-researched timestamp
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
