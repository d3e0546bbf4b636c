// Package tasks orchestrates bulk operations against the research backend with real-time progress reporting.
//
// # Core Operations
//
// The [ResearchEngine] implements two operations:
//
//  1. [ResearchEngine.BulkExport] : Export multiple research results to files
//     - Fetches each completed result from the backend
//     - Writes Markdown, CSV, plain text, or JSON via the formatter package
//     - Generates a manifest file summarizing the run
//
//  2. [ResearchEngine.Archive] : Save completed results to the local SQLite archive
//     - Fetches each result and persists it through [ResultArchiver]
//     - Stamps topic history through [TopicToucher]
//     - Skips results that are already archived
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Rate Limiting
//
// Bulk exports fetch results through a token-bucket limiter so a large run
// does not hammer the backend while research sessions are in flight.
package tasks
