// Package session implements the client-side lifecycle of one tracked research job.
//
// [Store] is the single authoritative holder of tab-wide state: known topics,
// the tracked session, completed result summaries, a loading flag, and the
// last user-facing error. All mutations funnel through its operations.
//
// [Poller] is a cancellable scheduled task that fetches progress for the
// tracked session on a fixed cadence and feeds updates into the Store until
// a terminal status is observed or the poll is cancelled. Updates are also
// published on a channel of [ProgressEvent] for the CLI and TUI layers.
//
// [ResultAccessor] fetches fully materialized results on demand; it never
// polls and never merges into the Store's collections.
package session
