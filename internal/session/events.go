package session

import (
	"fmt"

	"github.com/desertthunder/squall/internal/models"
)

// EventKind enumerates the progress events a poller publishes.
type EventKind int

const (
	// EventTick is one applied progress update.
	EventTick EventKind = iota
	// EventTerminal is the final update for a session.
	EventTerminal
	// EventFetchFailed is a skipped tick after a transient fetch failure.
	EventFetchFailed
	// EventStopped means the poller gave up after too many consecutive
	// failures (only when a cap is configured).
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventTerminal:
		return "terminal"
	case EventFetchFailed:
		return "fetch_failed"
	case EventStopped:
		return "stopped"
	default:
		return ""
	}
}

// ProgressEvent is one observation from the polling loop, suitable for
// direct display by the CLI or TUI.
type ProgressEvent struct {
	Kind      EventKind
	SessionID string
	Status    models.SessionStatus
	Progress  int
	Message   string
	Err       error
}

func tickEvent(sessionID string, status models.SessionStatus, progress int) ProgressEvent {
	return ProgressEvent{
		Kind:      EventTick,
		SessionID: sessionID,
		Status:    status,
		Progress:  progress,
		Message:   fmt.Sprintf("%s (%d%%)", status, progress),
	}
}

func terminalEvent(sessionID string, status models.SessionStatus, progress int) ProgressEvent {
	return ProgressEvent{
		Kind:      EventTerminal,
		SessionID: sessionID,
		Status:    status,
		Progress:  progress,
		Message:   fmt.Sprintf("research %s", status),
	}
}

func fetchFailedEvent(sessionID string, err error) ProgressEvent {
	return ProgressEvent{
		Kind:      EventFetchFailed,
		SessionID: sessionID,
		Message:   "progress fetch failed, retrying on next tick",
		Err:       err,
	}
}

func stoppedEvent(sessionID string, failures int) ProgressEvent {
	return ProgressEvent{
		Kind:      EventStopped,
		SessionID: sessionID,
		Message:   fmt.Sprintf("giving up after %d consecutive failures", failures),
	}
}
