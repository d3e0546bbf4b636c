package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/services"
	"github.com/desertthunder/squall/internal/shared"
)

// Fixed user-facing messages recorded in the Store's error field. The error
// field is the single channel surfaced to the user; classified errors stay
// in the logs.
const (
	ErrMsgTopics  = "Failed to load topics"
	ErrMsgResults = "Failed to load results"
	ErrMsgStart   = "Failed to start research"
	ErrMsgResult  = "Failed to load research result"
)

// Store is the single authoritative state holder for the client.
//
// The original UI ran on a single-threaded event loop; here ticks and UI
// callbacks arrive on goroutines, so a mutex guards the fields. Mutation
// ordering is still whatever order the triggering callbacks fire in.
type Store struct {
	mu      sync.Mutex
	service services.ResearchService
	logger  *log.Logger

	topics  []string
	current *models.ResearchSession
	results []models.ResultSummary
	loading bool
	lastErr string
}

// NewStore creates a Store backed by the given research service.
func NewStore(service services.ResearchService, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{service: service, logger: logger}
}

// Topics returns a copy of the known topic history.
func (s *Store) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.topics))
	copy(out, s.topics)
	return out
}

// Current returns a copy of the tracked session, or nil if none is tracked.
func (s *Store) Current() *models.ResearchSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

// Results returns a copy of the completed-result summaries.
func (s *Store) Results() []models.ResultSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ResultSummary, len(s.results))
	copy(out, s.results)
	return out
}

// Loading reports whether a load or start operation is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last user-facing error message, empty when clear.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LoadTopics fetches the topic history. On success the topic collection is
// replaced and the error field cleared; on failure the previous topics are
// retained and the error field is set. Failures surface only through Err.
func (s *Store) LoadTopics(ctx context.Context) {
	s.beginLoad()
	defer s.endLoad()

	topics, err := s.service.Topics(ctx)
	if err != nil {
		s.logger.Error("failed to load topics", "error", err)
		s.setError(ErrMsgTopics)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = topics
	s.lastErr = ""
}

// LoadResults fetches completed-result summaries with the same error
// discipline as LoadTopics.
func (s *Store) LoadResults(ctx context.Context) {
	s.beginLoad()
	defer s.endLoad()

	results, err := s.service.Results(ctx)
	if err != nil {
		s.logger.Error("failed to load results", "error", err)
		s.setError(ErrMsgResults)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	s.lastErr = ""
}

// StartSession validates the input, submits the job, and tracks the returned
// descriptor. At most one session is tracked: a session already in flight is
// replaced, not queued. Transport failures are recorded in the error field
// and returned, since the caller must know the session did not start.
func (s *Store) StartSession(ctx context.Context, topic string, depth models.Depth) (*models.ResearchSession, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, shared.ErrEmptyTopic)
	}
	if !depth.Valid() {
		return nil, fmt.Errorf("%w: %w: %d", shared.ErrInvalidInput, shared.ErrInvalidDepth, int(depth))
	}

	s.beginLoad()
	defer s.endLoad()

	session, err := s.service.Start(ctx, topic, depth)
	if err != nil {
		s.logger.Error("failed to start session", "topic", topic, "error", err)
		s.setError(ErrMsgStart)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
	s.lastErr = ""

	copied := *session
	return &copied, nil
}

// ApplyProgressUpdate merges a poll response into the tracked session.
// Fields absent from the update are left unchanged. Updates arriving when no
// session is tracked or after the tracked session reached a terminal state
// are rejected with [shared.ErrStaleUpdate] and change nothing.
func (s *Store) ApplyProgressUpdate(update models.ProgressUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return fmt.Errorf("%w: no tracked session", shared.ErrStaleUpdate)
	}
	if s.current.Status.IsTerminal() {
		return fmt.Errorf("%w: %w: session %s is %s", shared.ErrStaleUpdate, shared.ErrSessionTerminal, s.current.ID, s.current.Status)
	}

	if update.Status != nil {
		s.current.Status = *update.Status
	}
	if update.Progress != nil {
		progress := *update.Progress
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		s.current.Progress = progress
	}
	if update.CompletedTime != nil {
		s.current.CompletedTime = update.CompletedTime
	}

	return nil
}

// DetachSession drops the tracked session, e.g. when the observing view is
// torn down. The session is not persisted anywhere.
func (s *Store) DetachSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// beginLoad raises the loading flag; endLoad is deferred by every operation
// so the flag is released on all paths, including errors.
func (s *Store) beginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
}

func (s *Store) endLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}
