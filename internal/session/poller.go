package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/services"
	"github.com/desertthunder/squall/internal/shared"
)

// DefaultInterval is the progress poll cadence.
const DefaultInterval = 3 * time.Second

// PollerState is the lifecycle state of a Poller.
type PollerState int

const (
	Idle PollerState = iota
	Active
	Stopped
)

func (s PollerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Stopped:
		return "stopped"
	default:
		return ""
	}
}

// PollerOpts configures a Poller.
type PollerOpts struct {
	// Interval between progress fetches. Defaults to [DefaultInterval].
	Interval time.Duration

	// MaxConsecutiveFailures stops the poll after this many failed ticks
	// in a row. Zero keeps retrying indefinitely, which matches the
	// original backend contract; see PollerConfig in [shared.Config].
	MaxConsecutiveFailures int

	Logger *log.Logger

	// Events receives a ProgressEvent per observation. Sends never block;
	// a full channel drops the event.
	Events chan<- ProgressEvent
}

// Poller repeatedly fetches progress for one session and applies it to the
// Store until a terminal status arrives or the poll is cancelled.
//
// Cancellation is synchronously effective: once Cancel returns, no tick
// fires and no in-flight fetch can mutate the Store. Each poll holds a
// generation token checked under the poller mutex before any apply, which
// closes the race between a stale tick and a replacement poll.
type Poller struct {
	store       *Store
	service     services.ResearchService
	logger      *log.Logger
	interval    time.Duration
	maxFailures int
	events      chan<- ProgressEvent

	mu         sync.Mutex
	state      PollerState
	sessionID  string
	generation int
	cancelPoll context.CancelFunc
}

// NewPoller creates a Poller feeding the given store.
func NewPoller(store *Store, service services.ResearchService, opts PollerOpts) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Poller{
		store:       store,
		service:     service,
		logger:      opts.Logger,
		interval:    opts.Interval,
		maxFailures: opts.MaxConsecutiveFailures,
		events:      opts.Events,
	}
}

// State returns the poller's current lifecycle state.
func (p *Poller) State() PollerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SessionID returns the identifier the poller is (or was last) watching.
func (p *Poller) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}

// Start begins polling the given session. Starting while a poll is active
// cancels the existing schedule first, so polls replace rather than stack.
// Watching a session the Store already knows to be terminal is a no-op.
func (p *Poller) Start(ctx context.Context, sessionID string) {
	if current := p.store.Current(); current != nil && current.ID == sessionID && current.Status.IsTerminal() {
		p.logger.Debug("not polling terminal session", "session", sessionID)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Active && p.cancelPoll != nil {
		p.cancelPoll()
	}

	pollCtx, cancel := context.WithCancel(ctx)
	p.generation++
	p.state = Active
	p.sessionID = sessionID
	p.cancelPoll = cancel

	go p.run(pollCtx, sessionID, p.generation)
}

// Cancel deterministically stops the poll. No tick fires after Cancel
// returns, and a fetch already in flight can no longer apply its result.
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelPoll != nil {
		p.cancelPoll()
		p.cancelPoll = nil
	}
	p.state = Stopped
	p.generation++
}

// run is the poll loop for one generation. It exits when the context is
// cancelled, a terminal update is applied, or the failure cap is reached.
func (p *Poller) run(ctx context.Context, sessionID string, generation int) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update, err := p.service.Progress(ctx, sessionID)
			if err != nil {
				failures++
				p.logger.Warn("progress fetch failed, retrying on next tick",
					"session", sessionID, "failures", failures, "error", err)
				p.emit(fetchFailedEvent(sessionID, err))

				if p.maxFailures > 0 && failures >= p.maxFailures {
					p.logger.Error("stopping poll after repeated failures",
						"session", sessionID, "failures", failures)
					p.stop(generation)
					p.emit(stoppedEvent(sessionID, failures))
					return
				}
				continue
			}
			failures = 0

			if !p.apply(generation, update) {
				return
			}

			if update.Status != nil && update.Status.IsTerminal() {
				p.stop(generation)
				p.emit(p.terminalFor(sessionID, *update.Status))
				return
			}

			p.emit(p.tickFor(sessionID))
		}
	}
}

// apply merges one update into the Store if this generation is still the
// live one. The state and generation checks happen under the poller mutex,
// the same lock Cancel takes, so a cancelled or superseded poll can never
// mutate the Store.
func (p *Poller) apply(generation int, update *models.ProgressUpdate) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Active || p.generation != generation {
		return false
	}

	if err := p.store.ApplyProgressUpdate(*update); err != nil {
		if errors.Is(err, shared.ErrStaleUpdate) {
			// The tracked session went terminal through another path;
			// wind down this schedule.
			p.logger.Debug("dropping stale progress update", "session", p.sessionID)
			p.stopLocked()
			return false
		}
		p.logger.Warn("failed to apply progress update", "session", p.sessionID, "error", err)
	}

	return true
}

// stop transitions Active → Stopped for the given generation.
func (p *Poller) stop(generation int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == generation && p.state == Active {
		p.stopLocked()
	}
}

func (p *Poller) stopLocked() {
	if p.cancelPoll != nil {
		p.cancelPoll()
		p.cancelPoll = nil
	}
	p.state = Stopped
}

// tickFor builds the event for a non-terminal applied update from the
// Store's view of the session.
func (p *Poller) tickFor(sessionID string) ProgressEvent {
	if current := p.store.Current(); current != nil && current.ID == sessionID {
		return tickEvent(sessionID, current.Status, current.Progress)
	}
	return tickEvent(sessionID, models.StatusInProgress, 0)
}

func (p *Poller) terminalFor(sessionID string, status models.SessionStatus) ProgressEvent {
	progress := 0
	if current := p.store.Current(); current != nil && current.ID == sessionID {
		progress = current.Progress
	}
	return terminalEvent(sessionID, status, progress)
}

// emit sends an event without blocking. A full or missing channel drops it.
func (p *Poller) emit(event ProgressEvent) {
	if p.events == nil {
		return
	}
	select {
	case p.events <- event:
	default:
	}
}
