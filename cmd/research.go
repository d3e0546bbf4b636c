package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/session"
	"github.com/desertthunder/squall/internal/shared"
	"github.com/urfave/cli/v3"
)

// ResearchTopics lists topics the backend has already researched.
func (r *Runner) ResearchTopics(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	r.logger.Info("fetching researched topics")

	topics, err := r.service.Topics(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(topics, true)
	}

	if len(topics) == 0 {
		r.writePlain("No topics researched yet.\n")
		return nil
	}

	r.writePlainHeader("Researched Topics")
	for i, topic := range topics {
		r.writePlain("%d. %s\n", i+1, topic)
	}
	return nil
}

// ResearchStart submits a new research job and optionally watches it to completion.
func (r *Runner) ResearchStart(ctx context.Context, cmd *cli.Command) error {
	topic := strings.TrimSpace(cmd.StringArg("topic"))
	depthName := cmd.String("depth")
	watch := cmd.Bool("watch")
	useJSON := cmd.Bool("json")

	if topic == "" {
		return fmt.Errorf("%w: topic argument is required", shared.ErrMissingArgument)
	}

	depth, err := models.ParseDepth(depthName)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	r.logger.Info("starting research", "topic", topic, "depth", depth)

	store := session.NewStore(r.service, r.logger)
	sess, err := store.StartSession(ctx, topic, depth)
	if err != nil {
		return err
	}

	if useJSON {
		if err := r.writeJSON(sess, true); err != nil {
			return err
		}
	} else {
		r.writePlain("Research started.\n")
		r.writePlain("Session: %s\n", sess.ID)
		r.writePlain("Topic:   %s\n", sess.Topic)
		r.writePlain("Depth:   %s\n", sess.Depth)
	}

	if !watch {
		r.writePlain("\nTrack it with 'squall research watch %s'\n", sess.ID)
		return nil
	}

	r.writePlain("\nWatching session %s...\n", sess.ID)
	return r.watchTracked(ctx, store, sess.ID)
}

// ResearchStatus fetches a single progress snapshot for a session.
func (r *Runner) ResearchStatus(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.StringArg("session-id")
	useJSON := cmd.Bool("json")

	if sessionID == "" {
		return fmt.Errorf("%w: session id argument is required", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching progress", "session", sessionID)

	update, err := r.service.Progress(ctx, sessionID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(update, true)
	}

	r.writePlain("Session: %s\n", sessionID)
	if update.Status != nil {
		r.writePlain("Status:  %s\n", *update.Status)
	}
	if update.Progress != nil {
		r.writePlain("Progress: %d%%\n", *update.Progress)
	}
	if update.CompletedTime != nil {
		r.writePlain("Completed: %s\n", update.CompletedTime.Format(time.RFC3339))
	}
	if update.Error != "" {
		r.writePlain("Error: %s\n", update.Error)
	}
	return nil
}

// ResearchWatch polls progress for an existing session until it reaches a
// terminal state. The session is not tracked locally, so each tick hits the
// backend directly rather than going through a [session.Store].
func (r *Runner) ResearchWatch(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.StringArg("session-id")
	if sessionID == "" {
		return fmt.Errorf("%w: session id argument is required", shared.ErrMissingArgument)
	}

	interval := r.config.Poller.Interval()
	if interval <= 0 {
		interval = session.DefaultInterval
	}

	r.logger.Info("watching session", "session", sessionID, "interval", interval)
	r.writePlain("Watching session %s...\n", sessionID)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		update, err := r.service.Progress(ctx, sessionID)
		if err != nil {
			failures++
			r.logger.Warn("progress fetch failed", "error", err)
			r.writePlain("  ! progress fetch failed, retrying on next tick\n")
			if limit := r.config.Poller.MaxConsecutiveFailures; limit > 0 && failures >= limit {
				return fmt.Errorf("%w: gave up after %d consecutive failures", shared.ErrNoResponse, failures)
			}
			continue
		}
		failures = 0

		status := models.StatusPending
		if update.Status != nil {
			status = *update.Status
		}
		progress := 0
		if update.Progress != nil {
			progress = *update.Progress
		}
		r.writePlain("  %s (%d%%)\n", status, progress)

		if status.IsTerminal() {
			return r.reportTerminal(sessionID, status)
		}
	}
}

// watchTracked streams poller events for a session tracked by the given store.
func (r *Runner) watchTracked(ctx context.Context, store *session.Store, sessionID string) error {
	events := make(chan session.ProgressEvent, 16)
	poller := session.NewPoller(store, r.service, session.PollerOpts{
		Interval:               r.config.Poller.Interval(),
		MaxConsecutiveFailures: r.config.Poller.MaxConsecutiveFailures,
		Logger:                 r.logger,
		Events:                 events,
	})

	poller.Start(ctx, sessionID)
	defer poller.Cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-events:
			switch event.Kind {
			case session.EventTick:
				r.writePlain("  %s\n", event.Message)
			case session.EventFetchFailed:
				r.writePlain("  ! %s\n", event.Message)
			case session.EventStopped:
				return fmt.Errorf("%w: %s", shared.ErrNoResponse, event.Message)
			case session.EventTerminal:
				return r.reportTerminal(event.SessionID, event.Status)
			}
		}
	}
}

func (r *Runner) reportTerminal(sessionID string, status models.SessionStatus) error {
	if status == models.StatusCompleted {
		r.writePlainln("✓ Research complete")
		r.writePlain("View it with 'squall results show %s'\n", sessionID)
		return nil
	}

	r.writePlainln("✗ Research %s", status)
	return fmt.Errorf("%w: session %s ended as %s", shared.ErrServerError, sessionID, status)
}
