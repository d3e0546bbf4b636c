package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/squall/internal/session"
	"github.com/desertthunder/squall/internal/shared"
	"github.com/desertthunder/squall/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for research sessions.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: research service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/squall-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	events := make(chan session.ProgressEvent, 16)
	store := session.NewStore(r.service, r.logger)
	poller := session.NewPoller(store, r.service, session.PollerOpts{
		Interval:               r.config.Poller.Interval(),
		MaxConsecutiveFailures: r.config.Poller.MaxConsecutiveFailures,
		Logger:                 r.logger,
		Events:                 events,
	})
	accessor := session.NewResultAccessor(store, r.service, r.logger)

	model := ui.NewModel(ctx, store, poller, accessor, events)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
