package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/squall/internal/formatter"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/repositories"
	"github.com/desertthunder/squall/internal/shared"
	"github.com/desertthunder/squall/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ResultsList lists completed research results from the backend or the local archive.
func (r *Runner) ResultsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	local := cmd.Bool("local")

	var summaries []models.ResultSummary
	if local {
		r.logger.Info("listing archived results", "path", r.config.Database.Path)

		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		archived, err := repositories.NewResultRepository(db).List(nil)
		if err != nil {
			return fmt.Errorf("failed to list archived results: %w", err)
		}
		for _, result := range archived {
			summaries = append(summaries, result.ToSummary())
		}
	} else {
		r.logger.Info("listing completed results")

		remote, err := r.service.Results(ctx)
		if err != nil {
			return err
		}
		summaries = remote
	}

	if useJSON {
		return r.writeJSON(summaries, true)
	}

	if len(summaries) == 0 {
		r.writePlain("No completed research yet.\n")
		return nil
	}

	r.writePlainHeader("Completed Research")
	for i, summary := range summaries {
		completed := "unknown"
		if summary.CompletedTime != nil {
			completed = summary.CompletedTime.Format(time.DateOnly)
		}
		r.writePlain("%d. %s - %s (%s)\n", i+1, summary.ID, summary.Topic, completed)
		if summary.Summary != "" {
			r.writePlain("   %s\n", summary.Summary)
		}
	}
	return nil
}

// ResultsShow displays a full research article.
func (r *Runner) ResultsShow(ctx context.Context, cmd *cli.Command) error {
	resultID := cmd.StringArg("result-id")
	useJSON := cmd.Bool("json")

	if resultID == "" {
		return fmt.Errorf("%w: result id argument is required", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching result", "result", resultID)

	result, err := r.service.Result(ctx, resultID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	text, err := formatter.ExportToText(result)
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	return r.writePlain("%s", text)
}

// ResultsExport exports results to files using the engine's worker pool.
func (r *Runner) ResultsExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")
	all := cmd.Bool("all")
	format := cmd.String("format")
	outputDir := cmd.String("output")
	workers := int(cmd.Int("workers"))
	rateLimit := int(cmd.Int("rate"))

	resultIDs, err := r.resolveResultIDs(ctx, ids, all)
	if err != nil {
		return err
	}

	r.logger.Info("starting bulk export", "results", len(resultIDs), "format", format)
	r.writePlain("Exporting %d results as %s...\n\n", len(resultIDs), format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchResult:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportResult:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, resultIDs, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  outputDir,
		NumWorkers: workers,
		RateLimit:  float64(rateLimit),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalResults)
	r.writePlain("Output:   %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d results:\n", result.FailedExports)
		for _, outcome := range result.Results {
			if !outcome.Success {
				r.writePlain("  - %s: %v\n", outcome.ResultID, outcome.Error)
			}
		}
	}

	return nil
}

// ResultsArchive saves results into the local archive database.
func (r *Runner) ResultsArchive(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")
	all := cmd.Bool("all")

	resultIDs, err := r.resolveResultIDs(ctx, ids, all)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := tasks.NewResearchEngine(
		r.service,
		repositories.NewResultRepository(db),
		repositories.NewTopicRepository(db),
	)

	r.logger.Info("archiving results", "results", len(resultIDs))
	r.writePlain("Archiving %d results...\n\n", len(resultIDs))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("   %s\n", update.Message)
		}
	}()

	run, err := engine.Archive(ctx, progressCh, resultIDs)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Archive Complete")
	r.writePlain("Archived: %d\n", run.Archived)
	r.writePlain("Skipped:  %d (already archived)\n", run.Skipped)
	r.writePlain("Failed:   %d\n", run.Failed)

	for _, archiveErr := range run.Errors {
		r.writePlain("  - %v\n", archiveErr)
	}

	return nil
}

// resolveResultIDs expands --all into the backend's full result listing.
func (r *Runner) resolveResultIDs(ctx context.Context, ids []string, all bool) ([]string, error) {
	if all {
		summaries, err := r.service.Results(ctx)
		if err != nil {
			return nil, err
		}
		resultIDs := make([]string, 0, len(summaries))
		for _, summary := range summaries {
			resultIDs = append(resultIDs, summary.ID)
		}
		if len(resultIDs) == 0 {
			return nil, fmt.Errorf("%w: no completed results to process", shared.ErrResultNotFound)
		}
		return resultIDs, nil
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: provide --id or --all", shared.ErrMissingArgument)
	}
	return ids, nil
}
