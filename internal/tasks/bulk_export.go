package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/squall/internal/formatter"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk result exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: research_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// ResultExportJob carries one fetched result to an export worker.
type ResultExportJob struct {
	ResultID string
	Result   *models.ResearchResult
}

// ResultExportOutcome records the outcome of exporting a single result.
type ResultExportOutcome struct {
	ResultID string
	Topic    string
	Success  bool
	Files    []string
	Error    error
}

// BulkExportResult aggregates the outcomes of a bulk export run.
type BulkExportResult struct {
	TotalResults      int
	SuccessfulExports int
	FailedExports     int
	Results           []ResultExportOutcome
	OutputDirectory   string
	ManifestPath      string
}

// BulkExport exports multiple research results concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern to efficiently export multiple results.
// It respects backend rate limits, handles partial failures gracefully, and generates
// a manifest file summarizing the export results.
func (e *ResearchEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: research service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("research_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	run := &BulkExportResult{
		TotalResults:    len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ResultExportOutcome, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ResultExportJob, len(ids))
	outcomes := make(chan ResultExportOutcome, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, outcomes, opts)
	}

	go func() {
		e.sendProgress(prog, fetchingResultsUpdate(1, len(ids)))
		for i, resultID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			result, err := e.service.Result(ctx, resultID)
			if err != nil {
				outcomes <- ResultExportOutcome{
					ResultID: resultID,
					Topic:    fmt.Sprintf("Unknown (%s)", resultID),
					Success:  false,
					Error:    fmt.Errorf("failed to fetch result: %w", err),
				}
				continue
			}

			jobs <- ResultExportJob{ResultID: resultID, Result: result}

			e.sendProgress(prog, exportingResultUpdate(i+1, len(ids), result.Topic))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for outcome := range outcomes {
		completed++
		run.Results = append(run.Results, outcome)

		if outcome.Success {
			run.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), outcome.Topic, len(outcome.Files)))
		} else {
			run.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), outcome.Topic, outcome.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(run.manifest(opts.Format), manifestPath); err != nil {
		return run, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	run.ManifestPath = manifestPath
	return run, nil
}

// exportWorker is a worker goroutine that exports results from the jobs channel.
func (e *ResearchEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ResultExportJob,
	outcomes chan<- ResultExportOutcome,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcomes <- e.exportSingleResult(job, opts)
	}
}

// exportSingleResult exports a single result to the appropriate format.
func (e *ResearchEngine) exportSingleResult(j ResultExportJob, opts BulkExportOpts) ResultExportOutcome {
	outcome := ResultExportOutcome{
		ResultID: j.ResultID,
		Topic:    j.Result.Topic,
		Success:  false,
		Files:    []string{},
	}

	switch opts.Format {
	case "csv":
		base := filepath.Join(opts.OutputDir, j.Result.ID)
		csvRes, err := formatter.WriteCSVExport(j.Result, base)
		if err != nil {
			outcome.Error = fmt.Errorf("CSV export failed: %w", err)
			return outcome
		}
		outcome.Files = []string{csvRes.ReferencesFile, csvRes.MetadataFile}
		outcome.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.Result.ID)
		mdRes, err := formatter.WriteMarkdownExport(j.Result, outputDir)
		if err != nil {
			outcome.Error = fmt.Errorf("markdown export failed: %w", err)
			return outcome
		}
		outcome.Files = mdRes.Files
		outcome.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_article.txt", j.Result.ID))
		written, err := formatter.WriteTextExport(j.Result, txtPath)
		if err != nil {
			outcome.Error = fmt.Errorf("text export failed: %w", err)
			return outcome
		}
		outcome.Files = []string{written}
		outcome.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Result.ID))
		written, err := formatter.WriteJSONExport(j.Result, jsonPath)
		if err != nil {
			outcome.Error = fmt.Errorf("JSON export failed: %w", err)
			return outcome
		}
		outcome.Files = []string{written}
		outcome.Success = true
	}
	return outcome
}

// manifest converts the run into the formatter's manifest shape.
func (r *BulkExportResult) manifest(format string) formatter.ExportManifest {
	entries := make([]formatter.ManifestEntry, 0, len(r.Results))
	for _, outcome := range r.Results {
		entry := formatter.ManifestEntry{
			ResultID: outcome.ResultID,
			Topic:    outcome.Topic,
			Success:  outcome.Success,
			Files:    outcome.Files,
		}
		if outcome.Error != nil {
			entry.Error = outcome.Error.Error()
		}
		entries = append(entries, entry)
	}

	return formatter.ExportManifest{
		Format:            format,
		TotalResults:      r.TotalResults,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		OutputDirectory:   r.OutputDirectory,
		Entries:           entries,
	}
}
