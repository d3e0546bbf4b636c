// package tasks implements bulk operations over completed research results.
//
// The core abstraction is ResearchEngine, which orchestrates bulk exports and
// local archiving. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/services"
	"github.com/desertthunder/squall/internal/shared"
)

// ResultArchiver persists fetched results into the local archive.
// Implemented by repositories.ResultRepository.
type ResultArchiver interface {
	GetByRemoteID(remoteID string) (*models.ArchivedResult, error)
	Create(result *models.ArchivedResult) error
}

// TopicToucher stamps topic history when a result is archived.
// Implemented by repositories.TopicRepository.
type TopicToucher interface {
	Touch(name string, researchedAt time.Time) (*models.Topic, error)
}

// ResearchEngine runs bulk operations against the research backend.
//
// The archiver and topics dependencies are optional; Archive fails fast
// without them while BulkExport never needs them.
type ResearchEngine struct {
	service services.ResearchService
	archive ResultArchiver
	topics  TopicToucher
}

// NewResearchEngine creates a ResearchEngine with the provided dependencies.
func NewResearchEngine(service services.ResearchService, archive ResultArchiver, topics TopicToucher) *ResearchEngine {
	return &ResearchEngine{
		service: service,
		archive: archive,
		topics:  topics,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ResearchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ArchiveRunResult summarizes an Archive run.
type ArchiveRunResult struct {
	TotalResults int
	Archived     int
	Skipped      int
	Failed       int
	Errors       []error
}

// Archive fetches each result and saves it into the local archive,
// stamping topic history along the way. Results already present are skipped.
func (e *ResearchEngine) Archive(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (*ArchiveRunResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: research service not initialized", shared.ErrServiceUnavailable)
	}
	if e.archive == nil {
		return nil, fmt.Errorf("%w: archive repository not initialized", shared.ErrServiceUnavailable)
	}

	run := &ArchiveRunResult{TotalResults: len(ids)}

	for i, resultID := range ids {
		select {
		case <-ctx.Done():
			return run, ctx.Err()
		default:
		}

		step := i + 1

		if existing, err := e.archive.GetByRemoteID(resultID); err == nil && existing != nil {
			run.Skipped++
			e.sendProgress(progress, archiveSkippedUpdate(step, len(ids), existing.Topic()))
			continue
		}

		result, err := e.service.Result(ctx, resultID)
		if err != nil {
			run.Failed++
			run.Errors = append(run.Errors, fmt.Errorf("failed to fetch result %s: %w", resultID, err))
			e.sendProgress(progress, fetchFailedUpdate(step, len(ids), resultID, err))
			continue
		}

		if err := e.archiveResult(result); err != nil {
			run.Failed++
			run.Errors = append(run.Errors, err)
			e.sendProgress(progress, archiveFailedUpdate(step, len(ids), resultID, err))
			continue
		}

		run.Archived++
		e.sendProgress(progress, archivedResultUpdate(step, len(ids), result))
	}

	return run, nil
}

// archiveResult serializes one result into the archive and touches its topic.
// Topic history failures are ignored so they never block archiving.
func (e *ResearchEngine) archiveResult(result *models.ResearchResult) error {
	body, err := shared.MarshalJSON(result, false)
	if err != nil {
		return fmt.Errorf("failed to serialize result %s: %w", result.ID, err)
	}

	entity := models.NewArchivedResult(0, result.ID, result.Topic, result.Summary, result.Depth, string(body), result.CompletedTime)
	if err := e.archive.Create(entity); err != nil {
		return fmt.Errorf("failed to archive result %s: %w", result.ID, err)
	}

	if e.topics != nil {
		researchedAt := time.Now()
		if result.CompletedTime != nil {
			researchedAt = *result.CompletedTime
		}
		e.topics.Touch(result.Topic, researchedAt)
	}

	return nil
}
