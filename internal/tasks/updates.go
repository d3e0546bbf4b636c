package tasks

import (
	"fmt"

	"github.com/desertthunder/squall/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchResult Phase = iota
	ExportResult
	ArchiveResult
)

func (p Phase) String() string {
	switch p {
	case FetchResult:
		return "fetch_result"
	case ExportResult:
		return "export_result"
	case ArchiveResult:
		return "archive_result"
	default:
		return ""
	}
}

func fetchingResultsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchResult,
		Step:    step,
		Total:   total,
		Message: "Fetching research results...",
	}
}

func fetchFailedUpdate(step, total int, resultID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, resultID, err),
	}
}

func exportingResultUpdate(step, total int, topic string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, topic),
	}
}

func exportCompletedUpdate(step, total int, topic string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, topic, filesCount),
	}
}

func exportFailedUpdate(step, total int, topic string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, topic, err),
	}
}

func archivedResultUpdate(step, total int, result *models.ResearchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ArchiveResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Archived: %s", step, total, result.Topic),
		Data:    result,
	}
}

func archiveSkippedUpdate(step, total int, topic string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ArchiveResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Already archived: %s", step, total, topic),
	}
}

func archiveFailedUpdate(step, total int, resultID string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ArchiveResult,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, resultID, err),
	}
}
