package ui

import (
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/session"
)

// sessionStartedMsg carries the descriptor for a newly submitted job.
type sessionStartedMsg struct {
	session *models.ResearchSession
	err     error
}

// pollEventMsg wraps one observation from the poller's event channel.
type pollEventMsg session.ProgressEvent

// pollClosedMsg signals the poller's event channel was closed.
type pollClosedMsg struct{}

// resultsLoadedMsg carries the refreshed result listing.
type resultsLoadedMsg struct {
	summaries []models.ResultSummary
}

// resultFetchedMsg carries one fully materialized article.
type resultFetchedMsg struct {
	result *models.ResearchResult
	err    error
}
