// package services defines interface ResearchService for interacting with the research backend
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
)

// ResearchService defines the client contract for the asynchronous research backend.
type ResearchService interface {
	// Topics retrieves the list of previously researched topics.
	Topics(ctx context.Context) ([]string, error)

	// Start submits a new research job and returns the server-assigned
	// session descriptor.
	Start(ctx context.Context, topic string, depth models.Depth) (*models.ResearchSession, error)

	// Progress fetches the current state of one session. The response is
	// partial; absent fields must not overwrite tracked state.
	Progress(ctx context.Context, sessionID string) (*models.ProgressUpdate, error)

	// Results retrieves summaries of all completed research jobs.
	Results(ctx context.Context) ([]models.ResultSummary, error)

	// Result retrieves the fully materialized article for a completed job.
	Result(ctx context.Context, resultID string) (*models.ResearchResult, error)

	// Name returns the name of the backend for display and logging.
	Name() string
}

// ErrorKind classifies where a request failed.
type ErrorKind int

const (
	// KindServer means a response was received but carried a failure status.
	KindServer ErrorKind = iota
	// KindNoResponse means the request was sent but no response arrived
	// within the timeout or due to a connectivity failure.
	KindNoResponse
	// KindSetup means the request could not be constructed before any
	// network activity.
	KindSetup
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server_error"
	case KindNoResponse:
		return "no_response"
	case KindSetup:
		return "request_setup"
	default:
		return ""
	}
}

// sentinel maps the kind to its [shared] sentinel for errors.Is checks.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindServer:
		return shared.ErrServerError
	case KindNoResponse:
		return shared.ErrNoResponse
	default:
		return shared.ErrRequestSetup
	}
}

// RequestError is a classified transport failure. StatusCode and Body are
// populated only for [KindServer].
type RequestError struct {
	Kind       ErrorKind
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("%v: status %d: %s", shared.ErrServerError, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%v: %v", e.Kind.sentinel(), e.Err)
	}
}

// Unwrap exposes both the classification sentinel and the underlying cause.
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}
