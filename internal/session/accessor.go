package session

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/services"
	"github.com/desertthunder/squall/internal/shared"
)

// ResultAccessor fetches fully materialized research results on demand.
//
// Results are owned by whichever view requested them; nothing is cached and
// nothing is merged back into the Store's collections. Failures are recorded
// in the Store's error field so they surface through the same channel as
// every other failure.
type ResultAccessor struct {
	store   *Store
	service services.ResearchService
	logger  *log.Logger
}

// NewResultAccessor creates an accessor reporting failures into the store.
func NewResultAccessor(store *Store, service services.ResearchService, logger *log.Logger) *ResultAccessor {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ResultAccessor{store: store, service: service, logger: logger}
}

// FetchResult retrieves the full result for a completed session.
func (a *ResultAccessor) FetchResult(ctx context.Context, resultID string) (*models.ResearchResult, error) {
	result, err := a.service.Result(ctx, resultID)
	if err != nil {
		a.logger.Error("failed to fetch result", "result", resultID, "error", err)
		a.store.setError(ErrMsgResult)
		return nil, err
	}
	return result, nil
}
