package session

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/squall/internal/models"
)

func TestResultAccessor(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the Full Result Without Touching Collections", func(t *testing.T) {
		svc := &fakeService{
			results: []models.ResultSummary{{ID: "abc123", Topic: "quantum computing"}},
			result: &models.ResearchResult{
				ID:      "abc123",
				Topic:   "quantum computing",
				Summary: "An overview of qubit architectures.",
				Sections: []models.Section{
					{Title: "Background", Content: "Superposition and entanglement."},
				},
			},
		}
		store := NewStore(svc, quietLogger())
		store.LoadResults(ctx)

		accessor := NewResultAccessor(store, svc, quietLogger())
		result, err := accessor.FetchResult(ctx, "abc123")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.ID != "abc123" || len(result.Sections) != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
		if got := store.Results(); len(got) != 1 {
			t.Errorf("expected summaries untouched, got %v", got)
		}
		if store.Err() != "" {
			t.Errorf("expected no error recorded, got %q", store.Err())
		}
	})

	t.Run("Failure Records the Error and Re-Raises It", func(t *testing.T) {
		svc := &fakeService{resultErr: errors.New("no response")}
		store := NewStore(svc, quietLogger())

		accessor := NewResultAccessor(store, svc, quietLogger())
		result, err := accessor.FetchResult(ctx, "missing")

		if err == nil {
			t.Fatal("expected error to be re-raised to caller")
		}
		if result != nil {
			t.Errorf("expected nil result, got %+v", result)
		}
		if store.Err() != ErrMsgResult {
			t.Errorf("expected %q, got %q", ErrMsgResult, store.Err())
		}
	})
}
