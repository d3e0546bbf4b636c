// package models defines the data model for the squall research client
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models in the local archive.
// Implementations include ArchivedResult and Topic.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// SessionStatus is the server-authoritative lifecycle state of a research session.
type SessionStatus string

const (
	StatusPending    SessionStatus = "pending"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
)

// IsTerminal reports whether no further progress updates are valid for this status.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

func (s SessionStatus) String() string {
	return string(s)
}

// UnmarshalJSON decodes a status string, accepting "running" as an alias
// for in_progress since older backends emit it.
func (s *SessionStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw == "running" {
		*s = StatusInProgress
		return nil
	}

	status := SessionStatus(raw)
	if !status.Valid() {
		return fmt.Errorf("unknown session status: %q", raw)
	}

	*s = status
	return nil
}

// Depth selects how thorough the server-side research effort should be.
type Depth int

const (
	DepthBasic    Depth = 1
	DepthStandard Depth = 2
	DepthDeep     Depth = 3
)

// Valid reports whether d is within the supported range.
func (d Depth) Valid() bool {
	return d >= DepthBasic && d <= DepthDeep
}

func (d Depth) String() string {
	switch d {
	case DepthBasic:
		return "basic"
	case DepthStandard:
		return "standard"
	case DepthDeep:
		return "deep"
	default:
		return fmt.Sprintf("depth(%d)", int(d))
	}
}

// ParseDepth converts a name or numeric string into a Depth.
func ParseDepth(s string) (Depth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "basic":
		return DepthBasic, nil
	case "2", "standard":
		return DepthStandard, nil
	case "3", "deep":
		return DepthDeep, nil
	default:
		return 0, fmt.Errorf("unknown research depth: %q", s)
	}
}

// ResearchSession represents one in-flight or completed research job tracked by the client.
//
// ID is assigned by the backend at creation and stable for the job's
// lifetime. Topic and Depth are immutable once set; Status and Progress are
// updated only from poll responses.
type ResearchSession struct {
	ID            string        `json:"id"`
	Topic         string        `json:"topic"`
	Depth         Depth         `json:"depth"`
	Status        SessionStatus `json:"status"`
	Progress      int           `json:"progress"`
	StartTime     time.Time     `json:"startTime"`
	CompletedTime *time.Time    `json:"completedTime,omitempty"`
}

// ProgressUpdate is a partial session record returned by the progress endpoint.
//
// Nil fields were absent from the response and must leave the tracked
// session unchanged when merged.
type ProgressUpdate struct {
	Status        *SessionStatus `json:"status,omitempty"`
	Progress      *int           `json:"progress,omitempty"`
	CompletedTime *time.Time     `json:"completedTime,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// ResultSummary is a lightweight record of a previously completed session,
// used for listing without pulling full content.
type ResultSummary struct {
	ID            string     `json:"id"`
	Topic         string     `json:"topic"`
	Summary       string     `json:"summary"`
	CompletedTime *time.Time `json:"completedTime,omitempty"`
}

// Source is a cited source attached to a section.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Section is one titled block of a research article.
type Section struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Sources []Source `json:"sources,omitempty"`
}

// Reference is a top-level citation for the whole article.
type Reference struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// ResearchResult is the fully materialized artifact for a completed session.
// Retrieved lazily, never polled.
type ResearchResult struct {
	ID            string      `json:"id"`
	Topic         string      `json:"topic"`
	Summary       string      `json:"summary"`
	Depth         Depth       `json:"depth"`
	CompletedTime *time.Time  `json:"completedTime,omitempty"`
	Sections      []Section   `json:"sections"`
	References    []Reference `json:"references"`
}
