package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
)

// progressStep is the percentage a simulated job advances per stage.
const progressStep = 5

// DefaultStageInterval is the wall-clock time one simulated stage takes.
const DefaultStageInterval = 2 * time.Second

// ResearchOpts configures a ResearchHandler.
type ResearchOpts struct {
	Logger *log.Logger

	// StageInterval is the time per simulated progress stage. Deeper jobs
	// run proportionally longer. Defaults to [DefaultStageInterval].
	StageInterval time.Duration
}

// simulatedJob tracks one in-flight research session.
type simulatedJob struct {
	session models.ResearchSession
	started time.Time
}

// ResearchHandler simulates the research backend's REST surface.
//
// Jobs advance through staged progress on a wall-clock schedule. When a job
// reaches 100 percent it flips to completed, its completion time is stamped,
// and a generated article becomes available through the results endpoints.
// Implements the Handler interface for registration with a Router.
type ResearchHandler struct {
	logger *log.Logger
	stage  time.Duration

	mu      sync.Mutex
	jobs    map[string]*simulatedJob
	results map[string]*models.ResearchResult
	order   []string
	topics  []string
}

// NewResearchHandler creates a handler with no sessions and no results.
func NewResearchHandler(opts ResearchOpts) *ResearchHandler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.StageInterval <= 0 {
		opts.StageInterval = DefaultStageInterval
	}

	return &ResearchHandler{
		logger:  opts.Logger,
		stage:   opts.StageInterval,
		jobs:    make(map[string]*simulatedJob),
		results: make(map[string]*models.ResearchResult),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *ResearchHandler) Routes() []string {
	return []string{
		"/api/research/topics",
		"/api/research/start",
		"/api/research/progress/",
		"/api/research/results",
		"/api/research/results/",
	}
}

// ServeHTTP dispatches to the endpoint handlers by path.
func (h *ResearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case path == "/api/research/topics":
		h.handleTopics(w, r)
	case path == "/api/research/start":
		h.handleStart(w, r)
	case strings.HasPrefix(path, "/api/research/progress/"):
		h.handleProgress(w, r, strings.TrimPrefix(path, "/api/research/progress/"))
	case path == "/api/research/results":
		h.handleResults(w, r)
	case strings.HasPrefix(path, "/api/research/results/"):
		h.handleResult(w, r, strings.TrimPrefix(path, "/api/research/results/"))
	default:
		h.writeError(w, http.StatusNotFound, "unknown endpoint")
	}
}

func (h *ResearchHandler) handleTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.mu.Lock()
	h.advanceLocked()
	topics := make([]string, len(h.topics))
	copy(topics, h.topics)
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, topics)
}

func (h *ResearchHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payload struct {
		Topic string       `json:"topic"`
		Depth models.Depth `json:"depth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.Topic = strings.TrimSpace(payload.Topic)
	if payload.Topic == "" {
		h.writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if payload.Depth == 0 {
		payload.Depth = models.DepthStandard
	}
	if !payload.Depth.Valid() {
		h.writeError(w, http.StatusBadRequest, "depth must be between 1 and 3")
		return
	}

	session := models.ResearchSession{
		ID:        shared.GenerateID(),
		Topic:     payload.Topic,
		Depth:     payload.Depth,
		Status:    models.StatusPending,
		Progress:  0,
		StartTime: time.Now(),
	}

	h.mu.Lock()
	h.jobs[session.ID] = &simulatedJob{session: session, started: session.StartTime}
	h.mu.Unlock()

	h.logger.Info("research started", "session", session.ID, "topic", session.Topic, "depth", session.Depth)
	h.writeJSON(w, http.StatusAccepted, session)
}

func (h *ResearchHandler) handleProgress(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.mu.Lock()
	h.advanceLocked()
	job, ok := h.jobs[sessionID]
	if !ok {
		h.mu.Unlock()
		h.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	session := job.session
	h.mu.Unlock()

	status := session.Status
	progress := session.Progress
	update := models.ProgressUpdate{
		Status:        &status,
		Progress:      &progress,
		CompletedTime: session.CompletedTime,
	}

	h.writeJSON(w, http.StatusOK, update)
}

func (h *ResearchHandler) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.mu.Lock()
	h.advanceLocked()
	summaries := make([]models.ResultSummary, 0, len(h.order))
	for _, id := range h.order {
		result := h.results[id]
		summaries = append(summaries, models.ResultSummary{
			ID:            result.ID,
			Topic:         result.Topic,
			Summary:       result.Summary,
			CompletedTime: result.CompletedTime,
		})
	}
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *ResearchHandler) handleResult(w http.ResponseWriter, r *http.Request, resultID string) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.mu.Lock()
	h.advanceLocked()
	result, ok := h.results[resultID]
	h.mu.Unlock()

	if !ok {
		h.writeError(w, http.StatusNotFound, "result not found")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// advanceLocked moves every running job forward based on elapsed wall-clock
// time. Deeper jobs take proportionally more time per stage. Must be called
// with h.mu held.
func (h *ResearchHandler) advanceLocked() {
	now := time.Now()

	for _, job := range h.jobs {
		if job.session.Status.IsTerminal() {
			continue
		}

		stage := h.stage * time.Duration(job.session.Depth)
		stages := int(now.Sub(job.started) / stage)
		progress := stages * progressStep

		if progress <= 0 {
			continue
		}
		if progress >= 100 {
			completed := job.started.Add(time.Duration(100/progressStep) * stage)
			job.session.Status = models.StatusCompleted
			job.session.Progress = 100
			job.session.CompletedTime = &completed
			h.completeLocked(job)
			continue
		}

		job.session.Status = models.StatusInProgress
		job.session.Progress = progress
	}
}

// completeLocked generates the article for a finished job and registers its
// topic. Must be called with h.mu held.
func (h *ResearchHandler) completeLocked(job *simulatedJob) {
	session := job.session

	result := &models.ResearchResult{
		ID:            session.ID,
		Topic:         session.Topic,
		Summary:       fmt.Sprintf("A generated overview of %s.", session.Topic),
		Depth:         session.Depth,
		CompletedTime: session.CompletedTime,
		Sections: []models.Section{
			{
				Title:   "Introduction",
				Content: fmt.Sprintf("This article surveys the current state of %s.", session.Topic),
			},
			{
				Title:   "Key Findings",
				Content: fmt.Sprintf("Research into %s continues to evolve rapidly.", session.Topic),
				Sources: []models.Source{
					{Title: "Generated Source", URL: "https://example.com/source"},
				},
			},
		},
		References: []models.Reference{
			{Title: "Generated Reference", URL: "https://example.com/reference", Description: "Simulated citation"},
		},
	}

	h.results[session.ID] = result
	h.order = append(h.order, session.ID)

	for _, topic := range h.topics {
		if topic == session.Topic {
			return
		}
	}
	h.topics = append(h.topics, session.Topic)
}

func (h *ResearchHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *ResearchHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
