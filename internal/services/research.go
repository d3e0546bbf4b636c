// HTTP implementation of [ResearchService] for the /research REST surface
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/shared"
)

// DefaultTimeout is applied uniformly to every backend request.
const DefaultTimeout = 30 * time.Second

const defaultBaseURL = "http://localhost:5000/api"

// ResearchClient implements [ResearchService] over HTTP.
type ResearchClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewResearchClient creates a client for the research backend.
//
// A nil client gets a dedicated [http.Client] with [DefaultTimeout]; a
// provided client without a timeout has [DefaultTimeout] set on it so the
// no-response bound holds regardless of caller configuration.
func NewResearchClient(baseURL string, client *http.Client, logger *log.Logger) *ResearchClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	} else if client.Timeout == 0 {
		client.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ResearchClient{
		baseURL:    baseURL,
		httpClient: client,
		logger:     logger,
	}
}

// Name returns the backend name for display and logging.
func (c *ResearchClient) Name() string { return "research" }

// Topics retrieves the list of previously researched topics.
func (c *ResearchClient) Topics(ctx context.Context) ([]string, error) {
	body, err := c.request(ctx, http.MethodGet, "/research/topics", nil)
	if err != nil {
		return nil, err
	}

	var topics []string
	if err := json.Unmarshal(body, &topics); err != nil {
		return nil, fmt.Errorf("failed to decode topics response: %w", err)
	}
	return topics, nil
}

// Start submits a new research job.
func (c *ResearchClient) Start(ctx context.Context, topic string, depth models.Depth) (*models.ResearchSession, error) {
	payload := struct {
		Topic string       `json:"topic"`
		Depth models.Depth `json:"depth"`
	}{Topic: topic, Depth: depth}

	body, err := c.request(ctx, http.MethodPost, "/research/start", payload)
	if err != nil {
		return nil, err
	}

	var session models.ResearchSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session descriptor: %w", err)
	}
	return &session, nil
}

// Progress fetches the current state of one session.
func (c *ResearchClient) Progress(ctx context.Context, sessionID string) (*models.ProgressUpdate, error) {
	body, err := c.request(ctx, http.MethodGet, "/research/progress/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}

	var update models.ProgressUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, fmt.Errorf("failed to decode progress response: %w", err)
	}
	return &update, nil
}

// Results retrieves summaries of all completed research jobs.
func (c *ResearchClient) Results(ctx context.Context) ([]models.ResultSummary, error) {
	body, err := c.request(ctx, http.MethodGet, "/research/results", nil)
	if err != nil {
		return nil, err
	}

	var summaries []models.ResultSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode results response: %w", err)
	}
	return summaries, nil
}

// Result retrieves the fully materialized article for a completed job.
func (c *ResearchClient) Result(ctx context.Context, resultID string) (*models.ResearchResult, error) {
	body, err := c.request(ctx, http.MethodGet, "/research/results/"+url.PathEscape(resultID), nil)
	if err != nil {
		return nil, err
	}

	var result models.ResearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result response: %w", err)
	}
	return &result, nil
}

// request performs one call against the backend and classifies any failure.
// Every failure is logged before it is returned.
func (c *ResearchClient) request(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, c.fail(method, path, &RequestError{Kind: KindSetup, Err: err})
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, c.fail(method, path, &RequestError{Kind: KindSetup, Err: err})
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(method, path, &RequestError{Kind: KindNoResponse, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(method, path, &RequestError{Kind: KindNoResponse, Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(method, path, &RequestError{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Body:       body,
		})
	}

	return body, nil
}

// fail logs a classified failure and hands it back to the caller.
func (c *ResearchClient) fail(method, path string, reqErr *RequestError) error {
	c.logger.Error("request failed",
		"method", method,
		"path", path,
		"kind", reqErr.Kind.String(),
		"status", reqErr.StatusCode,
		"error", reqErr.Err,
	)
	return reqErr
}
