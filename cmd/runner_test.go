package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/squall/internal/models"
	"github.com/desertthunder/squall/internal/services"
	"github.com/desertthunder/squall/internal/shared"
	tu "github.com/desertthunder/squall/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			service := &tu.MockResearchService{}
			api := &services.APIService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    service,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.service != service {
				t.Error("expected service to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				HTTPClient: nil,
			})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
				continue
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "research", "results", "api", "serve", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("resolveResultIDs", func(t *testing.T) {
		t.Run("returns explicit ids unchanged", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Service: &tu.MockResearchService{}})

			ids, err := runner.resolveResultIDs(context.Background(), []string{"a", "b"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
				t.Errorf("expected [a b], got %v", ids)
			}
		})

		t.Run("requires ids or all", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Service: &tu.MockResearchService{}})

			_, err := runner.resolveResultIDs(context.Background(), nil, false)
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("all with empty backend listing fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Service: &tu.MockResearchService{}})

			_, err := runner.resolveResultIDs(context.Background(), nil, true)
			if !errors.Is(err, shared.ErrResultNotFound) {
				t.Errorf("expected ErrResultNotFound, got %v", err)
			}
		})
	})

	t.Run("reportTerminal", func(t *testing.T) {
		t.Run("completed sessions point at results show", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.reportTerminal("abc123", models.StatusCompleted); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "squall results show abc123") {
				t.Errorf("expected results hint, got %q", output.String())
			}
		})

		t.Run("failed sessions return a server error", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.reportTerminal("abc123", models.StatusFailed)
			if !errors.Is(err, shared.ErrServerError) {
				t.Errorf("expected ErrServerError, got %v", err)
			}
		})
	})
}

// listingService serves a fixed set of result summaries.
type listingService struct {
	tu.MockResearchService
	summaries []models.ResultSummary
}

func (s *listingService) Results(ctx context.Context) ([]models.ResultSummary, error) {
	return s.summaries, nil
}

func TestCommands(t *testing.T) {
	run := func(t *testing.T, args ...string) (*bytes.Buffer, error) {
		t.Helper()
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Service: &tu.MockResearchService{},
			Output:  output,
		})
		app := &cli.Command{Name: "squall", Commands: runner.register()}
		err := app.Run(context.Background(), append([]string{"squall"}, args...))
		return output, err
	}

	t.Run("research topics reports an empty backend", func(t *testing.T) {
		output, err := run(t, "research", "topics")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No topics researched yet") {
			t.Errorf("expected empty topics message, got %q", output.String())
		}
	})

	t.Run("research start requires a topic", func(t *testing.T) {
		_, err := run(t, "research", "start")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("research start rejects an unknown depth", func(t *testing.T) {
		_, err := run(t, "research", "start", "--depth", "extreme", "quantum computing")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("research start prints the new session", func(t *testing.T) {
		output, err := run(t, "research", "start", "quantum computing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Session: mock") {
			t.Errorf("expected session id in output, got %q", output.String())
		}
		if !strings.Contains(output.String(), "research watch mock") {
			t.Errorf("expected watch hint, got %q", output.String())
		}
	})

	t.Run("results list prints plain rows", func(t *testing.T) {
		output := &bytes.Buffer{}
		completed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		runner := NewRunner(RunnerOpts{
			Service: &listingService{summaries: []models.ResultSummary{
				{ID: "abc123", Topic: "quantum computing", Summary: "An overview.", CompletedTime: &completed},
			}},
			Output: output,
		})
		app := &cli.Command{Name: "squall", Commands: runner.register()}

		if err := app.Run(context.Background(), []string{"squall", "results", "list"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1. abc123 - quantum computing (2025-01-01)") {
			t.Errorf("expected plain listing row, got %q", output.String())
		}
	})

	t.Run("results list reports an empty backend", func(t *testing.T) {
		output, err := run(t, "results", "list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No completed research yet") {
			t.Errorf("expected empty results message, got %q", output.String())
		}
	})

	t.Run("results export requires ids", func(t *testing.T) {
		_, err := run(t, "results", "export")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
