package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/squall/internal/services"
	"github.com/desertthunder/squall/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var httpClient *http.Client
	if config.API.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: config.API.Timeout()}
	}

	researchService := services.NewResearchClient(config.BaseURL(), httpClient, logger)
	apiService := services.NewAPIService(config.BaseURL(), httpClient)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Service:    researchService,
		API:        apiService,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "squall",
		Usage:    "Research topics from your terminal via an asynchronous backend",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
