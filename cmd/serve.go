package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/squall/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the embedded research backend, useful for demos and offline work.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	port := int(cmd.Int("port"))
	stageInterval := cmd.Duration("stage-interval")

	if host == "" {
		host = r.config.Server.Host
	}
	if port == 0 {
		port = r.config.Server.Port
	}

	handler := server.NewResearchHandler(server.ResearchOpts{
		Logger:        r.logger,
		StageInterval: stageInterval,
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	r.logger.Info("research backend listening", "addr", addr, "stage_interval", stageInterval)
	r.writePlain("Simulated research backend on http://%s/api\n", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
