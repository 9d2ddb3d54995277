package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/locvowork/excel_intelligence/internal/bootstrap"
	"github.com/locvowork/excel_intelligence/internal/logger"
)

func newServeCommand(viewConfig *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP viewer (configured from the environment and .env; --config overrides VIEW_CONFIG_PATH)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := bootstrap.NewApp()
			app.ViewConfigPath = *viewConfig
			if err := app.Initialize(ctx); err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- app.Run() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.InfoLog(shutdownCtx, "Shutting down")
			return app.Shutdown(shutdownCtx)
		},
	}
}
