package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/dartpulse/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(rt *runtime) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stored registry and statements over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = rt.cfg.Server.Port
			}
			router, cleanup, err := initializeApp(rt.cfg)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), router, port, cleanup)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (defaults to SERVER_PORT)")

	return cmd
}

// startServer starts the HTTP server in a separate goroutine. A listen
// failure is delivered on the returned channel.
func startServer(router http.Handler, port string) (*http.Server, <-chan error) {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return server, errCh
}

// serve runs the server until ctx is canceled (SIGINT/SIGTERM) or it fails to
// listen, then shuts it down and calls cleanup.
func serve(ctx context.Context, router http.Handler, port string, cleanup func()) error {
	defer cleanup()

	server, errCh := startServer(router, port)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.L().Info().Msg("server exited gracefully")
	return nil
}
