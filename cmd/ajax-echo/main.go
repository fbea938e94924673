package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bft-labs/ajaxclient/internal/cliconfig"
	"github.com/bft-labs/ajaxclient/internal/echo"
)

func main() {
	zl := cliconfig.Logger(os.Stderr)

	var (
		addr            string
		shutdownTimeout time.Duration
	)

	root := &cobra.Command{
		Use:   "ajax-echo",
		Short: "Serve canned responses for trying the ajax client",
		Long: `Serve canned responses for trying the ajax client:

  GET|POST /status/{code}    respond with the given status code
  GET      /delay/{ms}       respond 200 after a delay
  *        /echo             echo the request body, method and content type
  GET      /stream/{chunks}  stream chunks, ?interval=ms between them`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := &http.Server{
				Addr:              addr,
				Handler:           echo.NewRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				zl.Info().Str("addr", addr).Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
				zl.Info().Msg("received signal, stopping...")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	root.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "grace period for open requests on shutdown")

	if err := root.Execute(); err != nil {
		zl.Error().Err(err).Msg("ajax-echo")
		os.Exit(1)
	}
}
