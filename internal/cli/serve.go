package cli

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/devserver"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
)

const defaultDevAddr = "localhost:5000"

func newServeDevCmd(app *App) *cobra.Command {
	var addr, prefix string
	cmd := &cobra.Command{
		Use:   "serve-dev",
		Short: "Run an in-memory todo backend for local use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return serveDev(ctx, app, ln, prefix, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultDevAddr, "the address to listen on")
	cmd.Flags().StringVar(&prefix, "prefix", devserver.DefaultPrefix, "path prefix of the todos resource")
	return cmd
}

// serveDev serves until ctx is done, then shuts down gracefully.
func serveDev(ctx context.Context, app *App, ln net.Listener, prefix string, out io.Writer) error {
	srv := &http.Server{
		Handler:           devserver.New(prefix, devserver.WithLogger(app.log)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	base := "http://" + ln.Addr().String() + prefix
	app.log.Info("Serving todos", "addr", base)
	ui.FprintOK(out, "serving todos at "+base)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.log.Info("Shutting down")
	return srv.Shutdown(shutdownCtx)
}
