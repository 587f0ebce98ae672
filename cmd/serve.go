package cmd

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/repoforge/repoctl/internal/cmd"
	cmdopts "github.com/repoforge/repoctl/internal/cmd/options"
	"github.com/repoforge/repoctl/internal/config"
	"github.com/repoforge/repoctl/internal/flags"
)

// ServeCmd should be used to represent the 'serve' command.
type ServeCmd struct {
	*cmd.BaseCmd
	Addr            string
	ShutdownTimeout time.Duration
	cfgLoader       config.Loader
}

// NewServeCmd creates a newly configured (Cobra) command.
func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "serve",
		Short: "Serves the repository over HTTP for local testing.",
		Long: `Serves the repository tree (Packages index, debs, icons) over HTTP so a
package manager client can be pointed at it during testing. Not intended as a
production hosting setup.`,
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"127.0.0.1:8080",
		"Address to listen on",
	)

	cobraCommand.Flags().DurationVar(
		&c.ShutdownTimeout,
		"shutdown-timeout",
		5*time.Second,
		"Grace period for in-flight requests on shutdown",
	)

	return cobraCommand, nil
}

// run is configured (via NewServeCmd) to be called by the Cobra framework when the command is executed.
func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger().Named("serve")

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	mux := newServeMux(cfg.Dir(), logger)

	srv := &http.Server{
		Addr:    c.Addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(cobraCmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("Serving repository", "address", c.Addr, "root", cfg.Dir())
		_, _ = fmt.Fprintf(cobraCmd.OutOrStdout(), "Serving %s on http://%s\n", cfg.Dir(), c.Addr)
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Handle graceful shutdown.
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server...")
		_ = srv.Shutdown(shutdownCtx)
		logger.Info("Shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

// newServeMux builds the router serving the repository tree rooted at root.
func newServeMux(root string, logger hclog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	mux.Use(requestLogger(logger))
	mux.Handle("/*", http.FileServer(http.Dir(root)))

	return mux
}

// requestLogger logs each request at debug level.
func requestLogger(logger hclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug(
				"Request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
