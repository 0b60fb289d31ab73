package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/tinyui/cmd/tinyui/internal/demo"
	"github.com/go-drift/tinyui/pkg/engine"
	"github.com/go-drift/tinyui/pkg/mount"
)

const defaultDebugAddr = "127.0.0.1:7777"

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr           string
	SampleInterval time.Duration

	// ready, when set, receives the bound address once the server listens.
	ready func(addr string)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render every bundled component and serve the debug API",
		Long: `Render each bundled component into its own container and serve the
runtime's registry, instances and recent passes over HTTP.

Endpoints:
  GET  /api/health
  GET  /api/components
  GET  /api/instances[?component=NAME]
  GET  /api/instances/{key}
  POST /api/instances/{key}/rerender
  GET  /api/stats
  GET  /api/renders[?component=NAME&min_ms=F&failed=true&limit=N]
  GET  /api/runtime[?window=SECONDS&limit=N]

The address comes from --addr, then debug.addr in tinyui.yaml, then
TINYUI_DEBUG_ADDR, then ` + defaultDebugAddr + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address")
	cmd.Flags().DurationVar(&opts.SampleInterval, "sample-interval", 5*time.Second, "runtime sampling interval (0 disables)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	s, err := opts.newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.runtime.Close()

	srv := engine.NewDebugServer(s.runtime, s.logger)
	defer srv.Close()
	if opts.SampleInterval > 0 {
		srv.StartSampling(opts.SampleInterval, time.Minute)
	}

	for _, d := range demo.All() {
		c := mount.NewContainer(d.Name)
		if err := s.runtime.Render(d.Name, c, nil); err != nil {
			return WrapExitError(ExitFailure, "render failed", err)
		}
	}

	addr := opts.Addr
	if addr == "" {
		addr = s.cfg.DebugAddr
	}
	if addr == "" {
		addr = defaultDebugAddr
	}
	bound, err := srv.Start(addr)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to start debug server", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving tinyui debug API on http://%s/api\n", bound)
	if opts.ready != nil {
		opts.ready(bound)
	}

	// Use the command's context if available (for testing)
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	s.logger.Info("shutting down debug server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("debug server shutdown", slog.Any("error", err))
	}
	return nil
}
