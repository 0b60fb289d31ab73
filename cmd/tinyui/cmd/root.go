// Package cmd implements the tinyui CLI commands.
//
// The root command carries the config and logging flags shared by every
// subcommand (demo, serve, version).
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/tinyui/cmd/tinyui/internal/config"
	"github.com/go-drift/tinyui/cmd/tinyui/internal/demo"
	"github.com/go-drift/tinyui/pkg/core"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir        string
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the tinyui CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tinyui",
		Short: "tinyui - a minimal component rendering runtime",
		Long: `tinyui renders named components into mount points and keeps their
positional state between passes. A state change re-renders the whole
component and replaces the mount point's content.

Use "tinyui <command> --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", ".", "project directory holding tinyui.yaml, .env and go.mod")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default <dir>/tinyui.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// session is the resolved config plus the runtime built from it.
type session struct {
	cfg     *config.Resolved
	logger  *slog.Logger
	runtime *core.Runtime
}

// newSession resolves configuration and builds a runtime with every demo
// component registered. Logs go to logOut.
func (o *RootOptions) newSession(logOut io.Writer) (*session, error) {
	dir := o.Dir
	if dir == "" || dir == "." {
		wd, err := os.Getwd()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to get working directory", err)
		}
		dir = wd
	}

	cfg, err := config.Resolve(dir, o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Verbose {
		cfg.Verbose = true
		cfg.LogLevel = slog.LevelDebug
	}

	logger := cfg.NewLogger(logOut).With(slog.String("app", cfg.AppName))
	rt := core.NewRuntime(cfg.RuntimeOptions(logger)...)
	demo.Register(rt)

	return &session{cfg: cfg, logger: logger, runtime: rt}, nil
}
