package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/tinyui/cmd/tinyui/internal/demo"
	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/dom"
	"github.com/go-drift/tinyui/pkg/mount"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Clicks      int
	Initial     int
	Step        int
	PNG         string
	ClearScreen bool
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo [component]",
		Short: "Render a bundled component and script clicks against it",
		Long: `Render a bundled component into the "#app" mount point and print
every pass as one line of HTML. Each --clicks click is dispatched to the
component's action button and re-renders it.

Components: ` + strings.Join(demoNames(), ", ") + `

Example:
  tinyui demo --clicks 3
  tinyui demo Todos --clicks 2 --png todos.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "Counter"
			if len(args) == 1 {
				name = args[0]
			}
			return runDemo(cmd, opts, name)
		},
	}

	cmd.Flags().IntVarP(&opts.Clicks, "clicks", "n", 0, "number of clicks to dispatch after the first pass")
	cmd.Flags().IntVar(&opts.Initial, "initial", 0, "initial count passed as the \"initial\" prop")
	cmd.Flags().IntVar(&opts.Step, "step", 1, "increment passed as the \"step\" prop")
	cmd.Flags().StringVar(&opts.PNG, "png", "", "also rasterise the final pass to this PNG file")
	cmd.Flags().BoolVar(&opts.ClearScreen, "clear-screen", false, "clear the terminal before each pass")

	return cmd
}

func runDemo(cmd *cobra.Command, opts *DemoOptions, name string) error {
	d, ok := demo.Lookup(name)
	if !ok {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown component %q: must be one of %s", name, strings.Join(demoNames(), ", ")))
	}
	if opts.Clicks < 0 {
		return NewExitError(ExitCommandError, "--clicks must not be negative")
	}

	s, err := opts.newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.runtime.Close()

	container := mount.NewContainer("app")
	writer := mount.NewWriterMount(cmd.OutOrStdout())
	if opts.ClearScreen {
		writer.ClearSequence = mount.ANSIClear
	}
	targets := mount.Tee{container, writer}
	var img *mount.ImageMount
	if opts.PNG != "" {
		img = mount.NewImageMount(320, 120)
		targets = append(targets, img)
	}

	doc := mount.NewDocument()
	doc.Add("#app", targets)
	sel, err := mount.Select(s.runtime, doc, "#app")
	if err != nil {
		return WrapExitError(ExitFailure, "failed to select mount point", err)
	}

	props := core.Props{"initial": opts.Initial, "step": opts.Step}
	if err := sel.RenderComponent(d.Name, props); err != nil {
		return WrapExitError(ExitFailure, "render failed", err)
	}
	for i := range opts.Clicks {
		if !container.Dispatch(d.Target, dom.EventClick) {
			return NewExitError(ExitFailure, fmt.Sprintf("click %d: no %q handler on #%s", i+1, dom.EventClick, d.Target))
		}
	}

	if err := writer.Err(); err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}
	if stats := s.runtime.Stats(); stats.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d render pass(es) failed", stats.Failed))
	}

	if img != nil {
		if err := writePNG(opts.PNG, img); err != nil {
			return WrapExitError(ExitFailure, "failed to write png", err)
		}
	}

	stats := s.runtime.Stats()
	s.logger.Info("demo finished",
		slog.String("component", d.Name),
		slog.Int("clicks", opts.Clicks),
		slog.Uint64("passes", stats.Passes))
	return nil
}

func writePNG(path string, img *mount.ImageMount) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return img.EncodePNG(f)
}

func demoNames() []string {
	var names []string
	for _, d := range demo.All() {
		names = append(names, d.Name)
	}
	return names
}
