package testing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/dom"
	tinyerrors "github.com/go-drift/tinyui/pkg/errors"
	"github.com/go-drift/tinyui/pkg/mount"
)

// ErrNoMatch is returned by Tap when the finder matches nothing.
var ErrNoMatch = errors.New("finder matched no nodes")

// Tester renders components into an in-memory container with an isolated
// runtime and records every error the runtime reports.
type Tester struct {
	runtime   *core.Runtime
	container *mount.Container
	recorder  *Recorder
	key       string
}

// NewTester creates a tester. opts are applied after the tester's own error
// handler and silent logger, so they may replace either.
func NewTester(opts ...core.Option) *Tester {
	rec := &Recorder{}
	base := []core.Option{
		core.WithErrorHandler(rec),
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	t := &Tester{
		runtime:   core.NewRuntime(append(base, opts...)...),
		container: mount.NewContainer("test"),
		recorder:  rec,
	}
	t.runtime.OnRender(func(e core.RenderEvent) {
		if e.Err == nil {
			t.key = e.Instance
		}
	})
	return t
}

// NewTesterWithT creates a tester that fails t at cleanup if the runtime
// reported a panic outside of a render pass.
func NewTesterWithT(t *testing.T, opts ...core.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(func() {
		for _, p := range tester.recorder.Panics() {
			t.Errorf("unexpected panic reported: %v", p)
		}
	})
	return tester
}

// Runtime returns the tester's runtime.
func (t *Tester) Runtime() *core.Runtime {
	return t.runtime
}

// Container returns the mount point components render into.
func (t *Tester) Container() *mount.Container {
	return t.container
}

// Recorder returns the errors the runtime has reported.
func (t *Tester) Recorder() *Recorder {
	return t.recorder
}

// Register registers fn under name.
func (t *Tester) Register(name string, fn core.RenderFunc) {
	t.runtime.Register(name, fn)
}

// Render renders name into the tester's container.
func (t *Tester) Render(name string, props core.Props, opts ...core.RenderOption) error {
	return t.runtime.Render(name, t.container, props, opts...)
}

// InstanceKey returns the instance key of the last successful pass.
func (t *Tester) InstanceKey() string {
	return t.key
}

// Root returns the mounted tree, or nil.
func (t *Tester) Root() *dom.Node {
	return t.container.Content()
}

// Text returns the text content of the mounted tree.
func (t *Tester) Text() string {
	return t.container.TextContent()
}

// Find evaluates a finder against the mounted tree.
func (t *Tester) Find(finder Finder) FinderResult {
	root := t.Root()
	if root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		nodes:  finder.Evaluate(root),
		finder: finder,
	}
}

// Tap dispatches a click to the first node finder matches. Any re-render
// it causes has finished when Tap returns.
func (t *Tester) Tap(finder Finder) error {
	return t.Dispatch(finder, dom.EventClick)
}

// Dispatch sends event to the first node finder matches. A panicking
// handler is recorded as a panic rather than crashing the test.
func (t *Tester) Dispatch(finder Finder, event string) error {
	defer t.runtime.Recover("testing.Dispatch")
	node := t.Find(finder).FirstOrNil()
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNoMatch, finder.Description())
	}
	if !node.Dispatch(event) {
		return fmt.Errorf("%s has no %q handler", finder.Description(), event)
	}
	return nil
}

// Slots returns the slot values of the last rendered instance.
func (t *Tester) Slots() []any {
	info, ok := t.runtime.Store().Lookup(t.key)
	if !ok {
		return nil
	}
	return info.Slots
}

// Recorder is an ErrorHandler that keeps everything reported to it.
type Recorder struct {
	errors       []*tinyerrors.UIError
	panics       []*tinyerrors.PanicError
	renderErrors []*tinyerrors.RenderError
}

// HandleError records err.
func (r *Recorder) HandleError(err *tinyerrors.UIError) {
	r.errors = append(r.errors, err)
}

// HandlePanic records err.
func (r *Recorder) HandlePanic(err *tinyerrors.PanicError) {
	r.panics = append(r.panics, err)
}

// HandleRenderError records err.
func (r *Recorder) HandleRenderError(err *tinyerrors.RenderError) {
	r.renderErrors = append(r.renderErrors, err)
}

// Errors returns the recorded UIErrors.
func (r *Recorder) Errors() []*tinyerrors.UIError {
	return r.errors
}

// Panics returns the recorded panics.
func (r *Recorder) Panics() []*tinyerrors.PanicError {
	return r.panics
}

// RenderErrors returns the recorded render errors.
func (r *Recorder) RenderErrors() []*tinyerrors.RenderError {
	return r.renderErrors
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.errors = nil
	r.panics = nil
	r.renderErrors = nil
}
