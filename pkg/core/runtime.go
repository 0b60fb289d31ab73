package core

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"github.com/go-drift/tinyui/pkg/dom"
	"github.com/go-drift/tinyui/pkg/errors"
)

// Trigger says what started a render pass.
type Trigger int

const (
	// TriggerExternal is a pass started by Render or Rerender.
	TriggerExternal Trigger = iota
	// TriggerState is a pass started by a Setter.
	TriggerState
)

func (t Trigger) String() string {
	if t == TriggerState {
		return "state"
	}
	return "external"
}

// RenderEvent describes a finished render pass, successful or not.
type RenderEvent struct {
	Pass      string
	Component string
	Instance  string
	Trigger   Trigger
	Slots     int
	Passes    uint64
	Duration  time.Duration
	Err       error
}

// Stats are cumulative counters for a Runtime.
type Stats struct {
	Passes     uint64 `json:"passes"`
	Failed     uint64 `json:"failed"`
	NotFound   uint64 `json:"notFound"`
	Mismatches uint64 `json:"mismatches"`
}

// Runtime owns a Registry and a StateStore and runs render passes against
// them. Independent runtimes share nothing.
type Runtime struct {
	registry   *Registry
	store      *StateStore
	handler    errors.ErrorHandler
	logger     *slog.Logger
	hookCheck  HookCheck
	reentrancy Reentrancy

	observersMu  sync.Mutex
	observers    []observer
	nextObserver uint64

	passes     atomic.Uint64
	failed     atomic.Uint64
	notFound   atomic.Uint64
	mismatches atomic.Uint64
}

type observer struct {
	id uint64
	fn func(RenderEvent)
}

type renderRequest struct {
	component string
	key       string
	mount     MountPoint
	props     Props
	trigger   Trigger
}

// NewRuntime creates a Runtime with an empty registry and store.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		registry:  NewRegistry(),
		store:     NewStateStore(),
		logger:    slog.Default(),
		hookCheck: HookCheckWarn,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the runtime's component registry.
func (r *Runtime) Registry() *Registry {
	return r.registry
}

// Store returns the runtime's instance state store.
func (r *Runtime) Store() *StateStore {
	return r.store
}

// Register stores fn under name, replacing any earlier registration.
// Existing state for name is kept and presented positionally to fn.
func (r *Runtime) Register(name string, fn RenderFunc) {
	r.registry.Register(name, fn)
	r.logger.Debug("component registered", slog.String("component", name))
}

// Render runs one pass of the component registered under name and replaces
// mount's content with its output. Nil props render as empty props.
//
// An unregistered name is reported to the error handler and returned as
// ErrComponentNotRegistered; the mount point and the state store are left
// untouched. Other failures are reported and returned the same way.
func (r *Runtime) Render(name string, mount MountPoint, props Props, opts ...RenderOption) error {
	req := renderRequest{
		component: name,
		key:       name,
		mount:     mount,
		props:     props.Clone(),
		trigger:   TriggerExternal,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return r.render(req)
}

// Rerender re-runs the instance stored under key with the mount point and
// props of its last successful pass.
func (r *Runtime) Rerender(key string) error {
	inst, mount, props, ok := r.store.last(key)
	if !ok {
		err := &errors.UIError{
			Op:       "core.Rerender",
			Kind:     errors.KindState,
			Instance: key,
			Err:      errors.ErrInstanceNotFound,
		}
		r.reportError(err)
		return err
	}
	return r.render(renderRequest{
		component: inst.component,
		key:       key,
		mount:     mount,
		props:     props,
		trigger:   TriggerExternal,
	})
}

// OnRender registers fn to be called after every pass. It returns a
// function that unregisters it.
func (r *Runtime) OnRender(fn func(RenderEvent)) func() {
	if fn == nil {
		return func() {}
	}
	r.observersMu.Lock()
	defer r.observersMu.Unlock()
	r.nextObserver++
	id := r.nextObserver
	r.observers = append(r.observers, observer{id: id, fn: fn})
	return func() {
		r.observersMu.Lock()
		defer r.observersMu.Unlock()
		r.observers = slices.DeleteFunc(r.observers, func(o observer) bool { return o.id == id })
	}
}

// Close tears the runtime down: every registration, instance and observer
// is dropped. Setters captured before Close become no-ops that report
// ErrComponentNotRegistered. The runtime may be reused afterwards.
func (r *Runtime) Close() {
	r.registry.reset()
	r.store.reset()
	r.observersMu.Lock()
	r.observers = nil
	r.observersMu.Unlock()
	r.logger.Debug("runtime closed")
}

// Recover reports a panic in the calling goroutine to the runtime's error
// handler and swallows it. Use it directly in a defer around code that runs
// event handlers outside a render pass:
//
//	defer rt.Recover("app.onClick")
func (r *Runtime) Recover(op string) {
	if rec := recover(); rec != nil {
		errors.ReportPanicTo(r.errorHandler(), &errors.PanicError{
			Op:         op,
			Value:      rec,
			StackTrace: errors.CaptureStack(),
		})
	}
}

// Stats returns the runtime's counters.
func (r *Runtime) Stats() Stats {
	return Stats{
		Passes:     r.passes.Load(),
		Failed:     r.failed.Load(),
		NotFound:   r.notFound.Load(),
		Mismatches: r.mismatches.Load(),
	}
}

// set writes a slot on behalf of a Setter and re-renders its instance.
func (r *Runtime) set(b binding, index int, v any) {
	r.store.write(b.inst, index, v)
	r.logger.Debug("state set",
		slog.String("component", b.component),
		slog.String("instance", b.key),
		slog.Int("slot", index))
	// Failures are reported inside render; a Setter has no error channel.
	_ = r.render(renderRequest{
		component: b.component,
		key:       b.key,
		mount:     b.mount,
		props:     b.props,
		trigger:   TriggerState,
	})
}

func (r *Runtime) render(req renderRequest) error {
	fn, ok := r.registry.Lookup(req.component)
	if !ok {
		r.notFound.Add(1)
		err := &errors.UIError{
			Op:        "core.Render",
			Kind:      errors.KindRegistry,
			Component: req.component,
			Instance:  req.key,
			Err:       errors.ErrComponentNotRegistered,
		}
		r.reportError(err)
		return err
	}
	if req.mount == nil {
		err := &errors.UIError{
			Op:        "core.Render",
			Kind:      errors.KindMount,
			Component: req.component,
			Instance:  req.key,
			Err:       errors.ErrNilMountPoint,
		}
		r.reportError(err)
		return err
	}

	inst := r.store.Slots(req.key, req.component)
	depth := r.store.enter(inst)
	defer r.store.exit(inst)

	pass := xid.New().String()
	if depth > 1 && r.reentrancy == ReentrancyReject {
		err := &errors.UIError{
			Op:        "core.Render",
			Kind:      errors.KindRender,
			Component: req.component,
			Instance:  req.key,
			Err:       errors.ErrReentrantRender,
		}
		r.reportError(err)
		r.finish(req, pass, 0, 0, time.Time{}, err)
		return err
	}

	start := time.Now()
	ctx := newRenderContext(r, inst, req, pass)
	node, renderErr := r.invoke(fn, ctx)
	if renderErr != nil {
		errors.ReportRenderErrorTo(r.errorHandler(), renderErr)
		r.finish(req, pass, ctx.cursor, 0, start, renderErr)
		return renderErr
	}

	if prev, err := r.checkSlots(inst, req, ctx.cursor); err != nil && r.hookCheck == HookCheckStrict {
		r.store.rebase(inst, prev, ctx.cursor)
		r.finish(req, pass, ctx.cursor, 0, start, err)
		return err
	}

	req.mount.Clear()
	req.mount.Attach(node)
	passes := r.store.commit(inst, ctx.cursor, req.mount, req.props)
	r.finish(req, pass, ctx.cursor, passes, start, nil)
	return nil
}

// invoke runs fn, converting a panic into a RenderError. ctx is released
// on return either way.
func (r *Runtime) invoke(fn RenderFunc, ctx *RenderContext) (node *dom.Node, renderErr *errors.RenderError) {
	defer func() {
		ctx.release()
		if rec := recover(); rec != nil {
			renderErr = &errors.RenderError{
				Component:  ctx.component,
				Instance:   ctx.key,
				Pass:       ctx.pass,
				Recovered:  rec,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			if err, ok := rec.(error); ok {
				renderErr.Err = err
			}
		}
	}()
	return fn(ctx, ctx.props), nil
}

// checkSlots compares the slot count of this pass against the previous
// committed pass of the same instance and returns the previous count.
func (r *Runtime) checkSlots(inst *Instance, req renderRequest, count int) (int, error) {
	if r.hookCheck == HookCheckOff {
		return -1, nil
	}
	prev := r.store.hookCount(inst)
	if prev < 0 || prev == count {
		return prev, nil
	}
	r.mismatches.Add(1)
	err := &errors.UIError{
		Op:        "core.Render",
		Kind:      errors.KindState,
		Component: req.component,
		Instance:  req.key,
		Err: &errors.HookMismatchError{
			Component: req.component,
			Instance:  req.key,
			Previous:  prev,
			Current:   count,
			Err:       errors.ErrHookCountMismatch,
		},
	}
	r.reportError(err)
	return prev, err
}

func (r *Runtime) finish(req renderRequest, pass string, slots int, passes uint64, start time.Time, err error) {
	var elapsed time.Duration
	if !start.IsZero() {
		elapsed = time.Since(start)
	}
	if err != nil {
		r.failed.Add(1)
	} else {
		r.passes.Add(1)
		r.logger.Debug("render pass",
			slog.String("component", req.component),
			slog.String("instance", req.key),
			slog.String("pass", pass),
			slog.String("trigger", req.trigger.String()),
			slog.Int("slots", slots),
			slog.Duration("elapsed", elapsed))
	}

	event := RenderEvent{
		Pass:      pass,
		Component: req.component,
		Instance:  req.key,
		Trigger:   req.trigger,
		Slots:     slots,
		Passes:    passes,
		Duration:  elapsed,
		Err:       err,
	}
	r.observersMu.Lock()
	observers := slices.Clone(r.observers)
	r.observersMu.Unlock()
	for _, o := range observers {
		o.fn(event)
	}
}

func (r *Runtime) errorHandler() errors.ErrorHandler {
	if r.handler != nil {
		return r.handler
	}
	return errors.Handler()
}

func (r *Runtime) reportError(err *errors.UIError) {
	errors.ReportTo(r.errorHandler(), err)
}
