package core

import (
	"time"

	"github.com/go-drift/tinyui/pkg/errors"
)

// RenderContext is the handle a render function receives for one pass. It
// identifies the instance being rendered and carries the slot cursor that
// UseState advances. A context is only valid until its render function
// returns.
type RenderContext struct {
	runtime   *Runtime
	inst      *Instance
	component string
	key       string
	pass      string
	mount     MountPoint
	props     Props
	cursor    int
	active    bool
}

func newRenderContext(rt *Runtime, inst *Instance, req renderRequest, pass string) *RenderContext {
	return &RenderContext{
		runtime:   rt,
		inst:      inst,
		component: req.component,
		key:       req.key,
		pass:      pass,
		mount:     req.mount,
		props:     req.props,
		active:    true,
	}
}

// Component returns the name of the component being rendered.
func (c *RenderContext) Component() string {
	return c.component
}

// InstanceKey returns the key the instance's state is stored under.
func (c *RenderContext) InstanceKey() string {
	return c.key
}

// Pass returns the unique identifier of this render pass.
func (c *RenderContext) Pass() string {
	return c.pass
}

// Props returns the props of this pass.
func (c *RenderContext) Props() Props {
	return c.props
}

// Cursor returns the index the next UseState call will claim.
func (c *RenderContext) Cursor() int {
	return c.cursor
}

// Active reports whether the pass that owns c is still running.
func (c *RenderContext) Active() bool {
	return c != nil && c.active
}

func (c *RenderContext) release() {
	c.active = false
}

// mustBeActive panics with ErrNoActiveRenderContext when c is nil or its
// pass has finished.
func (c *RenderContext) mustBeActive(op string) {
	if c.Active() {
		return
	}
	err := &errors.UIError{
		Op:         op,
		Kind:       errors.KindContext,
		Err:        errors.ErrNoActiveRenderContext,
		StackTrace: errors.CaptureStack(),
		Timestamp:  time.Now(),
	}
	if c != nil {
		err.Component = c.component
		err.Instance = c.key
	}
	panic(err)
}
