// Package core provides the component runtime: registration, per-instance
// state slots and the synchronous render engine.
//
// A component is a named RenderFunc. Rendering it into a MountPoint runs the
// function once, replaces the mount point's content with the returned node,
// and keeps the instance's state slots for the next pass.
//
// # Render Functions
//
// Render functions receive an explicit *RenderContext. State is declared
// through it, in order:
//
//	rt := core.NewRuntime()
//	rt.Register("Counter", func(ctx *core.RenderContext, props core.Props) *dom.Node {
//	    count, setCount := core.UseState(ctx, 0)
//	    return dom.El("div",
//	        dom.El("p", dom.Text(strconv.Itoa(count))),
//	        dom.Button("+1", func() { setCount(count + 1) }),
//	    )
//	})
//	rt.Render("Counter", container, nil)
//
// # Slot Order
//
// Slots are identified by call order. A render function must call UseState
// the same number of times, in the same order, on every pass. The runtime
// checks the slot count between passes (see HookCheck) but cannot detect a
// reordering that keeps the count.
//
// # Re-rendering
//
// Calling a Setter overwrites its slot and re-renders the instance
// immediately on the caller's stack, using the mount point and props of the
// pass that declared it. N setter calls produce N passes; nothing is batched.
//
// # Instances
//
// State is keyed by instance key, which defaults to the component name, so
// two mounts of the same component share state. Pass WithInstanceKey to
// Render to give a mount its own slots.
//
// A Runtime is NOT thread-safe for rendering. Drive it from one goroutine;
// only the read-only inspection methods may be called concurrently.
package core
