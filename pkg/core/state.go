package core

import (
	"fmt"
	"reflect"

	"github.com/go-drift/tinyui/pkg/errors"
)

// Setter overwrites one state slot and synchronously re-renders the
// instance that declared it.
type Setter[T any] func(T)

// UseState declares the next state slot of the rendering instance and
// returns its current value together with a Setter for it. initial is stored
// only when the slot has never been initialized.
//
// UseState panics with ErrNoActiveRenderContext when ctx is nil or its pass
// has returned, and with ErrHookTypeMismatch when the slot holds a value of
// another type.
func UseState[T any](ctx *RenderContext, initial T) (T, Setter[T]) {
	return useState(ctx, "core.UseState", func() T { return initial })
}

// UseStateFunc is like UseState but computes the initial value lazily, only
// on the pass that first initializes the slot.
func UseStateFunc[T any](ctx *RenderContext, init func() T) (T, Setter[T]) {
	return useState(ctx, "core.UseStateFunc", init)
}

func useState[T any](ctx *RenderContext, op string, init func() T) (T, Setter[T]) {
	ctx.mustBeActive(op)

	rt := ctx.runtime
	index := ctx.cursor
	raw, ok := rt.store.read(ctx.inst, index)
	if !ok {
		v := init()
		rt.store.write(ctx.inst, index, v)
		raw = v
	}

	var value T
	if raw != nil {
		typed, ok := raw.(T)
		if !ok {
			panic(&errors.HookMismatchError{
				Component: ctx.component,
				Instance:  ctx.key,
				Slot:      index,
				Stored:    fmt.Sprintf("%T", raw),
				Requested: reflect.TypeFor[T]().String(),
				Err:       errors.ErrHookTypeMismatch,
			})
		}
		value = typed
	}
	ctx.cursor++

	b := binding{
		inst:      ctx.inst,
		key:       ctx.key,
		component: ctx.component,
		mount:     ctx.mount,
		props:     ctx.props,
	}
	return value, func(v T) {
		rt.set(b, index, v)
	}
}

// binding is what a Setter remembers about the pass that created it.
type binding struct {
	inst      *Instance
	key       string
	component string
	mount     MountPoint
	props     Props
}
