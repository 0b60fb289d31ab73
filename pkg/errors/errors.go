// Package errors provides structured error handling for the tinyui runtime.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Sentinel conditions. Structured errors wrap these so callers can match
// with errors.Is.
var (
	// ErrComponentNotRegistered is reported when Render is called with a
	// name that has no registered render function.
	ErrComponentNotRegistered = stderrors.New("component not registered")
	// ErrNoActiveRenderContext is raised when the state primitive is used
	// outside of a render pass.
	ErrNoActiveRenderContext = stderrors.New("no active render context")
	// ErrHookCountMismatch is reported when a render function declares a
	// different number of state slots than on its previous pass.
	ErrHookCountMismatch = stderrors.New("hook count mismatch")
	// ErrHookTypeMismatch is raised when a slot is read back as a different
	// type than the one stored in it.
	ErrHookTypeMismatch = stderrors.New("hook type mismatch")
	// ErrReentrantRender is reported when a render is requested for an
	// instance that is still mid-pass and the runtime rejects reentrancy.
	ErrReentrantRender = stderrors.New("reentrant render")
	// ErrNilMountPoint is reported when Render is given no mount point.
	ErrNilMountPoint = stderrors.New("nil mount point")
	// ErrInstanceNotFound is reported when an instance key has never
	// completed a render pass.
	ErrInstanceNotFound = stderrors.New("instance not found")
	// ErrMountPointNotFound is returned when a selector matches no mount point.
	ErrMountPointNotFound = stderrors.New("mount point not found")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindRegistry indicates a component lookup failure.
	KindRegistry
	// KindContext indicates misuse of a render context.
	KindContext
	// KindState indicates a state slot inconsistency.
	KindState
	// KindRender indicates a failure inside a render pass.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindMount indicates a mount point problem.
	KindMount
)

func (k ErrorKind) String() string {
	switch k {
	case KindRegistry:
		return "registry"
	case KindContext:
		return "context"
	case KindState:
		return "state"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindMount:
		return "mount"
	default:
		return "unknown"
	}
}

// UIError represents a structured error raised by the runtime.
type UIError struct {
	// Op is the operation that failed (e.g., "core.Render").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Component is the component name, if applicable.
	Component string
	// Instance is the instance key, if it differs from Component.
	Instance string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *UIError) Error() string {
	if e.Component != "" {
		if e.Instance != "" && e.Instance != e.Component {
			return fmt.Sprintf("%s [%s] component=%s instance=%s: %v", e.Op, e.Kind, e.Component, e.Instance, e.Err)
		}
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *UIError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "mount.Selection.RenderComponent").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// RenderError represents a failure while a render function was running.
type RenderError struct {
	// Component is the name of the component that failed.
	Component string
	// Instance is the instance key the pass was rendering.
	Instance string
	// Pass is the identifier of the failed render pass.
	Pass string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics that were not errors).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error in %s render: %v", e.Component, e.Err)
	}
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s render: %v", e.Component, e.Recovered)
	}
	return fmt.Sprintf("unknown error in %s render", e.Component)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// HookMismatchError describes slot drift between two passes of the same
// instance, or a slot read back with the wrong type.
type HookMismatchError struct {
	Component string
	Instance  string
	// Previous and Current are slot counts for ErrHookCountMismatch.
	Previous int
	Current  int
	// Slot, Stored and Requested are set for ErrHookTypeMismatch.
	Slot      int
	Stored    string
	Requested string
	Err       error
}

func (e *HookMismatchError) Error() string {
	if stderrors.Is(e.Err, ErrHookTypeMismatch) {
		return fmt.Sprintf("%s: %v: slot %d holds %s, requested %s",
			e.Component, e.Err, e.Slot, e.Stored, e.Requested)
	}
	return fmt.Sprintf("%s: %v: previous pass declared %d slots, this pass declared %d",
		e.Component, e.Err, e.Previous, e.Current)
}

func (e *HookMismatchError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *UIError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a render function fails.
	HandleRenderError(err *RenderError)
}
