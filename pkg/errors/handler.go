package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerBox lets a nil-able interface live in an atomic.Pointer.
type handlerBox struct{ h ErrorHandler }

var global atomic.Pointer[handlerBox]

func init() {
	SetHandler(nil)
}

// SetHandler replaces the process-wide error handler used by Report and by
// runtimes created without WithErrorHandler. Nil restores a LogHandler on
// slog.Default().
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	global.Store(&handlerBox{h: h})
}

// Handler returns the process-wide error handler.
func Handler() ErrorHandler {
	return global.Load().h
}

// Report sends err to the process-wide handler.
func Report(err *UIError) {
	ReportTo(Handler(), err)
}

// ReportTo stamps err if needed and hands it to h. A nil h or err is ignored.
func ReportTo(h ErrorHandler, err *UIError) {
	if h == nil || err == nil {
		return
	}
	stamp(&err.Timestamp)
	h.HandleError(err)
}

// ReportPanic sends err to the process-wide handler.
func ReportPanic(err *PanicError) {
	ReportPanicTo(Handler(), err)
}

// ReportPanicTo stamps err if needed and hands it to h.
func ReportPanicTo(h ErrorHandler, err *PanicError) {
	if h == nil || err == nil {
		return
	}
	stamp(&err.Timestamp)
	h.HandlePanic(err)
}

// ReportRenderError sends err to the process-wide handler.
func ReportRenderError(err *RenderError) {
	ReportRenderErrorTo(Handler(), err)
}

// ReportRenderErrorTo stamps err if needed and hands it to h.
func ReportRenderErrorTo(h ErrorHandler, err *RenderError) {
	if h == nil || err == nil {
		return
	}
	stamp(&err.Timestamp)
	h.HandleRenderError(err)
}

func stamp(ts *time.Time) {
	if ts.IsZero() {
		*ts = time.Now()
	}
}

// Recover reports a panic in the calling goroutine to the process-wide
// handler and swallows it. Use it directly in a defer:
//
//	defer errors.Recover("mount.Dispatch")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// CaptureStack formats the stack of its caller's caller, one
// "function\n\tfile:line" entry per frame, at most 32 frames deep.
func CaptureStack() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
	}
	return sb.String()
}
