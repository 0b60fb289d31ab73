package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-drift/tinyui/pkg/errors"
)

// HookCheck selects what the runtime does when a pass declares a different
// number of state slots than the previous pass of the same instance.
type HookCheck int

const (
	// HookCheckOff skips the comparison.
	HookCheckOff HookCheck = iota
	// HookCheckWarn reports ErrHookCountMismatch and still attaches the output.
	HookCheckWarn
	// HookCheckStrict reports ErrHookCountMismatch and fails the pass. The
	// mount point keeps its previous output. The instance adopts the new
	// slot count and drops any slot the failed pass initialized, so the
	// next pass with the same shape succeeds.
	HookCheckStrict
)

func (c HookCheck) String() string {
	switch c {
	case HookCheckOff:
		return "off"
	case HookCheckWarn:
		return "warn"
	case HookCheckStrict:
		return "strict"
	default:
		return fmt.Sprintf("HookCheck(%d)", int(c))
	}
}

// ParseHookCheck parses "off", "warn" or "strict".
func ParseHookCheck(s string) (HookCheck, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return HookCheckOff, nil
	case "", "warn":
		return HookCheckWarn, nil
	case "strict":
		return HookCheckStrict, nil
	}
	return HookCheckOff, fmt.Errorf("invalid hook check %q: must be off, warn or strict", s)
}

// Reentrancy selects how the runtime treats a render requested for an
// instance whose own pass is still on the stack, typically a Setter called
// from inside its render function.
type Reentrancy int

const (
	// ReentrancyNest runs the nested pass immediately. The outer pass then
	// finishes and attaches its own output last.
	ReentrancyNest Reentrancy = iota
	// ReentrancyReject refuses the nested pass with ErrReentrantRender. The
	// slot write still happens.
	ReentrancyReject
)

func (r Reentrancy) String() string {
	switch r {
	case ReentrancyNest:
		return "nest"
	case ReentrancyReject:
		return "reject"
	default:
		return fmt.Sprintf("Reentrancy(%d)", int(r))
	}
}

// ParseReentrancy parses "nest" or "reject".
func ParseReentrancy(s string) (Reentrancy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nest":
		return ReentrancyNest, nil
	case "reject":
		return ReentrancyReject, nil
	}
	return ReentrancyNest, fmt.Errorf("invalid reentrancy %q: must be nest or reject", s)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithErrorHandler routes the runtime's errors to h instead of the global
// errors handler.
func WithErrorHandler(h errors.ErrorHandler) Option {
	return func(r *Runtime) {
		r.handler = h
	}
}

// WithLogger sets the logger used for pass tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHookCheck sets the slot count policy. The default is HookCheckWarn.
func WithHookCheck(c HookCheck) Option {
	return func(r *Runtime) {
		r.hookCheck = c
	}
}

// WithReentrancy sets the reentrancy policy. The default is ReentrancyNest.
func WithReentrancy(p Reentrancy) Option {
	return func(r *Runtime) {
		r.reentrancy = p
	}
}

// RenderOption configures a single Render call.
type RenderOption func(*renderRequest)

// WithInstanceKey stores the instance's state under key instead of the
// component name.
func WithInstanceKey(key string) RenderOption {
	return func(req *renderRequest) {
		if key != "" {
			req.key = key
		}
	}
}
