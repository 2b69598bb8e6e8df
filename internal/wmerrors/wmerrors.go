// Package wmerrors tags errors with the kind taxonomy spec.md §7 defines,
// so callers at the reducer/IPC boundary can decide how to react (log and
// drop, roll back, retry, or surface to the user) without string-matching
// error messages. Built on plain fmt.Errorf/%w wrapping: this package adds
// exactly one Kind field on top of that, not a parallel error hierarchy.
package wmerrors

import (
	"errors"
	"fmt"
)

// Kind is one of spec.md §7's error kinds.
type Kind string

const (
	// ConfigInvalid: surface to the user via an error dialog on startup;
	// on reload, the previous config is kept and the error is returned to
	// the command's caller; no event is published for it.
	ConfigInvalid Kind = "config_invalid"

	// WindowHandleGone: the OS window a command/event refers to has been
	// destroyed. Log and drop the operation; proceed with the rest of
	// the batch.
	WindowHandleGone Kind = "window_handle_gone"

	// TreeInvariantViolation: a mutation would break one of spec.md
	// §3.3's invariants. Roll back to the pre-mutation state and log.
	TreeInvariantViolation Kind = "tree_invariant_violation"

	// OSCallFailedTransient: retry once after refreshing the underlying
	// handle; if still failing, log a warning and continue.
	OSCallFailedTransient Kind = "os_call_failed_transient"

	// OSCallFailedFatal: e.g. hook installation fails on startup; abort
	// the WM with a user-visible error dialog.
	OSCallFailedFatal Kind = "os_call_failed_fatal"

	// IPCProtocol: malformed request; return an error response with the
	// original message echoed, never closing the connection.
	IPCProtocol Kind = "ipc_protocol"
)

// Error wraps a cause with the kind of reaction it calls for.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New wraps cause with kind. Returns nil if cause is nil, so call sites
// can write `return wmerrors.New(wmerrors.WindowHandleGone, err)` without
// a separate nil check.
func New(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: cause}
}

// Newf is New with a formatted cause, mirroring fmt.Errorf's %w support.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Cause: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// *Error, reporting ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
