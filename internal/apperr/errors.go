package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error so callers can tell "retry me" apart
// from "fix your input" apart from "contact support".
type Kind int

const (
	// KindValidation covers malformed input: bad month strings, missing
	// partner terms, withdrawal amounts exceeding the available profit share.
	KindValidation Kind = iota

	// KindNotFound covers unknown report/request/invitation ids, including
	// rows that exist but belong to a different organization.
	KindNotFound

	// KindInvalidTransition covers withdrawal state machine violations,
	// including double-processing attempts.
	KindInvalidTransition

	// KindUpstreamUnavailable covers an unreachable or timed-out ledger
	// data source or transfer provider. For process this means "outcome
	// unknown, re-check status before retrying".
	KindUpstreamUnavailable

	// KindTransferDeclined means the transfer provider explicitly refused
	// the transfer (insufficient funds, invalid destination). The request
	// stays approved for manual remediation.
	KindTransferDeclined

	// KindInternal is everything else: database failures, bugs.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindTransferDeclined:
		return "transfer_declined"
	default:
		return "internal"
	}
}

// Error is the engine's error type. Wrap the underlying cause so callers
// can still inspect it with errors.Is/As.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error without an underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindInternal if err is not an
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
