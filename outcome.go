// SPDX-License-Identifier: GPL-3.0-or-later

package minestat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/molanp/minestat/connerr"
)

// ConnectionOutcome is the closed set of results of a dialect attempt.
type ConnectionOutcome int

const (
	// OutcomeUnknown means the response was missing fields or malformed.
	//
	// The server may still be up; it just does not speak this dialect.
	OutcomeUnknown = ConnectionOutcome(iota)

	// OutcomeSuccess means the dialect's minimum field set was decoded.
	OutcomeSuccess

	// OutcomeConnectionFailed means the host refused or was unreachable.
	//
	// This outcome stops probing.
	OutcomeConnectionFailed

	// OutcomeTimedOut means the attempt deadline expired while waiting for bytes.
	OutcomeTimedOut
)

// String returns the status label: "Success", "Fail", "Timeout" or "Unknown".
func (o ConnectionOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeConnectionFailed:
		return "Fail"
	case OutcomeTimedOut:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (o ConnectionOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Errors wrapped by [*AttemptError] when a response does not decode.
var (
	// ErrBadMarker indicates an unexpected leading marker byte.
	ErrBadMarker = errors.New("unexpected marker byte")

	// ErrShortResponse indicates a truncated frame or too few fields.
	ErrShortResponse = errors.New("response too short")

	// ErrMissingField indicates a required field is empty or malformed.
	ErrMissingField = errors.New("missing or malformed field")
)

// AttemptError is the failure of a single dialect attempt.
//
// No other error type crosses the parser boundary: the cause is kept for
// the diagnostic channel while Outcome drives probing.
type AttemptError struct {
	// Dialect is the dialect that was attempted.
	Dialect Dialect

	// Outcome is never [OutcomeSuccess].
	Outcome ConnectionOutcome

	// Err is the underlying fault.
	Err error
}

// Error implements error.
func (e *AttemptError) Error() string {
	return fmt.Sprintf("minestat: %s: %s: %v", e.Dialect, e.Outcome, e.Err)
}

// Unwrap returns the underlying fault.
func (e *AttemptError) Unwrap() error {
	return e.Err
}

// OutcomeOf maps the error returned by an attempt to its [ConnectionOutcome].
//
// A nil error is [OutcomeSuccess]. Errors other than [*AttemptError] are
// [OutcomeUnknown].
func OutcomeOf(err error) ConnectionOutcome {
	if err == nil {
		return OutcomeSuccess
	}
	var attemptErr *AttemptError
	if errors.As(err, &attemptErr) {
		return attemptErr.Outcome
	}
	return OutcomeUnknown
}

// newUnknownError reports a decoding failure.
func newUnknownError(d Dialect, sentinel error, format string, args ...any) *AttemptError {
	return &AttemptError{
		Dialect: d,
		Outcome: OutcomeUnknown,
		Err:     fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// newIOError reports a read or write failure during the handshake.
func newIOError(ctx context.Context, d Dialect, err error) *AttemptError {
	return &AttemptError{Dialect: d, Outcome: classifyIOError(ctx, err), Err: err}
}

// newConnectError reports a failure to open the connection.
func newConnectError(d Dialect, err error) *AttemptError {
	outcome := OutcomeUnknown
	if connerr.IsConnectionFailure(err) {
		outcome = OutcomeConnectionFailed
	}
	return &AttemptError{Dialect: d, Outcome: outcome, Err: err}
}

// classifyIOError maps a handshake I/O error to [OutcomeTimedOut] or [OutcomeUnknown].
//
// A conn closed by [DeadlineWatchFunc] because the attempt context
// expired also counts as a timeout.
func classifyIOError(ctx context.Context, err error) ConnectionOutcome {
	var netErr net.Error
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimedOut
	case errors.As(err, &netErr) && netErr.Timeout():
		return OutcomeTimedOut
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return OutcomeTimedOut
	default:
		return OutcomeUnknown
	}
}
