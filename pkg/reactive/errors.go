package reactive

import (
	"errors"
	"fmt"
)

// ErrDisposed is the cancellation cause of a disposed Owner's context, and
// so the error of a Task still running when its owner is disposed.
var ErrDisposed = errors.New("weft: owner disposed")

// ErrFlushLimit is reported when a queue keeps re-triggering itself and a
// flush fails to settle within maxFlushRounds rounds.
var ErrFlushLimit = errors.New("weft: effect flush did not settle")

// ErrTaskCancelled is the error a Task resolves with when it is cancelled
// before its function returns.
var ErrTaskCancelled = errors.New("weft: task cancelled")

// EffectError wraps a failure raised by an effect callback, either a returned
// error (async effects) or a recovered panic.
type EffectError struct {
	EffectID uint64
	OwnerID  uint64
	Schedule Schedule

	// Panic is the recovered panic value, nil when Err came from a return.
	Panic any
	Err   error
}

// Error implements the error interface.
func (e *EffectError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("weft: effect %d (%s) panicked: %v", e.EffectID, e.Schedule, e.Panic)
	}
	return fmt.Sprintf("weft: effect %d (%s) failed: %v", e.EffectID, e.Schedule, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EffectError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panic outside an effect body,
// for example in a cleanup or a task continuation.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("weft: panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// recovered converts a recovered value into an error.
func recovered(v any) error {
	if err, ok := v.(error); ok {
		return &PanicError{Value: err}
	}
	return &PanicError{Value: v}
}
