package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/weft/pkg/reactive"
	"github.com/vango-dev/weft/pkg/render"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime   Category = "runtime"
	CategoryRender    Category = "render"
	CategoryHydration Category = "hydration"
	CategoryLive      Category = "live"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
	CategoryExport    Category = "export"
)

// WeftError is a structured error with a code, suggestion and documentation.
type WeftError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, render, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is code showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *WeftError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *WeftError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *WeftError) WithSuggestion(s string) *WeftError {
	e.Suggestion = s
	return e
}

// WithExample adds a code example to the error.
func (e *WeftError) WithExample(ex string) *WeftError {
	e.Example = ex
	return e
}

// WithDetail replaces the registered explanation.
func (e *WeftError) WithDetail(d string) *WeftError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *WeftError) Wrap(err error) *WeftError {
	e.Wrapped = err
	return e
}

// New creates a WeftError from a registered error code.
func New(code string) *WeftError {
	template, ok := Lookup(code)
	if !ok {
		return &WeftError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &WeftError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new WeftError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *WeftError {
	return &WeftError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a WeftError.
func FromError(err error, code string) *WeftError {
	if err == nil {
		return nil
	}
	var we *WeftError
	if stderrors.As(err, &we) {
		return we
	}
	return New(code).Wrap(err)
}

// FromRuntime maps an error returned by the reactive or render packages to
// its registered code. Render errors are matched before runtime errors.
// Unrecognized errors get fallback.
func FromRuntime(err error, fallback string) *WeftError {
	if err == nil {
		return nil
	}
	var (
		we   *WeftError
		comp *render.ComponentError
		pe   *reactive.PanicError
		eff  *reactive.EffectError
	)
	switch {
	case stderrors.As(err, &we):
		return we
	case stderrors.As(err, &comp):
		if stderrors.As(comp.Err, &pe) {
			return New("E021").Wrap(err)
		}
		return New("E020").Wrap(err)
	case stderrors.Is(err, render.ErrInstanceType):
		return New("E022").Wrap(err)
	case stderrors.Is(err, render.ErrNoDefaultRoot):
		return New("E023").Wrap(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return New("E024").Wrap(err)
	case stderrors.Is(err, reactive.ErrDisposed):
		return New("E001").Wrap(err)
	case stderrors.Is(err, reactive.ErrFlushLimit):
		return New("E002").Wrap(err)
	case stderrors.As(err, &eff):
		return New("E003").Wrap(err)
	case stderrors.Is(err, reactive.ErrTaskCancelled):
		return New("E004").Wrap(err)
	}
	return New(fallback).Wrap(err)
}
