package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError is a panic recovered at a library boundary. The golearn CSV
// reader panics on malformed cells and unreadable headers instead of
// returning an error; dataset.Load runs it under SafeExecute so callers see
// one of these.
type PanicError struct {
	Operation  string
	PanicValue interface{}
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("emailclf: panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap exposes the panic value when it is itself an error, so that a
// *strconv.NumError or *fs.PathError thrown by a parser matches Is/As.
func (e *PanicError) Unwrap() error {
	err, _ := e.PanicValue.(error)
	return err
}

// String appends the stack captured at recovery.
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Str("panic", fmt.Sprint(e.PanicValue)).
		Str("type", "PanicError")
}

// NewPanicError captures the current stack for a recovered value.
func NewPanicError(operation string, value interface{}) *PanicError {
	return &PanicError{
		Operation:  operation,
		PanicValue: value,
		StackTrace: string(debug.Stack()),
	}
}

// Recover must be deferred directly. It turns a panic into *err; when *err
// already holds an error, that error stays the cause and the PanicError is
// attached as a secondary error.
//
//	func parse(path string) (err error) {
//	    defer Recover(&err, "parse")
//	    ...
//	}
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	panicErr := NewPanicError(operation, r)
	if *err != nil {
		*err = errors.WithSecondaryError(errors.Wrapf(*err, "panic in %s: %v", operation, r), panicErr)
		return
	}
	*err = panicErr
}

// SafeExecute runs fn and returns its error, or a *PanicError if it panics.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
