package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindTimeout           Kind = "TIMEOUT"
	KindHTTP              Kind = "HTTP_ERROR"
	KindTransport         Kind = "TRANSPORT_ERROR"
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
	KindWrite             Kind = "WRITE_ERROR"
	KindSourceNotFound    Kind = "SOURCE_NOT_FOUND"
	KindSourceCorrupt     Kind = "SOURCE_CORRUPT"
	KindRecord            Kind = "RECORD_ERROR"
	KindLocked            Kind = "LOCKED"
	KindInvalidConfig     Kind = "INVALID_CONFIG"
)

// Error is the one error type every pipeline stage returns. Status is only
// set for KindHTTP.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Kind == KindHTTP && e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StackTrace() []byte {
	return e.Stack
}

func New(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		var ge *goerrors.Error
		if stderrors.As(err, &ge) {
			stack = ge.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

func Timeout(message string, err error) *Error {
	return New(KindTimeout, message, err)
}

func HTTP(status int, message string) *Error {
	e := New(KindHTTP, message, nil)
	e.Status = status
	return e
}

func Transport(message string, err error) *Error {
	return New(KindTransport, message, err)
}

func Malformed(message string, err error) *Error {
	return New(KindMalformedResponse, message, err)
}

func Write(message string, err error) *Error {
	return New(KindWrite, message, err)
}

func SourceNotFound(message string, err error) *Error {
	return New(KindSourceNotFound, message, err)
}

func SourceCorrupt(message string, err error) *Error {
	return New(KindSourceCorrupt, message, err)
}

func Record(message string, err error) *Error {
	return New(KindRecord, message, err)
}

func Locked(message string, err error) *Error {
	return New(KindLocked, message, err)
}

func InvalidConfig(message string, err error) *Error {
	return New(KindInvalidConfig, message, err)
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf returns the HTTP status carried by a KindHTTP error, or 0.
func StatusOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}
