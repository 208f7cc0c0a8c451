package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// CustomizedError carries a trace path, an i18n message key and the http status
// the boundary should answer with. The wrapped error is for logs only.
type CustomizedError struct {
	trace []string
	msg   string
	err   error
	code  int
}

func New(trace, msg string, err error) *CustomizedError {
	return &CustomizedError{
		trace: []string{trace},
		msg:   msg,
		err:   err,
		code:  http.StatusInternalServerError,
	}
}

// Trace prepends prefix to the trace of a CustomizedError, other errors are
// wrapped as internal errors.
func Trace(prefix string, err error) *CustomizedError {
	if err == nil {
		return nil
	}
	var ce *CustomizedError
	if errors.As(err, &ce) {
		ce.trace = append([]string{prefix}, ce.trace...)
		return ce
	}
	return New(prefix, "error.internal", err)
}

func (e *CustomizedError) Code(code int) *CustomizedError {
	e.code = code
	return e
}

func (e *CustomizedError) HttpCode() int {
	return e.code
}

func (e *CustomizedError) Message() string {
	return e.msg
}

func (e *CustomizedError) Origin() error {
	return e.err
}

func (e *CustomizedError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s", strings.Join(e.trace, "->"), e.msg)
	}
	return fmt.Sprintf("%s: %s, %s", strings.Join(e.trace, "->"), e.msg, e.err.Error())
}

func (e *CustomizedError) Unwrap() error {
	return e.err
}

// HttpCode returns the status of err, 500 for anything not customized.
func HttpCode(err error) int {
	var ce *CustomizedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return http.StatusInternalServerError
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
