package errors

import (
	"fmt"
)

// Error enriches the error interface with an HTTP-like code, so the
// transport layers can map an error to a status without inspecting its text.
type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode is used when no code is given. It is set to 500,
// Internal Server Error.
var DefaultCode = 500

type codedError struct {
	code  int
	msg   string
	cause *codedError
}

func (err *codedError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *codedError) Code() int {
	return err.code
}

func (err *codedError) Message() string {
	return err.msg
}

func (err *codedError) Cause() error {
	return err.cause
}

type ErrorEnricher func(error) error

func WithCode(code int) ErrorEnricher {
	return func(err error) error {
		switch err := err.(type) {
		case *codedError:
			err.code = code
			return err
		}

		// default
		return &codedError{
			msg:   err.Error(),
			code:  code,
			cause: nil,
		}
	}
}

func WithCause(cause error) ErrorEnricher {
	var codedCause *codedError
	switch cause := cause.(type) {
	case *codedError:
		codedCause = cause
	default:
		codedCause = &codedError{msg: cause.Error(), code: DefaultCode, cause: nil}
	}

	return func(err error) error {
		if cErr, ok := err.(*codedError); ok {
			cErr.cause = codedCause
			return cErr
		}

		return &codedError{
			msg:   err.Error(),
			code:  codedCause.code,
			cause: codedCause,
		}
	}
}

func New(msg string, fs ...ErrorEnricher) error {
	var err error
	err = &codedError{
		msg:   msg,
		code:  DefaultCode,
		cause: nil,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}

// Code extracts the code of err, falling back on DefaultCode for plain
// errors.
func Code(err error) int {
	if err, ok := err.(Error); ok {
		return err.Code()
	}
	return DefaultCode
}

// Is tells whether err carries the given code.
func Is(err error, code int) bool {
	return err != nil && Code(err) == code
}
