package util

import (
	"errors"
	"fmt"
)

type ErrorCode uint

const (
	ErrUnknown ErrorCode = iota
	ErrInternalServerError
	ErrNotFound
	ErrBadParamInput
	ErrCorruptedTile
	ErrInvalidProfile
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInternalServerError:
		return "internal"
	case ErrNotFound:
		return "not found"
	case ErrBadParamInput:
		return "bad input"
	case ErrCorruptedTile:
		return "corrupted tile"
	case ErrInvalidProfile:
		return "invalid profile"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a message and a code callers can branch on.
type Error struct {
	orig error
	msg  string
	code ErrorCode
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() ErrorCode {
	return e.code
}

func WrapErrorf(orig error, code ErrorCode, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func NewErrorf(code ErrorCode, format string, a ...interface{}) error {
	return WrapErrorf(nil, code, format, a...)
}

// CodeOf returns the code of the outermost *Error in err's chain, ErrUnknown otherwise.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return ErrUnknown
}

func IsCode(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.code == code {
			return true
		}
		err = e.orig
	}
	return false
}
