package util

import (
	"errors"
	"fmt"
	"math"
)

// error

type Error struct {
	orig error
	msg  string
	code error
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

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// ErrorCode returns the classification code of err if it (or anything it wraps) was built with WrapErrorf.
func ErrorCode(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return nil
}

var (
	ErrMalformedBlock  = errors.New("malformed block")
	ErrUnsupported     = errors.New("unsupported block content")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrPersistenceSink = errors.New("persistence sink failed")
)

func DegreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}
