package api

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when a call produced neither a response nor an error.
var ErrEmptyResponse = errors.New("empty response")

// ErrorKind classifies why a remote call failed.
type ErrorKind int

const (
	// KindNetwork means the request never produced an HTTP response.
	KindNetwork ErrorKind = iota
	// KindHTTPStatus means the server answered with a non-200 status.
	KindHTTPStatus
	// KindParse means a 200 response body could not be decoded.
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by clients and store actions.
type Error struct {
	Kind       ErrorKind
	Op         string
	StatusCode int    // set for KindHTTPStatus
	Body       string // raw upstream body for KindHTTPStatus
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s: API returned status %d: %s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NetworkError wraps a transport failure.
func NetworkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// ParseError wraps a decoding failure.
func ParseError(op string, err error) *Error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}

// StatusError builds the error for a non-200 response.
func StatusError[T any](op string, resp *Response[T]) *Error {
	return &Error{
		Kind:       KindHTTPStatus,
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}
}

// KindOf returns the kind of err when it is an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}
