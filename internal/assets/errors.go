package assets

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a heuristic found no usable candidate.
var ErrNotFound = errors.New("no candidate found")

// FetchError covers unreachable hosts, timeouts, non-success statuses and oversized bodies.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a payload that is not a valid, parseable image.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseError reports HTML that is structurally unusable for a heuristic.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse (%s): %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reason classifies err into a short label used for logs and metrics.
func Reason(err error) string {
	var fetchErr *FetchError
	var decodeErr *DecodeError
	var parseErr *ParseError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &fetchErr):
		return "fetch_error"
	case errors.As(err, &decodeErr):
		return "decode_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
