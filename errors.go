// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assembly

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failure of a page fetch.
type ErrorKind int

const (
	// TransportError is a network failure, timeout or non-200 status.
	TransportError ErrorKind = iota
	// MalformedResponse is a response that is not valid JSON or
	// lacks the expected structure.
	MalformedResponse
	// UpstreamError is a well-formed response carrying an error code.
	UpstreamError
)

func (k ErrorKind) String() string {
	switch k {
	case TransportError:
		return "transport error"
	case MalformedResponse:
		return "malformed response"
	case UpstreamError:
		return "upstream error"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// FetchError is returned for a failed page fetch.
type FetchError struct {
	Kind     ErrorKind
	Service  string
	Code     string // Set for UpstreamError.
	Message  string // Set for UpstreamError.
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == UpstreamError:
		return fmt.Sprintf("assembly: %v: %v: %v: %v", e.Service, e.Kind, e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("assembly: %v: %v: %v", e.Service, e.Kind, e.Err)
	}
	return fmt.Sprintf("assembly: %v: %v", e.Service, e.Kind)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether err is a FetchError that may succeed if
// retried, ie. transport errors and malformed responses.
func Retryable(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind != UpstreamError
}

func malformed(service string, format string, args ...any) *FetchError {
	return &FetchError{Kind: MalformedResponse, Service: service, Err: fmt.Errorf(format, args...)}
}
