// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package operations

import (
	"fmt"
	"net/http"
)

// Error is returned by Endpoint for failed requests. Err is nil when
// the request completed but returned a status code other than
// http.StatusOK, StatusCode is zero when no response was received.
type Error struct {
	Err        error
	Status     string
	StatusCode int
	Attempts   int
}

func (err *Error) Error() string {
	if err.Err == nil {
		return err.Status
	}
	if len(err.Status) == 0 {
		return err.Err.Error()
	}
	return fmt.Sprintf("%v: %v", err.Status, err.Err)
}

// Unwrap returns the underlying error, if any.
func (err *Error) Unwrap() error {
	return err.Err
}

// Completed returns true if a response with http.StatusOK was received,
// ie. the error, if any, occurred while processing the response body.
func (err *Error) Completed() bool {
	return err.StatusCode == http.StatusOK
}

func handleError(err error, status string, statusCode int, attempts int) error {
	if err == nil && statusCode == http.StatusOK {
		return nil
	}
	return &Error{
		Err:        err,
		Status:     status,
		StatusCode: statusCode,
		Attempts:   attempts,
	}
}
