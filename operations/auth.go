// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package operations

import (
	"context"
	"net/http"
)

// Auth represents an authorization mechanism.
type Auth interface {
	// WithAuthorization adds an authorization header, query parameter or
	// other required authorization information to the provided http.Request.
	WithAuthorization(context.Context, *http.Request) error
}

// QueryParameterAuth implements Auth for APIs that expect their key as
// a URL query parameter rather than a header.
type QueryParameterAuth struct {
	// Parameter is the name of the query parameter, eg. KEY.
	Parameter string
	// Key returns the value to use, it is called for every request.
	Key func(context.Context) (string, error)
}

// WithAuthorization implements Auth.
func (qa QueryParameterAuth) WithAuthorization(ctx context.Context, req *http.Request) error {
	key, err := qa.Key(ctx)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	q.Set(qa.Parameter, key)
	req.URL.RawQuery = q.Encode()
	return nil
}
