// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assembly

import (
	"context"
	"fmt"
	"net/http"

	"cloudeng.io/webapi/clients/assembly/operations"
	"cloudeng.io/webapi/clients/assembly/operations/apitokens"
)

// APIKey implements operations.Auth by adding the API key, obtained
// from the context using TokenID, as the KEY query parameter.
type APIKey struct {
	TokenID string
}

// WithAuthorization implements operations.Auth.
func (a APIKey) WithAuthorization(ctx context.Context, req *http.Request) error {
	return operations.QueryParameterAuth{Parameter: "KEY", Key: a.key}.WithAuthorization(ctx, req)
}

func (a APIKey) key(ctx context.Context) (string, error) {
	tok, ok := apitokens.TokenFromContext(ctx, a.TokenID)
	if !ok || len(tok.Token()) == 0 {
		return "", fmt.Errorf("%w: no %q token in context", apitokens.ErrCredentialUnavailable, a.TokenID)
	}
	return string(tok.Token()), nil
}
