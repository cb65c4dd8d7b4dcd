// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package operations provides support for invoking GET operations on
// JSON web APIs with rate control, backoff and bounded retries.
package operations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"cloudeng.io/net/ratecontrol"
)

// Endpoint represents an API endpoint whose response body is unmarshaled,
// by default using json.Unmarshal, into the specified type.
type Endpoint[T any] struct {
	options
}

// NewEndpoint returns a new endpoint for the specified type.
func NewEndpoint[T any](opts ...Option) *Endpoint[T] {
	ep := &Endpoint[T]{}
	for _, fn := range opts {
		fn(&ep.options)
	}
	if ep.rateController == nil {
		ep.rateController = ratecontrol.New()
	}
	if ep.unmarshal == nil {
		ep.unmarshal = json.Unmarshal
	}
	if ep.client == nil {
		ep.client = http.DefaultClient
	}
	return ep
}

// Get invokes a GET request on the specified url. It returns the
// unmarshaled response, the raw response body and any error.
func (ep *Endpoint[T]) Get(ctx context.Context, url string) (T, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		var result T
		return result, nil, err
	}
	t, _, b, err := ep.getWithResp(ctx, req)
	return t, b, err
}

// GetUsingRequest invokes a GET request using the supplied http.Request
// and also returns the http.Response.
func (ep *Endpoint[T]) GetUsingRequest(ctx context.Context, req *http.Request) (T, *http.Response, []byte, error) {
	return ep.getWithResp(ctx, req)
}

func (ep *Endpoint[T]) isBackoffCode(code int) bool {
	return slices.Contains(ep.backoffStatusCodes, code)
}

func (ep *Endpoint[T]) getWithResp(ctx context.Context, req *http.Request) (T, *http.Response, []byte, error) {
	var result T
	if err := ep.rateController.Wait(ctx); err != nil {
		return result, nil, nil, err
	}
	backoff := ep.rateController.Backoff()
	for {
		retries := backoff.Retries()
		if ep.auth != nil {
			if err := ep.auth.WithAuthorization(ctx, req); err != nil {
				return result, nil, nil, handleError(err, "", 0, retries)
			}
		}
		resp, err := ep.client.Do(req)
		if err != nil {
			return result, nil, nil, handleError(err, "", 0, retries)
		}
		if ep.isBackoffCode(resp.StatusCode) {
			drain(resp)
			if done, err := backoff.Wait(ctx, resp); done {
				return result, resp, nil, handleError(err, resp.Status, resp.StatusCode, retries)
			}
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return ep.handleResponse(resp, retries)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return result, resp, body, handleError(nil, resp.Status, resp.StatusCode, retries)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func (ep *Endpoint[T]) handleResponse(resp *http.Response, steps int) (T, *http.Response, []byte, error) {
	var result T
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return result, resp, body, handleError(err, resp.Status, resp.StatusCode, steps)
	}
	err = ep.unmarshal(body, &result)
	return result, resp, body, handleError(err, resp.Status, resp.StatusCode, steps)
}
