// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assembly

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/webapi/clients/assembly/operations"
	"cloudeng.io/webapi/clients/assembly/operations/apitokens"
	"cloudeng.io/webapi/clients/assembly/records"
)

// Query specifies a request to a service.
type Query struct {
	Service  string
	Age      int        // Omitted if zero.
	PageSize int        // Defaults to 100.
	Params   url.Values // Additional, service specific, parameters.
}

func (q Query) pageSize() int {
	if q.PageSize > 0 {
		return q.PageSize
	}
	return 100
}

// BillsQuery returns the Query for the legislative bills introduced
// in the specified assembly.
func BillsQuery(age int) Query {
	return Query{
		Service:  BillsService,
		Age:      age,
		PageSize: BillsPageSize,
		Params:   url.Values{"BILL_KIND": {BillKindLaw}},
	}
}

// VotesQuery returns the Query for the plenary votes on a bill.
func VotesQuery(age int, billID string) Query {
	return Query{
		Service:  VotesService,
		Age:      age,
		PageSize: VotesPageSize,
		Params:   url.Values{"BILL_ID": {billID}},
	}
}

// Client provides access to the API's paginated services.
type Client struct {
	serviceURL string
	retry      operations.RetryPolicy
	endpoint   *operations.Endpoint[json.RawMessage]
}

// Option represents an option to NewClient.
type Option func(*options)

type options struct {
	serviceURL string
	retry      operations.RetryPolicy
	epOpts     []operations.Option
}

// WithServiceURL sets the base URL for all services, the default is
// DefaultServiceURL.
func WithServiceURL(u string) Option {
	return func(o *options) {
		o.serviceURL = strings.TrimSuffix(u, "/")
	}
}

// WithRetryPolicy sets the retry policy applied to each page, the
// Retryable and OnRetry fields are ignored.
func WithRetryPolicy(p operations.RetryPolicy) Option {
	return func(o *options) {
		o.retry = p
	}
}

// WithEndpointOptions specifies options for the underlying
// operations.Endpoint, eg. rate control.
func WithEndpointOptions(opts ...operations.Option) Option {
	return func(o *options) {
		o.epOpts = append(o.epOpts, opts...)
	}
}

// NewClient returns a new Client. The API key is obtained for every
// request from the context via APIKey.
func NewClient(opts ...Option) *Client {
	o := options{
		serviceURL: DefaultServiceURL,
		retry:      operations.DefaultRetryPolicy(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	epOpts := []operations.Option{
		operations.WithHTTPClient(&http.Client{Timeout: DefaultRequestTimeout}),
		operations.WithAuth(APIKey{TokenID: TokenID}),
	}
	epOpts = append(epOpts, o.epOpts...)
	return &Client{
		serviceURL: o.serviceURL,
		retry:      o.retry,
		endpoint:   operations.NewEndpoint[json.RawMessage](epOpts...),
	}
}

func (c *Client) pageURL(q Query, cursor Cursor) string {
	v := url.Values{}
	for k, vals := range q.Params {
		v[k] = vals
	}
	v.Set("Type", "json")
	v.Set("pIndex", strconv.Itoa(cursor.Index))
	v.Set("pSize", strconv.Itoa(cursor.Size))
	if q.Age > 0 {
		v.Set("AGE", strconv.Itoa(q.Age))
	}
	return c.serviceURL + "/" + q.Service + "?" + v.Encode()
}

func (c *Client) get(ctx context.Context, service, u string) (Page, error) {
	raw, _, err := c.endpoint.Get(ctx, u)
	if err != nil {
		if errors.Is(err, apitokens.ErrCredentialUnavailable) {
			return Page{}, err
		}
		var operr *operations.Error
		if errors.As(err, &operr) && operr.Completed() {
			return Page{}, &FetchError{Kind: MalformedResponse, Service: service, Err: err}
		}
		return Page{}, &FetchError{Kind: TransportError, Service: service, Err: err}
	}
	return DecodePage(service, raw)
}

// Fetch returns exactly one logical page. The page is retried, according
// to the client's retry policy, on transport errors and malformed
// responses but not on upstream errors. A page with no rows indicates
// that there is no more data. Errors returned by the API, or encountered
// whilst accessing it, are of type *FetchError.
func (c *Client) Fetch(ctx context.Context, q Query, cursor Cursor) (Page, error) {
	u := c.pageURL(q, cursor)
	policy := c.retry
	policy.Retryable = Retryable
	policy.OnRetry = func(ctx context.Context, attempt int, err error) {
		ctxlog.Info(ctx, "assembly: retrying", "service", q.Service, "page", cursor.Index, "attempt", attempt, "err", err)
	}
	var page Page
	attempts, err := operations.Retry(ctx, policy, func(ctx context.Context, _ int) error {
		var err error
		page, err = c.get(ctx, q.Service, u)
		return err
	})
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			fe.Attempts = attempts
		}
		ctxlog.Info(ctx, "assembly: fetch failed", "service", q.Service, "page", cursor.Index, "attempts", attempts, "err", err)
		return Page{}, err
	}
	return page, nil
}

// FetchPage is like Fetch but returns only the page's rows.
func (c *Client) FetchPage(ctx context.Context, q Query, cursor Cursor) ([]records.Record, error) {
	page, err := c.Fetch(ctx, q, cursor)
	return page.Rows, err
}

// FetchAll fetches all pages for the query starting at page 1, stopping
// after a page with fewer rows than the page size, an empty page or
// the first error. The records fetched before an error are returned
// along with the error.
func (c *Client) FetchAll(ctx context.Context, q Query) ([]records.Record, error) {
	size := q.pageSize()
	scanner := operations.NewScanner[Page](operations.PaginatorFunc[Page](
		func(ctx context.Context, index int) (Page, bool, error) {
			page, err := c.Fetch(ctx, q, Cursor{Index: index, Size: size})
			return page, len(page.Rows) < size, err
		}))
	var all []records.Record
	for scanner.Scan(ctx) {
		page := scanner.Response()
		all = append(all, page.Rows...)
		ctxlog.Debug(ctx, "assembly: page", "service", q.Service, "page", scanner.Index(), "rows", len(page.Rows), "total", page.TotalCount)
	}
	if all == nil {
		all = []records.Record{}
	}
	return all, scanner.Err()
}
