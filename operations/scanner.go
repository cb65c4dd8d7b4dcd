// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package operations

import "context"

// Paginator is implemented by paginated APIs. Next is called with the
// 1-based index of the page to be fetched and returns that page and
// true if it is the last one.
type Paginator[T any] interface {
	Next(ctx context.Context, index int) (T, bool, error)
}

// PaginatorFunc is an adapter to allow the use of ordinary functions
// as Paginators.
type PaginatorFunc[T any] func(ctx context.Context, index int) (T, bool, error)

// Next implements Paginator.
func (f PaginatorFunc[T]) Next(ctx context.Context, index int) (T, bool, error) {
	return f(ctx, index)
}

// Scanner iterates over the pages returned by a Paginator, stopping
// after the last page or the first error.
type Scanner[T any] struct {
	paginator Paginator[T]
	index     int
	done      bool
	resp      T
	err       error
}

// NewScanner returns a new Scanner for the supplied Paginator.
func NewScanner[T any](paginator Paginator[T]) *Scanner[T] {
	return &Scanner[T]{paginator: paginator}
}

// Scan fetches the next page, it returns false when there are no more
// pages or an error was encountered.
func (s *Scanner[T]) Scan(ctx context.Context) bool {
	if s.done || s.err != nil {
		return false
	}
	s.index++
	s.resp, s.done, s.err = s.paginator.Next(ctx, s.index)
	return s.err == nil
}

// Response returns the page returned by the most recent call to Scan.
func (s *Scanner[T]) Response() T {
	return s.resp
}

// Index returns the 1-based index of the most recently fetched page.
func (s *Scanner[T]) Index() int {
	return s.index
}

// Err returns the error, if any, encountered by Scan.
func (s *Scanner[T]) Err() error {
	return s.err
}
