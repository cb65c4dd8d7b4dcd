// Copyright 2023 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package apitokens provides support for reading API keys and tokens
// from files, environment variables or literal values and for carrying
// them in a context.
package apitokens

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrCredentialUnavailable is returned when a token cannot be read or
// is empty.
var ErrCredentialUnavailable = errors.New("credential unavailable")

// T represents a token that can be used to authenticate with an API.
// Tokens are specified as scheme://path where scheme is used to identify
// the reader that should be used to read the value.
type T struct {
	Scheme string
	Path   string
	value  []byte
}

// String returns a string representation of the token with the value
// redacted.
func (t T) String() string {
	return fmt.Sprintf("%v://%v:****", t.Scheme, t.redactedPath())
}

func (t T) redactedPath() string {
	if t.Scheme == "literal" {
		return ""
	}
	return t.Path
}

// Token returns the value of the token.
func (t *T) Token() []byte {
	return t.value
}

// Read reads the token value using the supplied registry of Readers.
// Leading and trailing whitespace is removed and an empty value is
// treated as an error. All errors wrap ErrCredentialUnavailable.
func (t *T) Read(ctx context.Context, registry *Readers) error {
	reader, ok := registry.Lookup(t.Scheme)
	if !ok {
		return fmt.Errorf("%w: no reader for scheme: %v, expected one of: %v", ErrCredentialUnavailable, t.Scheme, registry.Schemes())
	}
	val, err := reader.ReadFileCtx(ctx, t.Path)
	if err != nil {
		return fmt.Errorf("%w: %v: %v", ErrCredentialUnavailable, t, err)
	}
	val = bytes.TrimSpace(val)
	if len(val) == 0 {
		return fmt.Errorf("%w: %v: empty value", ErrCredentialUnavailable, t)
	}
	t.value = val
	return nil
}

// Clone creates a copy of a Token that does not share any state with the original.
func (t *T) Clone() T {
	return T{
		Scheme: t.Scheme,
		Path:   t.Path,
		value:  slices.Clone(t.value),
	}
}

// Parse creates a token from the supplied text. Text without a scheme
// is interpreted as the name of a local file.
func Parse(text string) *T {
	idx := strings.Index(text, "://")
	if idx < 0 {
		return &T{Scheme: "file", Path: text}
	}
	return &T{Scheme: text[:idx], Path: text[idx+3:]}
}

// Get parses and reads the token specified by text using the supplied
// readers, DefaultReaders is used if readers is nil.
func Get(ctx context.Context, readers *Readers, text string) (*T, error) {
	if readers == nil {
		readers = DefaultReaders
	}
	tok := Parse(text)
	if err := tok.Read(ctx, readers); err != nil {
		return nil, err
	}
	return tok, nil
}

type tokenCtxKey int

var tokenCtxKeyVal tokenCtxKey

type tokenCtxStore struct {
	sync.Mutex
	tokens map[string]T
}

// ContextWithToken returns a new context that contains the provided
// named token in addition to any existing tokens.
func ContextWithToken(ctx context.Context, name string, token *T) context.Context {
	store := &tokenCtxStore{}
	if ostore, ok := ctx.Value(tokenCtxKeyVal).(*tokenCtxStore); ok {
		ostore.Lock()
		defer ostore.Unlock()
		store.tokens = maps.Clone(ostore.tokens)
	}
	if store.tokens == nil {
		store.tokens = make(map[string]T)
	}
	store.tokens[name] = token.Clone()
	return context.WithValue(ctx, tokenCtxKeyVal, store)
}

// TokenFromContext returns the token for the specified name, if any,
// that is stored in the context.
func TokenFromContext(ctx context.Context, name string) (T, bool) {
	if store, ok := ctx.Value(tokenCtxKeyVal).(*tokenCtxStore); ok {
		store.Lock()
		defer store.Unlock()
		t, ok := store.tokens[name]
		return t, ok
	}
	return T{}, false
}
