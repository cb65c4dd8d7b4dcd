// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package records provides an ordered, flat record type for rows
// returned by JSON APIs along with support for persisting them as CSV.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ErrNotScalar is returned when a JSON field value is an object or
// an array.
var ErrNotScalar = errors.New("not a scalar value")

// Record is an ordered mapping of field names to scalar values. Values
// are one of string, json.Number, bool or nil. The order of fields is
// the order in which they were first set.
type Record struct {
	keys   []string
	values map[string]any
}

// New returns a Record with the supplied name/value pairs.
func New(pairs ...any) Record {
	if len(pairs)%2 != 0 {
		panic("records.New: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return r
}

// Set sets the value of a field, appending it to the field order if it
// is not already present.
func (r *Record) Set(name string, value any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// String returns the value of the named field formatted as a string.
// Missing and null fields are returned as the empty string.
func (r Record) String(name string) string {
	return format(r.values[name])
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Clone returns a copy of the record that shares no state with the
// original.
func (r Record) Clone() Record {
	return Record{keys: slices.Clone(r.keys), values: maps.Clone(r.values)}
}

func format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Field order is preserved
// and numbers are decoded as json.Number.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("records: expected an object, got %v", tok)
	}
	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		switch v.(type) {
		case nil, string, json.Number, bool:
		default:
			return fmt.Errorf("records: field %q: %w", key, ErrNotScalar)
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON implements json.Marshaler, fields are written in order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
