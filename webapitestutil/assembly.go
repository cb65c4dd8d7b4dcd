// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package webapitestutil

import (
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"
)

// Result codes used by the National Assembly open API.
const (
	AssemblyOK     = "INFO-000"
	AssemblyNoData = "INFO-200"
)

// Scripted is a canned response. A zero Status is treated as http.StatusOK.
type Scripted struct {
	Status int
	Body   string
}

// AssemblyHandler is an http.Handler that mimics the paginated JSON
// responses of the National Assembly open API. Requests are paginated
// using the pIndex and pSize query parameters. Scripted responses, if
// any, are returned in order before any paginated responses.
type AssemblyHandler struct {
	// Rows is the complete result set to be paginated.
	Rows []map[string]any
	// RowsFor, if set, is used instead of Rows to obtain the result set
	// for each request.
	RowsFor func(service string, query url.Values) []map[string]any
	// Code and Message are returned in the head of every page, Code
	// defaults to AssemblyOK.
	Code, Message string
	// Script is a sequence of responses returned before any others.
	Script []Scripted

	mu       sync.Mutex
	requests []*url.URL
}

// Requests returns the URLs of all requests received so far.
func (h *AssemblyHandler) Requests() []*url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*url.URL(nil), h.requests...)
}

// NumRequests returns the number of requests received so far.
func (h *AssemblyHandler) NumRequests() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.requests)
}

func (h *AssemblyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.requests = append(h.requests, r.URL)
	n := len(h.requests)
	h.mu.Unlock()

	if n <= len(h.Script) {
		s := h.Script[n-1]
		if s.Status != 0 && s.Status != http.StatusOK {
			w.WriteHeader(s.Status)
		}
		_, _ = w.Write([]byte(s.Body))
		return
	}

	service := path.Base(r.URL.Path)
	q := r.URL.Query()
	rows := h.Rows
	if h.RowsFor != nil {
		rows = h.RowsFor(service, q)
	}
	index, err := strconv.Atoi(q.Get("pIndex"))
	if err != nil || index < 1 {
		index = 1
	}
	size, err := strconv.Atoi(q.Get("pSize"))
	if err != nil || size < 1 {
		size = 10
	}
	start := (index - 1) * size
	if start >= len(rows) {
		writeJSON(w, AssemblyNoDataResponse())
		return
	}
	end := min(start+size, len(rows))
	code := h.Code
	if len(code) == 0 {
		code = AssemblyOK
	}
	writeJSON(w, AssemblyResponse(service, code, h.Message, len(rows), rows[start:end]))
}

// AssemblyResponse returns the value of a single page of results as
// returned by the National Assembly open API.
func AssemblyResponse(service, code, message string, total int, rows []map[string]any) map[string]any {
	if rows == nil {
		rows = []map[string]any{}
	}
	return map[string]any{
		service: []any{
			map[string]any{
				"head": []any{
					map[string]any{"list_total_count": total},
					map[string]any{"RESULT": map[string]any{"CODE": code, "MESSAGE": message}},
				},
			},
			map[string]any{"row": rows},
		},
	}
}

// AssemblyNoDataResponse returns the response used by the National
// Assembly open API when there is no matching data.
func AssemblyNoDataResponse() map[string]any {
	return map[string]any{
		"RESULT": map[string]any{"CODE": AssemblyNoData, "MESSAGE": "해당하는 데이터가 없습니다."},
	}
}

// AssemblyJSON returns the JSON encoding of v as a string, it panics
// on error.
func AssemblyJSON(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(buf)
}

// GenerateRows returns n rows each with the specified fields and an
// additional field, SEQ, containing the row's index.
func GenerateRows(n int, fields map[string]any) []map[string]any {
	rows := make([]map[string]any, n)
	for i := range rows {
		row := make(map[string]any, len(fields)+1)
		for k, v := range fields {
			row[k] = v
		}
		row["SEQ"] = i
		rows[i] = row
	}
	return rows
}
