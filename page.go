// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assembly

import (
	"encoding/json"

	"cloudeng.io/webapi/clients/assembly/records"
)

// Result codes returned by the API.
const (
	CodeOK     = "INFO-000"
	CodeNoData = "INFO-200"
)

// Result is the result code and message included in every response.
type Result struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

// Cursor identifies a page, Index starts at 1.
type Cursor struct {
	Index int
	Size  int
}

// Page is a single decoded page of results.
type Page struct {
	TotalCount int
	Result     Result
	Rows       []records.Record
}

type headItem struct {
	ListTotalCount *int    `json:"list_total_count"`
	Result         *Result `json:"RESULT"`
}

// DecodePage decodes and validates a response body for the specified
// service. A successful response has the form:
//
//	{"<service>": [{"head": [{"list_total_count": n}, {"RESULT": {...}}]}, {"row": [...]}]}
//
// A response consisting only of a RESULT with code INFO-200 indicates
// that there is no matching data and is returned as an empty page. All
// errors are of type *FetchError.
func DecodePage(service string, body []byte) (Page, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return Page{}, malformed(service, "%w", err)
	}
	raw, ok := top[service]
	if !ok {
		return decodeTopLevelResult(service, top)
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return Page{}, malformed(service, "%v: %w", service, err)
	}
	if len(parts) < 2 {
		return Page{}, malformed(service, "%v: expected 2 elements, got %v", service, len(parts))
	}
	var head struct {
		Head []headItem `json:"head"`
	}
	if err := json.Unmarshal(parts[0], &head); err != nil {
		return Page{}, malformed(service, "head: %w", err)
	}
	var page Page
	var result *Result
	for _, item := range head.Head {
		if item.ListTotalCount != nil {
			page.TotalCount = *item.ListTotalCount
		}
		if item.Result != nil {
			result = item.Result
		}
	}
	if result == nil {
		return Page{}, malformed(service, "head: missing RESULT")
	}
	page.Result = *result
	if result.Code != CodeOK {
		return Page{}, &FetchError{Kind: UpstreamError, Service: service, Code: result.Code, Message: result.Message}
	}
	var rows struct {
		Row *[]records.Record `json:"row"`
	}
	if err := json.Unmarshal(parts[1], &rows); err != nil {
		return Page{}, malformed(service, "row: %w", err)
	}
	if rows.Row == nil {
		return Page{}, malformed(service, "missing row")
	}
	page.Rows = *rows.Row
	return page, nil
}

func decodeTopLevelResult(service string, top map[string]json.RawMessage) (Page, error) {
	raw, ok := top["RESULT"]
	if !ok {
		return Page{}, malformed(service, "missing %v and RESULT", service)
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Page{}, malformed(service, "RESULT: %w", err)
	}
	if result.Code == CodeNoData {
		return Page{Result: result}, nil
	}
	return Page{}, &FetchError{Kind: UpstreamError, Service: service, Code: result.Code, Message: result.Message}
}
