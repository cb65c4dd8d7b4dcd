// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package assembly provides a client for the Korean National Assembly
// open data API (https://open.assembly.go.kr). The API is a set of
// paginated JSON services, each identified by an opaque service name
// and authenticated using a KEY query parameter.
package assembly

import "time"

// DefaultServiceURL is the base URL for all services.
const DefaultServiceURL = "https://open.assembly.go.kr/portal/openapi"

// Services used by this package.
const (
	// BillsService lists the bills introduced in an assembly.
	BillsService = "nwbpacrgavhjryiph"
	// VotesService lists per-member plenary votes for a single bill.
	VotesService = "nojepdqqaweusdfbi"
)

// Page sizes used by the bill and vote services.
const (
	BillsPageSize = 100
	VotesPageSize = 300
)

// DefaultAge is the default assembly (대수).
const DefaultAge = 21

// BillKindLaw is the BILL_KIND value for legislative bills.
const BillKindLaw = "법률안"

// DefaultRequestTimeout is the timeout for a single request.
const DefaultRequestTimeout = 30 * time.Second

// TokenID is the name under which the API key is stored in a context
// using apitokens.ContextWithToken.
const TokenID = "assembly"
