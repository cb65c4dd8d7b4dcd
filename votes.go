// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assembly

import (
	"context"

	"cloudeng.io/webapi/clients/assembly/harvest"
	"cloudeng.io/webapi/clients/assembly/records"
)

// VoteFetcher implements harvest.Fetcher by fetching the plenary votes
// for each bill.
type VoteFetcher struct {
	Client *Client
	Age    int
}

// Fetch implements harvest.Fetcher.
func (vf VoteFetcher) Fetch(ctx context.Context, bill harvest.Entity) ([]records.Record, error) {
	return vf.Client.FetchAll(ctx, VotesQuery(vf.Age, bill.ID))
}
