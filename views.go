// Copyright 2024 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package assembly

import "cloudeng.io/webapi/clients/assembly/records"

// Field names used by the vote and bill services.
const (
	FieldBillID       = "BILL_ID"
	FieldBillNo       = "BILL_NO"
	FieldBillName     = "BILL_NAME"
	FieldBillNm       = "BILL_NM"
	FieldMemberName   = "HG_NM"
	FieldParty        = "POLY_NM"
	FieldDistrict     = "ORIG_NM"
	FieldVoteResult   = "RESULT_VOTE_MOD"
	FieldVoteDate     = "VOTE_DATE"
	FieldProposer     = "PROPOSER"
	FieldCommittee    = "COMMITTEE_NM"
	FieldProcResult   = "PROC_RESULT_CD"
	FieldProposeDate  = "PROPOSE_DT"
	FieldDetailLink   = "DETAIL_LINK"
	FieldMemberNumber = "MONA_CD"
)

// Vote is a typed view of a row returned by VotesService. Fields that
// are absent from the row are empty.
type Vote struct {
	BillID     string
	BillNo     string
	BillName   string
	MemberName string
	MemberCode string
	Party      string
	District   string
	Result     string
	Date       string
}

// VoteFromRecord returns the Vote view of a record.
func VoteFromRecord(r records.Record) Vote {
	return Vote{
		BillID:     r.String(FieldBillID),
		BillNo:     r.String(FieldBillNo),
		BillName:   r.String(FieldBillName),
		MemberName: r.String(FieldMemberName),
		MemberCode: r.String(FieldMemberNumber),
		Party:      r.String(FieldParty),
		District:   r.String(FieldDistrict),
		Result:     r.String(FieldVoteResult),
		Date:       r.String(FieldVoteDate),
	}
}

// Bill is a typed view of a row returned by BillsService.
type Bill struct {
	ID         string
	No         string
	Name       string
	Proposer   string
	Committee  string
	ProcResult string
	Proposed   string
	Link       string
}

// BillFromRecord returns the Bill view of a record. The name is taken
// from BILL_NAME or, if absent, BILL_NM.
func BillFromRecord(r records.Record) Bill {
	name := r.String(FieldBillName)
	if name == "" {
		name = r.String(FieldBillNm)
	}
	return Bill{
		ID:         r.String(FieldBillID),
		No:         r.String(FieldBillNo),
		Name:       name,
		Proposer:   r.String(FieldProposer),
		Committee:  r.String(FieldCommittee),
		ProcResult: r.String(FieldProcResult),
		Proposed:   r.String(FieldProposeDate),
		Link:       r.String(FieldDetailLink),
	}
}
