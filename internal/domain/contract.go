package domain

import "time"

// Contract is one signed contract between a supplier and a government body.
type Contract struct {
	SupplierID   CompanyID
	OrgCode      GovOrgCode
	Value        Money
	Subject      string
	TenderNumber TenderNumber
	SignedOn     *time.Time
	ValidUntil   *time.Time
}

// NewContract enforces value > 0.
func NewContract(supplier CompanyID, org GovOrgCode, value Money, subject string, tender TenderNumber, signedOn, validUntil *time.Time) (Contract, error) {
	if value.IsZero() {
		return Contract{}, InvalidInputf("contract: value must be positive")
	}
	return Contract{
		SupplierID:   supplier,
		OrgCode:      org,
		Value:        value,
		Subject:      subject,
		TenderNumber: tender,
		SignedOn:     signedOn,
		ValidUntil:   validUntil,
	}, nil
}

// Sanction is one row from a public sanction registry.
type Sanction struct {
	Kind   SanctionKind
	Body   string
	Reason string
	Start  time.Time
	End    *time.Time
}

// NewSanction enforces start <= end when both are present.
func NewSanction(kind SanctionKind, body, reason string, start time.Time, end *time.Time) (Sanction, error) {
	if end != nil && end.Before(start) {
		return Sanction{}, InvalidInputf("sanction: end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return Sanction{Kind: kind, Body: body, Reason: reason, Start: start, End: end}, nil
}

// Active reports whether the sanction is in force on the reference date:
// end is null or end >= ref.
func (s Sanction) Active(ref time.Time) bool {
	return s.End == nil || !s.End.Before(ref)
}

// Partner is a natural or juridical person holding an ownership link in a
// supplier, read in supplier scope so the link attributes (qualification,
// entry and exit dates, capital share) ride along. Ref is the keyed hash
// of the person identifier; the plain form never reaches this core.
type Partner struct {
	Ref              PersonRef
	Name             string
	Qualification    string
	IsPublicServant  bool
	EmployingBody    string
	IsSanctioned     bool
	GovSupplierCount int
	BirthDate        *time.Time
	CapitalShare     *Share
	EntryDate        *time.Time
	ExitDate         *time.Time
}

// Donation is an electoral donation tied to a supplier and/or one of its
// partners. AwarderOrg is filled when the pipeline resolved the candidate
// to a government body; empty otherwise.
type Donation struct {
	SupplierID      *CompanyID
	PartnerRef      *PersonRef
	CandidateName   string
	CandidateParty  string
	CandidateOffice string
	Amount          Money
	ElectionYear    int
	ResourceType    string
	AwarderOrg      GovOrgCode
}

// NewDonation enforces that at least one of the supplier/partner links is
// present.
func NewDonation(supplier *CompanyID, partner *PersonRef, candidateName, party, office string, amount Money, year int, resourceType string, awarderOrg GovOrgCode) (Donation, error) {
	if supplier == nil && partner == nil {
		return Donation{}, InvalidInputf("donation: needs a supplier or partner link")
	}
	return Donation{
		SupplierID:      supplier,
		PartnerRef:      partner,
		CandidateName:   candidateName,
		CandidateParty:  party,
		CandidateOffice: office,
		Amount:          amount,
		ElectionYear:    year,
		ResourceType:    resourceType,
		AwarderOrg:      awarderOrg,
	}, nil
}
