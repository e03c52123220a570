package domain

import "time"

// GovOrgCode identifies a government body. Opaque, length-bounded.
type GovOrgCode string

// CNAECode is the primary activity code. Opaque, length-bounded.
type CNAECode string

// TenderNumber identifies a procurement event. Opaque, length-bounded.
type TenderNumber string

const (
	maxGovOrgCodeLen   = 20
	maxCNAECodeLen     = 10
	maxTenderNumberLen = 60
)

func ParseGovOrgCode(s string) (GovOrgCode, error) {
	if s == "" || len(s) > maxGovOrgCodeLen {
		return "", InvalidInputf("org code: length %d outside [1,%d]", len(s), maxGovOrgCodeLen)
	}
	return GovOrgCode(s), nil
}

func ParseCNAECode(s string) (CNAECode, error) {
	if len(s) > maxCNAECodeLen {
		return "", InvalidInputf("cnae code: length %d over %d", len(s), maxCNAECodeLen)
	}
	return CNAECode(s), nil
}

func ParseTenderNumber(s string) (TenderNumber, error) {
	if len(s) > maxTenderNumberLen {
		return "", InvalidInputf("tender number: length %d over %d", len(s), maxTenderNumberLen)
	}
	return TenderNumber(s), nil
}

// Address keeps the registered address. The shared-address signal matches
// on street + number only; complement is ignored upstream.
type Address struct {
	Street  string `json:"street"`
	Number  string `json:"number"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Supplier is the aggregate root. Alerts and score are derived, never
// edited here; the aggregate is assembled lazily per request.
type Supplier struct {
	ID                   CompanyID
	LegalName            string
	Status               CadastralStatus
	OpeningDate          *time.Time
	Capital              *Money
	ActivityCode         CNAECode
	ActivityDescription  string
	Address              *Address
	EmployeeCount        *int
	SameAddressSuppliers int
	TotalContracts       int
	TotalContractedValue Money
}
