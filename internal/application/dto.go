// Package application orchestrates repositories and the rule engines into
// the response shapes the HTTP surface encodes. No business rules live
// here; the services fan out, evaluate, and assemble.
package application

import "time"

// SupplierView is the cadastral block of a dossier.
type SupplierView struct {
	ID                   string   `json:"id"`
	LegalName            string   `json:"legal_name"`
	Status               string   `json:"status"`
	OpeningDate          *string  `json:"opening_date"`
	Capital              *string  `json:"capital"`
	ActivityCode         string   `json:"activity_code"`
	ActivityDescription  string   `json:"activity_description"`
	Address              *Address `json:"address"`
	EmployeeCount        *int     `json:"employee_count"`
	TotalContracts       int      `json:"total_contracts"`
	TotalContractedValue string   `json:"total_contracted_value"`
}

// Address mirrors the registered address.
type Address struct {
	Street  string `json:"street"`
	Number  string `json:"number"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// ContractView is one contract row.
type ContractView struct {
	OrgCode      string  `json:"org_code"`
	Value        string  `json:"value"`
	Subject      string  `json:"subject"`
	TenderNumber string  `json:"tender_number"`
	SignedOn     *string `json:"signed_on"`
	ValidUntil   *string `json:"valid_until"`
}

// PartnerView is one ownership-board row. Only the keyed hash identifies
// the person.
type PartnerView struct {
	Ref              string  `json:"ref"`
	Name             string  `json:"name"`
	Qualification    string  `json:"qualification"`
	IsPublicServant  bool    `json:"is_public_servant"`
	EmployingBody    string  `json:"employing_body,omitempty"`
	IsSanctioned     bool    `json:"is_sanctioned"`
	GovSupplierCount int     `json:"gov_supplier_count"`
	CapitalShare     *string `json:"capital_share"`
	EntryDate        *string `json:"entry_date"`
	ExitDate         *string `json:"exit_date"`
}

// SanctionView is one sanction-registry row.
type SanctionView struct {
	Kind   string  `json:"kind"`
	Body   string  `json:"body"`
	Reason string  `json:"reason"`
	Start  string  `json:"start"`
	End    *string `json:"end"`
	Active bool    `json:"active"`
}

// DonationView is one electoral donation row.
type DonationView struct {
	PartnerRef      *string `json:"partner_ref"`
	CandidateName   string  `json:"candidate_name"`
	CandidateParty  string  `json:"candidate_party"`
	CandidateOffice string  `json:"candidate_office"`
	Amount          string  `json:"amount"`
	ElectionYear    int     `json:"election_year"`
	ResourceType    string  `json:"resource_type"`
}

// AlertView is one critical alert.
type AlertView struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Evidence    string  `json:"evidence"`
	PartnerRef  *string `json:"partner_ref"`
	DetectedAt  string  `json:"detected_at"`
}

// IndicatorView is one active score indicator.
type IndicatorView struct {
	Kind        string `json:"kind"`
	Weight      int    `json:"weight"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
}

// ScoreView is the cumulative score block.
type ScoreView struct {
	Total      int             `json:"total"`
	Band       string          `json:"band"`
	Indicators []IndicatorView `json:"indicators"`
	ComputedAt string          `json:"computed_at"`
}

// Dossier is the complete per-supplier answer.
type Dossier struct {
	Supplier   SupplierView   `json:"supplier"`
	Contracts  []ContractView `json:"contracts"`
	Partners   []PartnerView  `json:"partners"`
	Sanctions  []SanctionView `json:"sanctions"`
	Donations  []DonationView `json:"donations"`
	Alerts     []AlertView    `json:"alerts"`
	Score      ScoreView      `json:"score"`
	Disclaimer string         `json:"disclaimer"`
}

// SummaryView is one ranking or search row.
type SummaryView struct {
	ID                   string `json:"id"`
	LegalName            string `json:"legal_name"`
	Status               string `json:"status"`
	Score                int    `json:"score"`
	Band                 string `json:"band"`
	AlertCount           int    `json:"alert_count"`
	TotalContracts       int    `json:"total_contracts"`
	TotalContractedValue string `json:"total_contracted_value"`
}

// FeedItemView is one alert-feed row.
type FeedItemView struct {
	SupplierID   string  `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Alert        AlertView `json:"alert"`
}

// GraphNode is one node of the ownership projection. ID is
// "company:<digits>" or "person:<hash>".
type GraphNode struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// GraphEdge is one owns-share-of edge from a person node to a company node.
type GraphEdge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Kind  string  `json:"kind"`
	Share *string `json:"share"`
}

// GraphView is the bounded two-hop projection.
type GraphView struct {
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
	Truncated bool        `json:"truncated"`
}

// FreshnessView is one source watermark.
type FreshnessView struct {
	Source   string  `json:"source"`
	LoadedAt *string `json:"loaded_at"`
}

// StatsView is the dataset-wide snapshot.
type StatsView struct {
	Suppliers            int             `json:"suppliers"`
	Contracts            int             `json:"contracts"`
	Partners             int             `json:"partners"`
	Sanctions            int             `json:"sanctions"`
	Donations            int             `json:"donations"`
	Alerts               int             `json:"alerts"`
	TotalContractedValue string          `json:"total_contracted_value"`
	Sources              []FreshnessView `json:"sources"`
}

// OrgDashboardView aggregates one government body.
type OrgDashboardView struct {
	OrgCode              string        `json:"org_code"`
	OrgName              string        `json:"org_name"`
	SupplierCount        int           `json:"supplier_count"`
	ContractCount        int           `json:"contract_count"`
	TotalContractedValue string        `json:"total_contracted_value"`
	AlertedSuppliers     int           `json:"alerted_suppliers"`
	TopSuppliers         []SummaryView `json:"top_suppliers"`
}

const dateLayout = "2006-01-02"

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
