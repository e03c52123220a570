// Package persistence declares the read capabilities the application layer
// consumes. The DuckDB adapter in the duckdb subpackage implements them;
// tests substitute in-memory fakes.
package persistence

import (
	"context"
	"time"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// SupplierSummary is one ranking or search row. Score and band come from
// the store's precomputed indicator table so list endpoints stay cheap.
type SupplierSummary struct {
	ID                   domain.CompanyID
	LegalName            string
	Status               domain.CadastralStatus
	Score                int
	Band                 domain.RiskBand
	AlertCount           int
	TotalContracts       int
	TotalContractedValue domain.Money
}

// AlertFeedItem is one row of the cross-supplier alert feed.
type AlertFeedItem struct {
	Alert        domain.CriticalAlert
	SupplierName string
}

// SourceFreshness is the load watermark of one upstream source.
type SourceFreshness struct {
	Source   string
	LoadedAt *time.Time
}

// Stats is the dataset-wide aggregate snapshot. The supplier population
// comes from SupplierCounter, not from here.
type Stats struct {
	Contracts            int
	Partners             int
	Sanctions            int
	Donations            int
	Alerts               int
	TotalContractedValue domain.Money
	Freshness            []SourceFreshness
}

// OrgDashboard aggregates one government body's exposure.
type OrgDashboard struct {
	OrgCode              domain.GovOrgCode
	OrgName              string
	SupplierCount        int
	ContractCount        int
	TotalContractedValue domain.Money
	AlertedSuppliers     int
	TopSuppliers         []SupplierSummary
}

// GraphPartnerLink is one company-to-person ownership edge with the data
// the graph walk needs.
type GraphPartnerLink struct {
	Ref   domain.PersonRef
	Name  string
	Share *domain.Share
}

// GraphCompanyLink is one person-to-company participation edge.
type GraphCompanyLink struct {
	ID   domain.CompanyID
	Name string
}

// TenderOverlapRecord is one tender shared with a partner-linked supplier.
type TenderOverlapRecord struct {
	Tender        domain.TenderNumber
	OtherSupplier domain.CompanyID
	SharedPartner domain.PersonRef
}

// SupplierReader loads one supplier aggregate.
type SupplierReader interface {
	Supplier(ctx context.Context, id domain.CompanyID) (domain.Supplier, error)
}

// SupplierSearcher matches suppliers by id prefix or case-folded name
// fragment.
type SupplierSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SupplierSummary, error)
}

// RankingReader lists suppliers by precomputed score, ties broken by
// contracted value.
type RankingReader interface {
	Ranking(ctx context.Context, limit, offset int) ([]SupplierSummary, error)
}

// ContractLister lists a supplier's contracts, newest first.
type ContractLister interface {
	Contracts(ctx context.Context, id domain.CompanyID) ([]domain.Contract, error)
}

// ContractFilter narrows a cross-supplier contract listing. Zero values
// mean "any".
type ContractFilter struct {
	Supplier *domain.CompanyID
	Org      *domain.GovOrgCode
}

// ContractQuerier pages contracts across suppliers with optional filters.
type ContractQuerier interface {
	QueryContracts(ctx context.Context, filter ContractFilter, limit, offset int) ([]domain.Contract, error)
}

// SupplierCounter reports the total supplier population.
type SupplierCounter interface {
	CountSuppliers(ctx context.Context) (int, error)
}

// SanctionLister lists a supplier's sanction records.
type SanctionLister interface {
	Sanctions(ctx context.Context, id domain.CompanyID) ([]domain.Sanction, error)
}

// PartnerLister lists a supplier's ownership board with the enrichment
// columns the rule engines read.
type PartnerLister interface {
	Partners(ctx context.Context, id domain.CompanyID) ([]domain.Partner, error)
}

// DonationLister lists donations tied to the supplier or its partners.
type DonationLister interface {
	Donations(ctx context.Context, id domain.CompanyID) ([]domain.Donation, error)
}

// AlertFeedReader pages the precomputed alert feed, optionally filtered by
// kind. Ordering is detection time descending.
type AlertFeedReader interface {
	AlertFeed(ctx context.Context, kind *domain.AlertKind, limit, offset int) ([]AlertFeedItem, error)
}

// StatsReader returns dataset-wide totals plus per-source freshness.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}

// OrgDashboardReader aggregates one government body.
type OrgDashboardReader interface {
	OrgDashboard(ctx context.Context, org domain.GovOrgCode) (OrgDashboard, error)
}

// GraphReader serves the ownership-graph walk one hop at a time. The walk
// itself lives in the application layer.
type GraphReader interface {
	PartnerLinks(ctx context.Context, id domain.CompanyID) ([]GraphPartnerLink, error)
	CompanyLinks(ctx context.Context, ref domain.PersonRef) ([]GraphCompanyLink, error)
	TenderOverlaps(ctx context.Context, id domain.CompanyID) ([]TenderOverlapRecord, error)
}
