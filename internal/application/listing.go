package application

import (
	"context"
	"strings"
	"time"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

// Paging bounds shared by the list endpoints.
const (
	MaxPageLimit     = 100
	DefaultPageLimit = 20

	minSearchLen = 2
	maxSearchLen = 200
)

// ValidatePaging normalizes limit and offset against the shared bounds.
func ValidatePaging(limit, offset int) (int, int, error) {
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 || limit > MaxPageLimit {
		return 0, 0, domain.InvalidInputf("limit %d outside [1,%d]", limit, MaxPageLimit)
	}
	if offset < 0 {
		return 0, 0, domain.InvalidInputf("offset %d is negative", offset)
	}
	return limit, offset, nil
}

// RankingService lists suppliers by score, contracted value breaking ties.
type RankingService struct {
	repo persistence.RankingReader
}

func NewRankingService(repo persistence.RankingReader) *RankingService {
	return &RankingService{repo: repo}
}

func (s *RankingService) Ranking(ctx context.Context, limit, offset int) ([]SummaryView, error) {
	limit, offset, err := ValidatePaging(limit, offset)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Ranking(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toSummaryViews(rows), nil
}

// SearchService matches suppliers by id prefix or name fragment.
type SearchService struct {
	repo persistence.SupplierSearcher
}

func NewSearchService(repo persistence.SupplierSearcher) *SearchService {
	return &SearchService{repo: repo}
}

// Search rejects queries outside the length bounds before touching the
// store.
func (s *SearchService) Search(ctx context.Context, query string) ([]SummaryView, error) {
	query = strings.TrimSpace(query)
	if n := len([]rune(query)); n < minSearchLen || n > maxSearchLen {
		return nil, domain.InvalidInputf("query length %d outside [%d,%d]", n, minSearchLen, maxSearchLen)
	}
	rows, err := s.repo.Search(ctx, query, DefaultPageLimit)
	if err != nil {
		return nil, err
	}
	return toSummaryViews(rows), nil
}

// FeedService pages the cross-supplier alert feed.
type FeedService struct {
	repo persistence.AlertFeedReader
}

func NewFeedService(repo persistence.AlertFeedReader) *FeedService {
	return &FeedService{repo: repo}
}

// Feed lists alerts newest first, optionally filtered by kind. The kind
// string is validated against the enum.
func (s *FeedService) Feed(ctx context.Context, kind string, limit, offset int) ([]FeedItemView, error) {
	limit, offset, err := ValidatePaging(limit, offset)
	if err != nil {
		return nil, err
	}
	var kindFilter *domain.AlertKind
	if kind != "" {
		parsed, err := domain.ParseAlertKind(kind)
		if err != nil {
			return nil, err
		}
		kindFilter = &parsed
	}
	rows, err := s.repo.AlertFeed(ctx, kindFilter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]FeedItemView, 0, len(rows))
	for _, row := range rows {
		views := toAlertViews([]domain.CriticalAlert{row.Alert})
		out = append(out, FeedItemView{
			SupplierID:   row.Alert.SupplierID.String(),
			SupplierName: row.SupplierName,
			Alert:        views[0],
		})
	}
	return out, nil
}

// ContractsService pages contracts with optional supplier and org filters.
type ContractsService struct {
	repo persistence.ContractQuerier
}

func NewContractsService(repo persistence.ContractQuerier) *ContractsService {
	return &ContractsService{repo: repo}
}

// Query parses the optional filters and pages the result. An invalid
// supplier id fails validation; an unknown org simply matches nothing.
func (s *ContractsService) Query(ctx context.Context, supplierID, orgCode string, limit, offset int) ([]ContractView, error) {
	limit, offset, err := ValidatePaging(limit, offset)
	if err != nil {
		return nil, err
	}
	var filter persistence.ContractFilter
	if supplierID != "" {
		id, err := domain.ParseCompanyID(supplierID)
		if err != nil {
			return nil, err
		}
		filter.Supplier = &id
	}
	if orgCode != "" {
		org, err := domain.ParseGovOrgCode(orgCode)
		if err != nil {
			return nil, err
		}
		filter.Org = &org
	}
	rows, err := s.repo.QueryContracts(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return toContractViews(rows), nil
}

// StatsService returns the dataset snapshot. The supplier population
// comes from the counter capability so the count has a single source.
type StatsService struct {
	repo    persistence.StatsReader
	counter persistence.SupplierCounter
}

func NewStatsService(repo persistence.StatsReader, counter persistence.SupplierCounter) *StatsService {
	return &StatsService{repo: repo, counter: counter}
}

func (s *StatsService) Stats(ctx context.Context) (StatsView, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return StatsView{}, err
	}
	suppliers, err := s.counter.CountSuppliers(ctx)
	if err != nil {
		return StatsView{}, err
	}
	view := StatsView{
		Suppliers:            suppliers,
		Contracts:            stats.Contracts,
		Partners:             stats.Partners,
		Sanctions:            stats.Sanctions,
		Donations:            stats.Donations,
		Alerts:               stats.Alerts,
		TotalContractedValue: stats.TotalContractedValue.String(),
		Sources:              make([]FreshnessView, 0, len(stats.Freshness)),
	}
	for _, f := range stats.Freshness {
		fv := FreshnessView{Source: f.Source}
		if f.LoadedAt != nil {
			ts := f.LoadedAt.UTC().Format(time.RFC3339)
			fv.LoadedAt = &ts
		}
		view.Sources = append(view.Sources, fv)
	}
	return view, nil
}

// OrgDashboardService aggregates one government body.
type OrgDashboardService struct {
	repo persistence.OrgDashboardReader
}

func NewOrgDashboardService(repo persistence.OrgDashboardReader) *OrgDashboardService {
	return &OrgDashboardService{repo: repo}
}

func (s *OrgDashboardService) Dashboard(ctx context.Context, orgCode string) (OrgDashboardView, error) {
	org, err := domain.ParseGovOrgCode(orgCode)
	if err != nil {
		return OrgDashboardView{}, err
	}
	dash, err := s.repo.OrgDashboard(ctx, org)
	if err != nil {
		return OrgDashboardView{}, err
	}
	return OrgDashboardView{
		OrgCode:              string(dash.OrgCode),
		OrgName:              dash.OrgName,
		SupplierCount:        dash.SupplierCount,
		ContractCount:        dash.ContractCount,
		TotalContractedValue: dash.TotalContractedValue.String(),
		AlertedSuppliers:     dash.AlertedSuppliers,
		TopSuppliers:         toSummaryViews(dash.TopSuppliers),
	}, nil
}

func toSummaryViews(rows []persistence.SupplierSummary) []SummaryView {
	out := make([]SummaryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, SummaryView{
			ID:                   row.ID.String(),
			LegalName:            row.LegalName,
			Status:               string(row.Status),
			Score:                row.Score,
			Band:                 string(row.Band),
			AlertCount:           row.AlertCount,
			TotalContracts:       row.TotalContracts,
			TotalContractedValue: row.TotalContractedValue.String(),
		})
	}
	return out
}
