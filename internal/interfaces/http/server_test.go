package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionartBR/testa-de-ferro/internal/application"
	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/interfaces/http/handlers"
	"github.com/LionartBR/testa-de-ferro/internal/metrics"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
	"github.com/LionartBR/testa-de-ferro/internal/rules/alerts"
)

const knownID = "11222333000181"

type fakeStore struct{}

func (fakeStore) Supplier(_ context.Context, id domain.CompanyID) (domain.Supplier, error) {
	if id.String() != knownID {
		return domain.Supplier{}, domain.ErrNotFound
	}
	return domain.Supplier{ID: id, LegalName: "Fornecedora Conhecida LTDA", Status: domain.StatusActive}, nil
}

func (fakeStore) Search(context.Context, string, int) ([]persistence.SupplierSummary, error) {
	return nil, nil
}

func (fakeStore) Ranking(_ context.Context, _, _ int) ([]persistence.SupplierSummary, error) {
	id, err := domain.ParseCompanyID(knownID)
	if err != nil {
		return nil, err
	}
	return []persistence.SupplierSummary{{
		ID: id, LegalName: "Fornecedora Conhecida LTDA", Status: domain.StatusActive,
		Score: 35, Band: domain.BandModerate,
	}}, nil
}

func (fakeStore) Contracts(context.Context, domain.CompanyID) ([]domain.Contract, error) {
	return nil, nil
}

func (fakeStore) QueryContracts(context.Context, persistence.ContractFilter, int, int) ([]domain.Contract, error) {
	return nil, nil
}

func (fakeStore) Sanctions(context.Context, domain.CompanyID) ([]domain.Sanction, error) {
	return nil, nil
}

func (fakeStore) Partners(context.Context, domain.CompanyID) ([]domain.Partner, error) {
	return nil, nil
}

func (fakeStore) Donations(context.Context, domain.CompanyID) ([]domain.Donation, error) {
	return nil, nil
}

func (fakeStore) AlertFeed(context.Context, *domain.AlertKind, int, int) ([]persistence.AlertFeedItem, error) {
	return nil, nil
}

func (fakeStore) Stats(context.Context) (persistence.Stats, error) {
	return persistence.Stats{Contracts: 2}, nil
}

func (fakeStore) CountSuppliers(context.Context) (int, error) {
	return 7, nil
}

func (fakeStore) OrgDashboard(context.Context, domain.GovOrgCode) (persistence.OrgDashboard, error) {
	return persistence.OrgDashboard{}, domain.ErrNotFound
}

func (fakeStore) PartnerLinks(context.Context, domain.CompanyID) ([]persistence.GraphPartnerLink, error) {
	return nil, nil
}

func (fakeStore) CompanyLinks(context.Context, domain.PersonRef) ([]persistence.GraphCompanyLink, error) {
	return nil, nil
}

func (fakeStore) TenderOverlaps(context.Context, domain.CompanyID) ([]persistence.TenderOverlapRecord, error) {
	return nil, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	store := fakeStore{}
	services := handlers.Services{
		Dossier: application.NewDossierService(application.DossierDeps{
			Suppliers: store,
			Contracts: store,
			Sanctions: store,
			Partners:  store,
			Donations: store,
			Graph:     store,
		}, alerts.DefaultStrawmanConfig(), "disclaimer", nil),
		Ranking:   application.NewRankingService(store),
		Search:    application.NewSearchService(store),
		Feed:      application.NewFeedService(store),
		Contracts: application.NewContractsService(store),
		Graph:     application.NewGraphService(store, store, 0),
		Stats:     application.NewStatsService(store, store),
		Orgs:      application.NewOrgDashboardService(store),
	}
	h := handlers.New(services, func(context.Context) error { return nil })

	cfg := DefaultServerConfig()
	cfg.RateLimitCap = 0
	cfg.AllowedOrigins = []string{"http://localhost:5173"}
	return NewServer(cfg, h, metrics.NewCollector())
}

func do(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// The static ranking path must not be shadowed by the {id} capture.
func TestRankingNotShadowedByIDCapture(t *testing.T) {
	rec := do(t, testServer(t), "/api/suppliers/ranking")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rows []application.SummaryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, knownID, rows[0].ID)
}

func TestSupplierChecksumRejected(t *testing.T) {
	rec := do(t, testServer(t), "/api/suppliers/11222333000199")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail":"invalid input"}`, rec.Body.String())
}

func TestSupplierNotFound(t *testing.T) {
	// Valid checksum, absent from the store.
	rec := do(t, testServer(t), "/api/suppliers/11444777000161")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"not found"}`, rec.Body.String())
}

func TestSupplierDossierServed(t *testing.T) {
	rec := do(t, testServer(t), "/api/suppliers/"+knownID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dossier application.Dossier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dossier))
	assert.Equal(t, knownID, dossier.Supplier.ID)
	assert.Equal(t, "disclaimer", dossier.Disclaimer)
}

func TestSupplierIDWithPunctuation(t *testing.T) {
	// Dots and dashes are stripped by the parser before validation.
	rec := do(t, testServer(t), "/api/suppliers/11.222.333.0001-81")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAlertsUnknownKindRejected(t *testing.T) {
	rec := do(t, testServer(t), "/api/alerts/NOT_A_KIND")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportPDFNotImplemented(t *testing.T) {
	rec := do(t, testServer(t), "/api/suppliers/"+knownID+"/export?format=pdf")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.JSONEq(t, `{"detail":"not implemented"}`, rec.Body.String())
}

func TestExportCSVServed(t *testing.T) {
	rec := do(t, testServer(t), "/api/suppliers/"+knownID+"/export?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "# CADASTRAL")
}

func TestSearchLengthValidated(t *testing.T) {
	rec := do(t, testServer(t), "/api/search?q=a")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	for _, path := range []string{"/api/stats", "/api/suppliers/123"} {
		rec := do(t, testServer(t), path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"), path)
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"), path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

// The supplier population in /api/stats comes from the counter
// capability, not from the aggregate snapshot.
func TestStatsSupplierCountFromCounter(t *testing.T) {
	rec := do(t, testServer(t), "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view application.StatsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 7, view.Suppliers)
	assert.Equal(t, 2, view.Contracts)
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(t, testServer(t), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPagingValidated(t *testing.T) {
	rec := do(t, testServer(t), "/api/suppliers/ranking?limit=500")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, testServer(t), "/api/alerts?offset=-1")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
