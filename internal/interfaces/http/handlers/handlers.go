// Package handlers implements the route handlers of the /api surface.
// Handlers validate, call one application service, and encode. Error
// bodies are constant strings; internals never leak.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/LionartBR/testa-de-ferro/internal/application"
	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// Services bundles the application services the handlers call.
type Services struct {
	Dossier   *application.DossierService
	Ranking   *application.RankingService
	Search    *application.SearchService
	Feed      *application.FeedService
	Contracts *application.ContractsService
	Graph     *application.GraphService
	Stats     *application.StatsService
	Orgs      *application.OrgDashboardService
}

// Handlers holds the route handlers.
type Handlers struct {
	services Services
	ping     func(context.Context) error
}

// New builds the handler set. ping reports store reachability for /health.
func New(services Services, ping func(context.Context) error) *Handlers {
	return &Handlers{services: services, ping: ping}
}

// Supplier serves GET /api/suppliers/{id}.
func (h *Handlers) Supplier(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCompanyID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	dossier, err := h.services.Dossier.Build(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, dossier)
}

// Ranking serves GET /api/suppliers/ranking.
func (h *Handlers) Ranking(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paging(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.services.Ranking.Ranking(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rows)
}

// Graph serves GET /api/suppliers/{id}/graph.
func (h *Handlers) Graph(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCompanyID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.services.Graph.TwoHops(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, view)
}

// Export serves GET /api/suppliers/{id}/export?format=...
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCompanyID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := application.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	dossier, err := h.services.Dossier.Build(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	payload, err := application.Export(dossier, format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+payload.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload.Body)
}

// Alerts serves GET /api/alerts and GET /api/alerts/{kind}.
func (h *Handlers) Alerts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paging(r)
	if err != nil {
		writeError(w, err)
		return
	}
	kind := mux.Vars(r)["kind"]
	rows, err := h.services.Feed.Feed(r.Context(), kind, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rows)
}

// Search serves GET /api/search?q=...
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	rows, err := h.services.Search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rows)
}

// Contracts serves GET /api/contracts with optional id and orgCode filters.
func (h *Handlers) Contracts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paging(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	rows, err := h.services.Contracts.Query(r.Context(), q.Get("id"), q.Get("orgCode"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rows)
}

// OrgDashboard serves GET /api/orgs/{orgCode}/dashboard.
func (h *Handlers) OrgDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.Orgs.Dashboard(r.Context(), mux.Vars(r)["orgCode"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, view)
}

// Stats serves GET /api/stats.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	view, err := h.services.Stats.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, view)
}

// Health serves GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("health check store ping failed")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":%q}`, status)
}

// NotFound is the router fallback.
func (h *Handlers) NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteDetail(w, http.StatusNotFound, "not found")
}

func paging(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), 0)
	if err != nil {
		return 0, 0, err
	}
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		return 0, 0, err
	}
	return application.ValidatePaging(limit, offset)
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidInputf("parameter %q is not an integer", raw)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

// writeError maps the domain taxonomy to status codes with constant
// bodies. Internal detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		WriteDetail(w, http.StatusUnprocessableEntity, "invalid input")
	case errors.Is(err, domain.ErrNotFound):
		WriteDetail(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnimplemented):
		WriteDetail(w, http.StatusNotImplemented, "not implemented")
	case errors.Is(err, domain.ErrRateLimited):
		WriteDetail(w, http.StatusTooManyRequests, "rate limit exceeded")
	case errors.Is(err, context.DeadlineExceeded):
		WriteDetail(w, http.StatusGatewayTimeout, "request timed out")
	default:
		log.Error().Err(err).Msg("request failed")
		WriteDetail(w, http.StatusInternalServerError, "internal error")
	}
}

// WriteDetail emits the constant single-line error body. The middleware
// chain shares it for responses written before a handler runs.
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"detail":%q}`, detail)
}
