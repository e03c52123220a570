package duckdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

// AlertRepo reads the precomputed fato_alerta_critico feed.
type AlertRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type alertRow struct {
	ID          string         `db:"alerta_id"`
	CNPJ        string         `db:"cnpj"`
	RazaoSocial string         `db:"razao_social"`
	TipoAlerta  string         `db:"tipo_alerta"`
	Severidade  string         `db:"severidade"`
	Descricao   sql.NullString `db:"descricao"`
	Evidencia   string         `db:"evidencia"`
	SocioHash   sql.NullString `db:"socio_hash"`
	DetectadoEm time.Time      `db:"detectado_em"`
}

// AlertFeed pages the feed, newest detections first, optionally filtered by
// kind.
func (r *AlertRepo) AlertFeed(ctx context.Context, kind *domain.AlertKind, limit, offset int) ([]persistence.AlertFeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT a.alerta_id, a.cnpj, f.razao_social, a.tipo_alerta, a.severidade,
		       a.descricao, a.evidencia, a.socio_hash, a.detectado_em
		FROM fato_alerta_critico a
		JOIN dim_fornecedor f ON f.cnpj = a.cnpj`
	args := []any{}
	if kind != nil {
		query += ` WHERE a.tipo_alerta = ?`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY a.detectado_em DESC, a.alerta_id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []alertRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.StoreErrorf("alert feed: %w", err)
	}

	out := make([]persistence.AlertFeedItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toFeedItem()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (row alertRow) toFeedItem() (persistence.AlertFeedItem, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return persistence.AlertFeedItem{}, domain.StoreErrorf("alert id %q: %v", row.ID, err)
	}
	kind, err := domain.ParseAlertKind(row.TipoAlerta)
	if err != nil {
		return persistence.AlertFeedItem{}, domain.StoreErrorf("alert kind: %v", err)
	}
	supplier, err := domain.ParseCompanyID(row.CNPJ)
	if err != nil {
		return persistence.AlertFeedItem{}, domain.StoreErrorf("alert cnpj: %v", err)
	}
	var partner *domain.PersonRef
	if row.SocioHash.Valid && row.SocioHash.String != "" {
		ref := domain.PersonRef(row.SocioHash.String)
		partner = &ref
	}
	return persistence.AlertFeedItem{
		Alert: domain.CriticalAlert{
			ID:          id,
			Kind:        kind,
			Severity:    domain.Severity(row.Severidade),
			Description: row.Descricao.String,
			Evidence:    row.Evidencia,
			SupplierID:  supplier,
			Partner:     partner,
			DetectedAt:  row.DetectadoEm,
		},
		SupplierName: row.RazaoSocial,
	}, nil
}
