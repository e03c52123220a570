package duckdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// SanctionRepo reads dim_sancao.
type SanctionRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type sanctionRow struct {
	Tipo       string         `db:"tipo"`
	Orgao      sql.NullString `db:"orgao_sancionador"`
	Motivo     sql.NullString `db:"motivo"`
	DataInicio time.Time      `db:"data_inicio"`
	DataFim    sql.NullTime   `db:"data_fim"`
}

// Sanctions lists a supplier's sanction records, most recent start first.
func (r *SanctionRepo) Sanctions(ctx context.Context, id domain.CompanyID) ([]domain.Sanction, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT tipo, orgao_sancionador, motivo, data_inicio, data_fim
		FROM dim_sancao
		WHERE cnpj = ?
		ORDER BY data_inicio DESC`

	var rows []sanctionRow
	if err := r.db.SelectContext(ctx, &rows, query, id.String()); err != nil {
		return nil, domain.StoreErrorf("sanctions of %s: %w", id, err)
	}

	out := make([]domain.Sanction, 0, len(rows))
	for _, row := range rows {
		s, err := domain.NewSanction(domain.SanctionKind(row.Tipo), row.Orgao.String,
			row.Motivo.String, row.DataInicio, nullTimePtr(row.DataFim))
		if err != nil {
			return nil, domain.StoreErrorf("sanction row for %s: %v", id, err)
		}
		out = append(out, s)
	}
	return out, nil
}
