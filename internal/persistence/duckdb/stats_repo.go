package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

// StatsRepo reads dataset-wide aggregates and the per-body dashboard.
type StatsRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type statsRow struct {
	Contratos    int            `db:"contratos"`
	Socios       int            `db:"socios"`
	Sancoes      int            `db:"sancoes"`
	Doacoes      int            `db:"doacoes"`
	Alertas      int            `db:"alertas"`
	ValorTotal   sql.NullString `db:"valor_total"`
}

type freshnessRow struct {
	Fonte       string       `db:"fonte"`
	CarregadoEm sql.NullTime `db:"carregado_em"`
}

// Stats returns dataset totals plus source freshness. A missing meta_fonte
// table degrades to an empty freshness list instead of failing the call.
func (r *StatsRepo) Stats(ctx context.Context) (persistence.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM fato_contrato) AS contratos,
			(SELECT COUNT(*) FROM dim_socio) AS socios,
			(SELECT COUNT(*) FROM dim_sancao) AS sancoes,
			(SELECT COUNT(*) FROM fato_doacao) AS doacoes,
			(SELECT COUNT(*) FROM fato_alerta_critico) AS alertas,
			(SELECT CAST(COALESCE(SUM(valor), 0) AS VARCHAR) FROM fato_contrato) AS valor_total`

	var row statsRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return persistence.Stats{}, domain.StoreErrorf("stats: %w", err)
	}

	stats := persistence.Stats{
		Contracts: row.Contratos,
		Partners:  row.Socios,
		Sanctions: row.Sancoes,
		Donations: row.Doacoes,
		Alerts:    row.Alertas,
	}
	if row.ValorTotal.Valid {
		m, err := domain.MoneyFromString(row.ValorTotal.String)
		if err != nil {
			return persistence.Stats{}, domain.StoreErrorf("stats total: %v", err)
		}
		stats.TotalContractedValue = m
	}

	var fresh []freshnessRow
	err := r.db.SelectContext(ctx, &fresh,
		`SELECT fonte, carregado_em FROM meta_fonte ORDER BY fonte`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		// Older store files ship without the watermark table.
		fresh = nil
	}
	for _, f := range fresh {
		stats.Freshness = append(stats.Freshness, persistence.SourceFreshness{
			Source:   f.Fonte,
			LoadedAt: nullTimePtr(f.CarregadoEm),
		})
	}
	return stats, nil
}

type orgRow struct {
	CodigoOrgao  string         `db:"codigo_orgao"`
	NomeOrgao    sql.NullString `db:"nome_orgao"`
	Fornecedores int            `db:"fornecedores"`
	Contratos    int            `db:"contratos"`
	ValorTotal   sql.NullString `db:"valor_total"`
	ComAlerta    int            `db:"com_alerta"`
}

// OrgDashboard aggregates one government body and its top suppliers.
func (r *StatsRepo) OrgDashboard(ctx context.Context, org domain.GovOrgCode) (persistence.OrgDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT o.codigo_orgao, o.nome_orgao,
		       COUNT(DISTINCT c.cnpj) AS fornecedores,
		       COUNT(*) AS contratos,
		       CAST(COALESCE(SUM(c.valor), 0) AS VARCHAR) AS valor_total,
		       COUNT(DISTINCT a.cnpj) AS com_alerta
		FROM dim_orgao o
		JOIN fato_contrato c ON c.codigo_orgao = o.codigo_orgao
		LEFT JOIN fato_alerta_critico a ON a.cnpj = c.cnpj
		WHERE o.codigo_orgao = ?
		GROUP BY o.codigo_orgao, o.nome_orgao`

	var row orgRow
	if err := r.db.GetContext(ctx, &row, query, string(org)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.OrgDashboard{}, domain.ErrNotFound
		}
		return persistence.OrgDashboard{}, domain.StoreErrorf("org dashboard %s: %w", org, err)
	}

	dash := persistence.OrgDashboard{
		OrgCode:          domain.GovOrgCode(row.CodigoOrgao),
		OrgName:          row.NomeOrgao.String,
		SupplierCount:    row.Fornecedores,
		ContractCount:    row.Contratos,
		AlertedSuppliers: row.ComAlerta,
	}
	if row.ValorTotal.Valid {
		m, err := domain.MoneyFromString(row.ValorTotal.String)
		if err != nil {
			return persistence.OrgDashboard{}, domain.StoreErrorf("org dashboard total: %v", err)
		}
		dash.TotalContractedValue = m
	}

	topQuery := `
		SELECT f.cnpj, f.razao_social, f.situacao_cadastral,
		       COALESCE(s.score, 0) AS score,
		       COALESCE(a.qtd_alertas, 0) AS qtd_alertas,
		       COUNT(*) AS qtd_contratos,
		       CAST(COALESCE(SUM(c.valor), 0) AS VARCHAR) AS valor_contratado
		FROM fato_contrato c
		JOIN dim_fornecedor f ON f.cnpj = c.cnpj
		LEFT JOIN (SELECT cnpj, SUM(peso) AS score FROM fato_score_indicador GROUP BY cnpj) s ON s.cnpj = f.cnpj
		LEFT JOIN (SELECT cnpj, COUNT(*) AS qtd_alertas FROM fato_alerta_critico GROUP BY cnpj) a ON a.cnpj = f.cnpj
		WHERE c.codigo_orgao = ?
		GROUP BY f.cnpj, f.razao_social, f.situacao_cadastral, s.score, a.qtd_alertas
		ORDER BY SUM(c.valor) DESC
		LIMIT 10`

	var top []summaryRow
	if err := r.db.SelectContext(ctx, &top, topQuery, string(org)); err != nil {
		return persistence.OrgDashboard{}, domain.StoreErrorf("org top suppliers %s: %w", org, err)
	}
	summaries, err := toSummaries(top)
	if err != nil {
		return persistence.OrgDashboard{}, err
	}
	dash.TopSuppliers = summaries
	return dash, nil
}
