package duckdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// PartnerRepo reads bridge_fornecedor_socio joined with dim_socio. The
// person id never leaves the store; only the keyed hash travels.
type PartnerRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type partnerRow struct {
	SocioHash        string         `db:"socio_hash"`
	Nome             string         `db:"nome"`
	Qualificacao     sql.NullString `db:"qualificacao"`
	EhServidor       bool           `db:"eh_servidor_publico"`
	OrgaoLotacao     sql.NullString `db:"orgao_lotacao"`
	EhSancionado     bool           `db:"eh_sancionado"`
	QtdFornecedores  int            `db:"qtd_fornecedores"`
	DataNascimento   sql.NullTime   `db:"data_nascimento"`
	PercentualCapital sql.NullString `db:"percentual_capital"`
	DataEntrada      sql.NullTime   `db:"data_entrada"`
	DataSaida        sql.NullTime   `db:"data_saida"`
}

// Partners lists a supplier's ownership board with enrichment columns.
func (r *PartnerRepo) Partners(ctx context.Context, id domain.CompanyID) ([]domain.Partner, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT s.socio_hash, s.nome, b.qualificacao,
		       COALESCE(s.eh_servidor_publico, FALSE) AS eh_servidor_publico,
		       s.orgao_lotacao,
		       COALESCE(s.eh_sancionado, FALSE) AS eh_sancionado,
		       COALESCE(s.qtd_fornecedores, 0) AS qtd_fornecedores,
		       s.data_nascimento,
		       CAST(b.percentual_capital AS VARCHAR) AS percentual_capital,
		       b.data_entrada, b.data_saida
		FROM bridge_fornecedor_socio b
		JOIN dim_socio s ON s.socio_hash = b.socio_hash
		WHERE b.cnpj = ?
		ORDER BY s.nome`

	var rows []partnerRow
	if err := r.db.SelectContext(ctx, &rows, query, id.String()); err != nil {
		return nil, domain.StoreErrorf("partners of %s: %w", id, err)
	}

	out := make([]domain.Partner, 0, len(rows))
	for _, row := range rows {
		p := domain.Partner{
			Ref:              domain.PersonRef(row.SocioHash),
			Name:             row.Nome,
			Qualification:    row.Qualificacao.String,
			IsPublicServant:  row.EhServidor,
			EmployingBody:    row.OrgaoLotacao.String,
			IsSanctioned:     row.EhSancionado,
			GovSupplierCount: row.QtdFornecedores,
			BirthDate:        nullTimePtr(row.DataNascimento),
			EntryDate:        nullTimePtr(row.DataEntrada),
			ExitDate:         nullTimePtr(row.DataSaida),
		}
		if row.PercentualCapital.Valid {
			share, err := domain.ShareFromString(row.PercentualCapital.String)
			if err != nil {
				return nil, domain.StoreErrorf("partner share for %s: %v", id, err)
			}
			p.CapitalShare = &share
		}
		out = append(out, p)
	}
	return out, nil
}
