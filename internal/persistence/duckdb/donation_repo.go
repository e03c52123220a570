package duckdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// DonationRepo reads fato_doacao joined with dim_candidato.
type DonationRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type donationRow struct {
	CNPJ            sql.NullString `db:"cnpj"`
	SocioHash       sql.NullString `db:"socio_hash"`
	CandidatoNome   string         `db:"candidato_nome"`
	Partido         sql.NullString `db:"partido"`
	Cargo           sql.NullString `db:"cargo"`
	Valor           string         `db:"valor"`
	AnoEleicao      int            `db:"ano_eleicao"`
	TipoRecurso     sql.NullString `db:"tipo_recurso"`
	OrgaoConcedente sql.NullString `db:"codigo_orgao_concedente"`
}

// Donations lists donations tied to the supplier or any of its partners.
func (r *DonationRepo) Donations(ctx context.Context, id domain.CompanyID) ([]domain.Donation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT d.cnpj, d.socio_hash, c.nome AS candidato_nome, c.partido, c.cargo,
		       CAST(d.valor AS VARCHAR) AS valor, d.ano_eleicao, d.tipo_recurso,
		       d.codigo_orgao_concedente
		FROM fato_doacao d
		JOIN dim_candidato c ON c.candidato_id = d.candidato_id
		WHERE d.cnpj = ?
		   OR d.socio_hash IN (SELECT socio_hash FROM bridge_fornecedor_socio WHERE cnpj = ?)
		ORDER BY d.ano_eleicao DESC, d.valor DESC`

	var rows []donationRow
	if err := r.db.SelectContext(ctx, &rows, query, id.String(), id.String()); err != nil {
		return nil, domain.StoreErrorf("donations of %s: %w", id, err)
	}

	out := make([]domain.Donation, 0, len(rows))
	for _, row := range rows {
		amount, err := domain.MoneyFromString(row.Valor)
		if err != nil {
			return nil, domain.StoreErrorf("donation value for %s: %v", id, err)
		}
		var supplier *domain.CompanyID
		if row.CNPJ.Valid {
			parsed, err := domain.ParseCompanyID(row.CNPJ.String)
			if err != nil {
				return nil, domain.StoreErrorf("donation cnpj for %s: %v", id, err)
			}
			supplier = &parsed
		}
		var partner *domain.PersonRef
		if row.SocioHash.Valid && row.SocioHash.String != "" {
			ref := domain.PersonRef(row.SocioHash.String)
			partner = &ref
		}
		d, err := domain.NewDonation(supplier, partner, row.CandidatoNome, row.Partido.String,
			row.Cargo.String, amount, row.AnoEleicao, row.TipoRecurso.String,
			domain.GovOrgCode(row.OrgaoConcedente.String))
		if err != nil {
			return nil, domain.StoreErrorf("donation row for %s: %v", id, err)
		}
		out = append(out, d)
	}
	return out, nil
}
