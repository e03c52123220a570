package duckdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

// GraphRepo serves one-hop neighborhood queries. The bounded walk lives in
// the application layer; the store only answers single hops.
type GraphRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type graphPartnerRow struct {
	SocioHash         string         `db:"socio_hash"`
	Nome              string         `db:"nome"`
	PercentualCapital sql.NullString `db:"percentual_capital"`
}

// PartnerLinks returns the ownership edges out of a company.
func (r *GraphRepo) PartnerLinks(ctx context.Context, id domain.CompanyID) ([]persistence.GraphPartnerLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT s.socio_hash, s.nome,
		       CAST(b.percentual_capital AS VARCHAR) AS percentual_capital
		FROM bridge_fornecedor_socio b
		JOIN dim_socio s ON s.socio_hash = b.socio_hash
		WHERE b.cnpj = ?
		ORDER BY s.nome`

	var rows []graphPartnerRow
	if err := r.db.SelectContext(ctx, &rows, query, id.String()); err != nil {
		return nil, domain.StoreErrorf("partner links of %s: %w", id, err)
	}

	out := make([]persistence.GraphPartnerLink, 0, len(rows))
	for _, row := range rows {
		link := persistence.GraphPartnerLink{
			Ref:  domain.PersonRef(row.SocioHash),
			Name: row.Nome,
		}
		if row.PercentualCapital.Valid {
			share, err := domain.ShareFromString(row.PercentualCapital.String)
			if err != nil {
				return nil, domain.StoreErrorf("partner link share: %v", err)
			}
			link.Share = &share
		}
		out = append(out, link)
	}
	return out, nil
}

type graphCompanyRow struct {
	CNPJ        string `db:"cnpj"`
	RazaoSocial string `db:"razao_social"`
}

// CompanyLinks returns the participation edges out of a person.
func (r *GraphRepo) CompanyLinks(ctx context.Context, ref domain.PersonRef) ([]persistence.GraphCompanyLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT f.cnpj, f.razao_social
		FROM bridge_fornecedor_socio b
		JOIN dim_fornecedor f ON f.cnpj = b.cnpj
		WHERE b.socio_hash = ?
		ORDER BY f.cnpj`

	var rows []graphCompanyRow
	if err := r.db.SelectContext(ctx, &rows, query, string(ref)); err != nil {
		return nil, domain.StoreErrorf("company links of partner: %w", err)
	}

	out := make([]persistence.GraphCompanyLink, 0, len(rows))
	for _, row := range rows {
		id, err := domain.ParseCompanyID(row.CNPJ)
		if err != nil {
			return nil, domain.StoreErrorf("company link row: %v", err)
		}
		out = append(out, persistence.GraphCompanyLink{ID: id, Name: row.RazaoSocial})
	}
	return out, nil
}

type overlapRow struct {
	NumeroLicitacao string `db:"numero_licitacao"`
	OutroCNPJ       string `db:"outro_cnpj"`
	SocioHash       string `db:"socio_hash"`
}

// TenderOverlaps lists tenders where the supplier and a partner-linked
// other supplier both hold contracts.
func (r *GraphRepo) TenderOverlaps(ctx context.Context, id domain.CompanyID) ([]persistence.TenderOverlapRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT DISTINCT c1.numero_licitacao, c2.cnpj AS outro_cnpj, b1.socio_hash
		FROM fato_contrato c1
		JOIN fato_contrato c2
		  ON c2.numero_licitacao = c1.numero_licitacao
		 AND c2.cnpj <> c1.cnpj
		JOIN bridge_fornecedor_socio b1 ON b1.cnpj = c1.cnpj
		JOIN bridge_fornecedor_socio b2 ON b2.cnpj = c2.cnpj AND b2.socio_hash = b1.socio_hash
		WHERE c1.cnpj = ?
		  AND c1.numero_licitacao IS NOT NULL
		  AND c1.numero_licitacao <> ''
		ORDER BY c1.numero_licitacao, c2.cnpj`

	var rows []overlapRow
	if err := r.db.SelectContext(ctx, &rows, query, id.String()); err != nil {
		return nil, domain.StoreErrorf("tender overlaps of %s: %w", id, err)
	}

	out := make([]persistence.TenderOverlapRecord, 0, len(rows))
	for _, row := range rows {
		other, err := domain.ParseCompanyID(row.OutroCNPJ)
		if err != nil {
			return nil, domain.StoreErrorf("tender overlap row: %v", err)
		}
		tender, err := domain.ParseTenderNumber(row.NumeroLicitacao)
		if err != nil {
			return nil, domain.StoreErrorf("tender overlap number: %v", err)
		}
		out = append(out, persistence.TenderOverlapRecord{
			Tender:        tender,
			OtherSupplier: other,
			SharedPartner: domain.PersonRef(row.SocioHash),
		})
	}
	return out, nil
}
