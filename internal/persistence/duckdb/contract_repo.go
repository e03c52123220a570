package duckdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

// ContractRepo reads fato_contrato.
type ContractRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type contractRow struct {
	CNPJ            string         `db:"cnpj"`
	CodigoOrgao     string         `db:"codigo_orgao"`
	Valor           string         `db:"valor"`
	Objeto          sql.NullString `db:"objeto"`
	NumeroLicitacao sql.NullString `db:"numero_licitacao"`
	DataAssinatura  sql.NullTime   `db:"data_assinatura"`
	DataFimVigencia sql.NullTime   `db:"data_fim_vigencia"`
}

// Contracts lists a supplier's contracts, newest signatures first.
func (r *ContractRepo) Contracts(ctx context.Context, id domain.CompanyID) ([]domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT cnpj, codigo_orgao, CAST(valor AS VARCHAR) AS valor, objeto,
		       numero_licitacao, data_assinatura, data_fim_vigencia
		FROM fato_contrato
		WHERE cnpj = ?
		ORDER BY data_assinatura DESC NULLS LAST`

	var rows []contractRow
	if err := r.db.SelectContext(ctx, &rows, query, id.String()); err != nil {
		return nil, domain.StoreErrorf("contracts of %s: %w", id, err)
	}
	return hydrateContracts(rows)
}

// QueryContracts pages contracts across suppliers with optional supplier
// and org filters.
func (r *ContractRepo) QueryContracts(ctx context.Context, filter persistence.ContractFilter, limit, offset int) ([]domain.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT cnpj, codigo_orgao, CAST(valor AS VARCHAR) AS valor, objeto,
		       numero_licitacao, data_assinatura, data_fim_vigencia
		FROM fato_contrato
		WHERE 1 = 1`
	args := []any{}
	if filter.Supplier != nil {
		query += ` AND cnpj = ?`
		args = append(args, filter.Supplier.String())
	}
	if filter.Org != nil {
		query += ` AND codigo_orgao = ?`
		args = append(args, string(*filter.Org))
	}
	query += ` ORDER BY data_assinatura DESC NULLS LAST LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var rows []contractRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.StoreErrorf("query contracts: %w", err)
	}
	return hydrateContracts(rows)
}

func hydrateContracts(rows []contractRow) ([]domain.Contract, error) {
	out := make([]domain.Contract, 0, len(rows))
	for _, row := range rows {
		supplier, err := domain.ParseCompanyID(row.CNPJ)
		if err != nil {
			return nil, domain.StoreErrorf("contract cnpj: %v", err)
		}
		value, err := domain.MoneyFromString(row.Valor)
		if err != nil {
			return nil, domain.StoreErrorf("contract value: %v", err)
		}
		org, err := domain.ParseGovOrgCode(row.CodigoOrgao)
		if err != nil {
			return nil, domain.StoreErrorf("contract org: %v", err)
		}
		tender, err := domain.ParseTenderNumber(row.NumeroLicitacao.String)
		if err != nil {
			return nil, domain.StoreErrorf("contract tender: %v", err)
		}
		c, err := domain.NewContract(supplier, org, value, row.Objeto.String, tender,
			nullTimePtr(row.DataAssinatura), nullTimePtr(row.DataFimVigencia))
		if err != nil {
			return nil, domain.StoreErrorf("contract row: %v", err)
		}
		out = append(out, c)
	}
	return out, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
