package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
)

// SupplierRepo reads dim_fornecedor and the precomputed score table.
type SupplierRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

type supplierRow struct {
	CNPJ             string          `db:"cnpj"`
	RazaoSocial      string          `db:"razao_social"`
	Situacao         string          `db:"situacao_cadastral"`
	DataAbertura     sql.NullTime    `db:"data_abertura"`
	CapitalSocial    sql.NullString  `db:"capital_social"`
	CNAEPrincipal    sql.NullString  `db:"cnae_principal"`
	CNAEDescricao    sql.NullString  `db:"cnae_descricao"`
	Logradouro       sql.NullString  `db:"logradouro"`
	Numero           sql.NullString  `db:"numero"`
	Municipio        sql.NullString  `db:"municipio"`
	UF               sql.NullString  `db:"uf"`
	CEP              sql.NullString  `db:"cep"`
	QtdFuncionarios  sql.NullInt64   `db:"qtd_funcionarios"`
	MesmoEndereco    int             `db:"qtd_mesmo_endereco"`
	QtdContratos     int             `db:"qtd_contratos"`
	ValorContratado  sql.NullString  `db:"valor_contratado"`
}

type summaryRow struct {
	CNPJ            string         `db:"cnpj"`
	RazaoSocial     string         `db:"razao_social"`
	Situacao        string         `db:"situacao_cadastral"`
	Score           int            `db:"score"`
	QtdAlertas      int            `db:"qtd_alertas"`
	QtdContratos    int            `db:"qtd_contratos"`
	ValorContratado sql.NullString `db:"valor_contratado"`
}

const supplierColumns = `
	f.cnpj, f.razao_social, f.situacao_cadastral, f.data_abertura,
	CAST(f.capital_social AS VARCHAR) AS capital_social,
	f.cnae_principal, f.cnae_descricao,
	f.logradouro, f.numero, f.municipio, f.uf, f.cep, f.qtd_funcionarios,
	(SELECT COUNT(*) FROM dim_fornecedor o
	  WHERE o.cnpj <> f.cnpj
	    AND o.logradouro IS NOT NULL AND o.logradouro = f.logradouro
	    AND o.numero IS NOT NULL AND o.numero = f.numero) AS qtd_mesmo_endereco,
	(SELECT COUNT(*) FROM fato_contrato c WHERE c.cnpj = f.cnpj) AS qtd_contratos,
	(SELECT CAST(COALESCE(SUM(c.valor), 0) AS VARCHAR)
	   FROM fato_contrato c WHERE c.cnpj = f.cnpj) AS valor_contratado`

// Supplier loads one supplier aggregate by its 14-digit id.
func (r *SupplierRepo) Supplier(ctx context.Context, id domain.CompanyID) (domain.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + supplierColumns + ` FROM dim_fornecedor f WHERE f.cnpj = ?`

	var row supplierRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Supplier{}, domain.ErrNotFound
		}
		return domain.Supplier{}, domain.StoreErrorf("supplier %s: %w", id, err)
	}
	return row.toDomain()
}

// Search matches by id prefix when the query is digits-only, falling back
// to a case-folded name fragment.
func (r *SupplierRepo) Search(ctx context.Context, query string, limit int) ([]persistence.SupplierSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	digitsOnly := isDigits(strings.NewReplacer(".", "", "/", "", "-", "", " ", "").Replace(query))

	base := `
		SELECT f.cnpj, f.razao_social, f.situacao_cadastral,
		       COALESCE(s.score, 0) AS score,
		       COALESCE(a.qtd_alertas, 0) AS qtd_alertas,
		       COALESCE(c.qtd_contratos, 0) AS qtd_contratos,
		       CAST(COALESCE(c.valor_contratado, 0) AS VARCHAR) AS valor_contratado
		FROM dim_fornecedor f
		LEFT JOIN (SELECT cnpj, SUM(peso) AS score FROM fato_score_indicador GROUP BY cnpj) s ON s.cnpj = f.cnpj
		LEFT JOIN (SELECT cnpj, COUNT(*) AS qtd_alertas FROM fato_alerta_critico GROUP BY cnpj) a ON a.cnpj = f.cnpj
		LEFT JOIN (SELECT cnpj, COUNT(*) AS qtd_contratos, SUM(valor) AS valor_contratado
		             FROM fato_contrato GROUP BY cnpj) c ON c.cnpj = f.cnpj`

	var rows []summaryRow
	var err error
	if digitsOnly {
		cleaned := strings.NewReplacer(".", "", "/", "", "-", "", " ", "").Replace(query)
		err = r.db.SelectContext(ctx, &rows,
			base+` WHERE f.cnpj LIKE ? ORDER BY score DESC, f.cnpj LIMIT ?`,
			cleaned+"%", limit)
		if err == nil && len(rows) > 0 {
			return toSummaries(rows)
		}
	}
	if err == nil {
		err = r.db.SelectContext(ctx, &rows,
			base+` WHERE LOWER(f.razao_social) LIKE ? ORDER BY score DESC, f.cnpj LIMIT ?`,
			"%"+strings.ToLower(query)+"%", limit)
	}
	if err != nil {
		return nil, domain.StoreErrorf("search %q: %w", query, err)
	}
	return toSummaries(rows)
}

// Ranking lists suppliers by precomputed score descending, contracted value
// breaking ties.
func (r *SupplierRepo) Ranking(ctx context.Context, limit, offset int) ([]persistence.SupplierSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT f.cnpj, f.razao_social, f.situacao_cadastral,
		       COALESCE(s.score, 0) AS score,
		       COALESCE(a.qtd_alertas, 0) AS qtd_alertas,
		       COALESCE(c.qtd_contratos, 0) AS qtd_contratos,
		       CAST(COALESCE(c.valor_contratado, 0) AS VARCHAR) AS valor_contratado
		FROM dim_fornecedor f
		LEFT JOIN (SELECT cnpj, SUM(peso) AS score FROM fato_score_indicador GROUP BY cnpj) s ON s.cnpj = f.cnpj
		LEFT JOIN (SELECT cnpj, COUNT(*) AS qtd_alertas FROM fato_alerta_critico GROUP BY cnpj) a ON a.cnpj = f.cnpj
		LEFT JOIN (SELECT cnpj, COUNT(*) AS qtd_contratos, SUM(valor) AS valor_contratado
		             FROM fato_contrato GROUP BY cnpj) c ON c.cnpj = f.cnpj
		ORDER BY score DESC, COALESCE(c.valor_contratado, 0) DESC, f.cnpj
		LIMIT ? OFFSET ?`

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, domain.StoreErrorf("ranking: %w", err)
	}
	return toSummaries(rows)
}

// CountSuppliers reports the supplier population size.
func (r *SupplierRepo) CountSuppliers(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM dim_fornecedor`); err != nil {
		return 0, domain.StoreErrorf("count suppliers: %w", err)
	}
	return n, nil
}

func (row supplierRow) toDomain() (domain.Supplier, error) {
	id, err := domain.ParseCompanyID(row.CNPJ)
	if err != nil {
		return domain.Supplier{}, domain.StoreErrorf("supplier row: %v", err)
	}
	s := domain.Supplier{
		ID:                   id,
		LegalName:            row.RazaoSocial,
		Status:               domain.CadastralStatus(row.Situacao),
		ActivityCode:         domain.CNAECode(row.CNAEPrincipal.String),
		ActivityDescription:  row.CNAEDescricao.String,
		SameAddressSuppliers: row.MesmoEndereco,
		TotalContracts:       row.QtdContratos,
	}
	if row.DataAbertura.Valid {
		t := row.DataAbertura.Time
		s.OpeningDate = &t
	}
	if row.CapitalSocial.Valid {
		m, err := domain.MoneyFromString(row.CapitalSocial.String)
		if err != nil {
			return domain.Supplier{}, domain.StoreErrorf("supplier %s capital: %v", row.CNPJ, err)
		}
		s.Capital = &m
	}
	if row.Logradouro.Valid {
		s.Address = &domain.Address{
			Street:  row.Logradouro.String,
			Number:  row.Numero.String,
			City:    row.Municipio.String,
			State:   row.UF.String,
			ZipCode: row.CEP.String,
		}
	}
	if row.QtdFuncionarios.Valid {
		n := int(row.QtdFuncionarios.Int64)
		s.EmployeeCount = &n
	}
	if row.ValorContratado.Valid {
		m, err := domain.MoneyFromString(row.ValorContratado.String)
		if err != nil {
			return domain.Supplier{}, domain.StoreErrorf("supplier %s contracted total: %v", row.CNPJ, err)
		}
		s.TotalContractedValue = m
	}
	return s, nil
}

func toSummaries(rows []summaryRow) ([]persistence.SupplierSummary, error) {
	out := make([]persistence.SupplierSummary, 0, len(rows))
	for _, row := range rows {
		id, err := domain.ParseCompanyID(row.CNPJ)
		if err != nil {
			return nil, domain.StoreErrorf("summary row: %v", err)
		}
		score := row.Score
		if score > 100 {
			score = 100
		}
		sum := persistence.SupplierSummary{
			ID:             id,
			LegalName:      row.RazaoSocial,
			Status:         domain.CadastralStatus(row.Situacao),
			Score:          score,
			Band:           domain.BandFor(score),
			AlertCount:     row.QtdAlertas,
			TotalContracts: row.QtdContratos,
		}
		if row.ValorContratado.Valid {
			m, err := domain.MoneyFromString(row.ValorContratado.String)
			if err != nil {
				return nil, domain.StoreErrorf("summary %s total: %v", row.CNPJ, err)
			}
			sum.TotalContractedValue = m
		}
		out = append(out, sum)
	}
	return out, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
