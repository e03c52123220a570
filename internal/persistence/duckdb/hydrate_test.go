package duckdb

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// Row hydration is pure and testable without a live store.

func TestSupplierRowToDomain(t *testing.T) {
	opened := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	row := supplierRow{
		CNPJ:            "11222333000181",
		RazaoSocial:     "Fornecedora Alfa LTDA",
		Situacao:        "ATIVA",
		DataAbertura:    sql.NullTime{Time: opened, Valid: true},
		CapitalSocial:   sql.NullString{String: "10000.00", Valid: true},
		CNAEPrincipal:   sql.NullString{String: "6201-5", Valid: true},
		Logradouro:      sql.NullString{String: "Rua A", Valid: true},
		Numero:          sql.NullString{String: "10", Valid: true},
		QtdFuncionarios: sql.NullInt64{Int64: 3, Valid: true},
		MesmoEndereco:   2,
		QtdContratos:    5,
		ValorContratado: sql.NullString{String: "123456.78", Valid: true},
	}

	s, err := row.toDomain()
	require.NoError(t, err)

	assert.Equal(t, "11222333000181", s.ID.String())
	assert.Equal(t, domain.StatusActive, s.Status)
	require.NotNil(t, s.OpeningDate)
	assert.Equal(t, opened, *s.OpeningDate)
	require.NotNil(t, s.Capital)
	assert.Equal(t, "10000.00", s.Capital.String())
	require.NotNil(t, s.EmployeeCount)
	assert.Equal(t, 3, *s.EmployeeCount)
	assert.Equal(t, 2, s.SameAddressSuppliers)
	assert.Equal(t, "123456.78", s.TotalContractedValue.String())
	require.NotNil(t, s.Address)
	assert.Equal(t, "Rua A", s.Address.Street)
}

func TestSupplierRowNullsStayNil(t *testing.T) {
	row := supplierRow{CNPJ: "11222333000181", RazaoSocial: "Minima", Situacao: "BAIXADA"}

	s, err := row.toDomain()
	require.NoError(t, err)

	assert.Nil(t, s.OpeningDate)
	assert.Nil(t, s.Capital)
	assert.Nil(t, s.EmployeeCount)
	assert.Nil(t, s.Address)
	assert.Equal(t, "0.00", s.TotalContractedValue.String())
}

func TestSupplierRowBadIDFails(t *testing.T) {
	row := supplierRow{CNPJ: "123", RazaoSocial: "Quebrada"}
	_, err := row.toDomain()
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestToSummariesClampsScore(t *testing.T) {
	rows := []summaryRow{{
		CNPJ:        "11222333000181",
		RazaoSocial: "Pontuada",
		Situacao:    "ATIVA",
		Score:       105,
	}}

	out, err := toSummaries(rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 100, out[0].Score)
	assert.Equal(t, domain.BandCritical, out[0].Band)
}

func TestHydrateContracts(t *testing.T) {
	signed := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	rows := []contractRow{{
		CNPJ:           "11222333000181",
		CodigoOrgao:    "26000",
		Valor:          "150000.00",
		Objeto:         sql.NullString{String: "Servico de limpeza", Valid: true},
		DataAssinatura: sql.NullTime{Time: signed, Valid: true},
	}}

	out, err := hydrateContracts(rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "150000.00", out[0].Value.String())
	assert.Equal(t, domain.GovOrgCode("26000"), out[0].OrgCode)
	require.NotNil(t, out[0].SignedOn)

	rows[0].Valor = "not-a-number"
	_, err = hydrateContracts(rows)
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestAlertRowToFeedItem(t *testing.T) {
	row := alertRow{
		ID:          "6f1f9a3e-8f2b-4c9e-9a53-1d2f3e4a5b6c",
		CNPJ:        "11222333000181",
		RazaoSocial: "Alertada SA",
		TipoAlerta:  "PARTNER_IS_PUBLIC_SERVANT",
		Severidade:  "GRAVISSIMO",
		Evidencia:   "partner_ref=abc, employing_body=MS",
		SocioHash:   sql.NullString{String: "abc", Valid: true},
		DetectadoEm: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}

	item, err := row.toFeedItem()
	require.NoError(t, err)
	assert.Equal(t, domain.AlertPartnerPublicServant, item.Alert.Kind)
	assert.Equal(t, "Alertada SA", item.SupplierName)
	require.NotNil(t, item.Alert.Partner)
	assert.Equal(t, domain.PersonRef("abc"), *item.Alert.Partner)

	row.TipoAlerta = "NOT_A_KIND"
	_, err = row.toFeedItem()
	assert.ErrorIs(t, err, domain.ErrStore)
}
