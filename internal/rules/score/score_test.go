package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func money(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func moneyPtr(t *testing.T, s string) *domain.Money {
	m := money(t, s)
	return &m
}

func companyID(t *testing.T) domain.CompanyID {
	t.Helper()
	id, err := domain.ParseCompanyID("11.222.333/0001-81")
	require.NoError(t, err)
	return id
}

func contract(t *testing.T, org, value, subject string, signed *time.Time) domain.Contract {
	t.Helper()
	orgCode, err := domain.ParseGovOrgCode(org)
	require.NoError(t, err)
	c, err := domain.NewContract(companyID(t), orgCode, money(t, value), subject, "", signed, nil)
	require.NoError(t, err)
	return c
}

func kinds(b domain.ScoreBreakdown) []domain.IndicatorKind {
	out := make([]domain.IndicatorKind, 0, len(b.Indicators))
	for _, ind := range b.Indicators {
		out = append(out, ind.Kind)
	}
	return out
}

func TestComputeRecentLowCapitalMismatch(t *testing.T) {
	in := Input{
		Supplier: domain.Supplier{
			ID:           companyID(t),
			Status:       domain.StatusActive,
			OpeningDate:  datePtr(2024, time.January, 10),
			Capital:      moneyPtr(t, "1000.00"),
			ActivityCode: "4711-3",
		},
		Contracts: []domain.Contract{
			contract(t, "26000", "150000.00", "Desenvolvimento de software de gestao", datePtr(2024, time.April, 10)),
		},
		Reference: date(2024, time.June, 1),
		Now:       date(2024, time.June, 1),
	}

	got := Compute(in)

	assert.ElementsMatch(t, []domain.IndicatorKind{
		domain.IndicatorLowCapital,
		domain.IndicatorRecentCompany,
		domain.IndicatorActivityMismatch,
	}, kinds(got))
	assert.Equal(t, 35, got.Total())
	assert.Equal(t, domain.BandModerate, got.Band())
}

func TestComputeNoDataNoIndicators(t *testing.T) {
	got := Compute(Input{Supplier: domain.Supplier{ID: companyID(t)}, Reference: date(2024, time.June, 1)})
	assert.Empty(t, got.Indicators)
	assert.Equal(t, 0, got.Total())
	assert.Equal(t, domain.BandLow, got.Band())
}

func TestLowCapitalNeedsLargeContract(t *testing.T) {
	in := Input{
		Supplier: domain.Supplier{Capital: moneyPtr(t, "500.00"), ActivityCode: "4711-3"},
		Contracts: []domain.Contract{
			contract(t, "26000", "90000.00", "Material de escritorio", datePtr(2024, time.March, 1)),
		},
	}
	assert.Nil(t, lowCapital(in))

	in.Contracts = append(in.Contracts, contract(t, "26000", "100000.01", "Material de escritorio", datePtr(2024, time.March, 2)))
	assert.NotNil(t, lowCapital(in))
}

func TestLowCapitalServiceThreshold(t *testing.T) {
	// 7000 is low for commerce but fine for a service activity.
	in := Input{
		Supplier: domain.Supplier{Capital: moneyPtr(t, "7000.00"), ActivityCode: "6201-5"},
		Contracts: []domain.Contract{
			contract(t, "26000", "200000.00", "Sistema de folha", datePtr(2024, time.March, 1)),
		},
	}
	assert.Nil(t, lowCapital(in))

	in.Supplier.ActivityCode = "4711-3"
	assert.NotNil(t, lowCapital(in))
}

func TestRecentCompanyWindow(t *testing.T) {
	in := Input{
		Supplier: domain.Supplier{OpeningDate: datePtr(2023, time.January, 1)},
		Contracts: []domain.Contract{
			contract(t, "26000", "1000.00", "x", datePtr(2023, time.March, 15)),
		},
	}
	require.NotNil(t, recentCompany(in))

	in.Contracts[0].SignedOn = datePtr(2023, time.December, 1)
	assert.Nil(t, recentCompany(in))

	in.Supplier.OpeningDate = nil
	assert.Nil(t, recentCompany(in))
}

func TestExclusiveBuyerNeedsTwoContracts(t *testing.T) {
	in := Input{Contracts: []domain.Contract{
		contract(t, "26000", "1000.00", "x", datePtr(2024, time.March, 1)),
	}}
	assert.Nil(t, exclusiveBuyer(in))

	in.Contracts = append(in.Contracts, contract(t, "26000", "2000.00", "y", datePtr(2024, time.April, 1)))
	assert.NotNil(t, exclusiveBuyer(in))

	in.Contracts = append(in.Contracts, contract(t, "36000", "2000.00", "z", datePtr(2024, time.May, 1)))
	assert.Nil(t, exclusiveBuyer(in))
}

func TestNoEmployeesRequiresKnownZeroAndServiceSubject(t *testing.T) {
	zero := 0
	in := Input{
		Supplier: domain.Supplier{EmployeeCount: nil},
		Contracts: []domain.Contract{
			contract(t, "26000", "1000.00", "Servico de limpeza predial", datePtr(2024, time.March, 1)),
		},
	}
	assert.Nil(t, noEmployees(in), "unknown employee count stays silent")

	in.Supplier.EmployeeCount = &zero
	assert.NotNil(t, noEmployees(in))

	in.Contracts[0].Subject = "Aquisicao de cadeiras"
	assert.Nil(t, noEmployees(in), "goods contracts do not need staff")
}

func TestSuddenGrowthConsecutiveYearsOnly(t *testing.T) {
	in := Input{Contracts: []domain.Contract{
		contract(t, "26000", "50000.00", "a", datePtr(2022, time.March, 1)),
		contract(t, "26000", "600000.00", "b", datePtr(2023, time.July, 1)),
	}}
	ind := suddenGrowth(in)
	require.NotNil(t, ind)
	assert.Contains(t, ind.Evidence, "prev_year=2022")
	assert.Contains(t, ind.Evidence, "ratio=12")

	// A gap year breaks the comparison.
	in.Contracts[1].SignedOn = datePtr(2024, time.July, 1)
	assert.Nil(t, suddenGrowth(in))

	// Below the ratio.
	in.Contracts[1] = contract(t, "26000", "400000.00", "b", datePtr(2023, time.July, 1))
	assert.Nil(t, suddenGrowth(in))
}

func TestSharedAddressFiresAtOne(t *testing.T) {
	in := Input{Supplier: domain.Supplier{SameAddressSuppliers: 0}}
	assert.Nil(t, sharedAddress(in))

	in.Supplier.SameAddressSuppliers = 1
	assert.NotNil(t, sharedAddress(in))
}

func TestHistoricalSanctionIgnoresActive(t *testing.T) {
	ref := date(2024, time.June, 1)
	active, err := domain.NewSanction(domain.SanctionCEIS, "CGU", "fraude", date(2023, time.January, 1), datePtr(2025, time.January, 1))
	require.NoError(t, err)
	expired, err := domain.NewSanction(domain.SanctionCNEP, "CGU", "fraude", date(2020, time.January, 1), datePtr(2021, time.January, 1))
	require.NoError(t, err)

	assert.Nil(t, historicalSanction(Input{Sanctions: []domain.Sanction{active}, Reference: ref}))

	ind := historicalSanction(Input{Sanctions: []domain.Sanction{active, expired}, Reference: ref})
	require.NotNil(t, ind)
	assert.Equal(t, "expired_sanctions=1", ind.Evidence)
}

func TestPartnerInManySuppliersThreshold(t *testing.T) {
	in := Input{Partners: []domain.Partner{
		{Ref: "p1", GovSupplierCount: 2},
		{Ref: "p2", GovSupplierCount: 3},
	}}
	ind := partnerInManySuppliers(in)
	require.NotNil(t, ind)
	assert.Equal(t, "partners_over_threshold=1", ind.Evidence)

	in.Partners[1].GovSupplierCount = 2
	assert.Nil(t, partnerInManySuppliers(in))
}

func TestTotalClampedAtHundred(t *testing.T) {
	b := domain.ScoreBreakdown{}
	for _, k := range domain.IndicatorKinds {
		b.Indicators = append(b.Indicators, domain.Indicator{Kind: k, Weight: domain.IndicatorWeights[k]})
	}
	assert.Equal(t, 100, b.Total())
	assert.Equal(t, domain.BandCritical, b.Band())
}

// Indicator kinds and alert kinds are separate vocabularies; neither names
// the other's conditions.
func TestIndicatorKindsDisjointFromAlertKinds(t *testing.T) {
	alertSet := make(map[string]bool, len(domain.AlertKinds))
	for _, k := range domain.AlertKinds {
		alertSet[string(k)] = true
	}
	for _, k := range domain.IndicatorKinds {
		assert.False(t, alertSet[string(k)], "indicator %s collides with an alert kind", k)
	}
}
