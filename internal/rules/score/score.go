// Package score computes the cumulative risk score. Pure functions only:
// same input, same output, zero IO.
//
// Score and alerts are independent dimensions. This package never imports
// the alerts package and no alert kind appears here.
package score

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/rules/activity"
)

// Thresholds for the individual predicates.
var (
	// Capital considered "low" by sector. Service activities tolerate
	// lower declared capital than commerce.
	capitalThresholdService  = domain.MoneyFromInt(5_000)
	capitalThresholdCommerce = domain.MoneyFromInt(10_000)

	// A single contract above this makes low capital meaningful.
	contractFloorForCapital = domain.MoneyFromInt(100_000)

	// Year-over-year growth ratio that flags sudden growth.
	suddenGrowthRatio = decimal.NewFromInt(10)
)

const recentCompanyMonths = 6

// daysPerMonth is the civil-calendar average used for the recent-company
// window.
const daysPerMonth = 30.44

// Input is the in-memory data the engine evaluates. The caller supplies
// the reference date and the computed-at timestamp for testability.
type Input struct {
	Supplier  domain.Supplier
	Partners  []domain.Partner
	Sanctions []domain.Sanction
	Contracts []domain.Contract
	Reference time.Time
	Now       time.Time
}

type predicate func(Input) *domain.Indicator

// Breakdown order is fixed here, not by map iteration.
var predicates = []predicate{
	lowCapital,
	recentCompany,
	activityMismatch,
	partnerInManySuppliers,
	sharedAddress,
	exclusiveBuyer,
	noEmployees,
	suddenGrowth,
	historicalSanction,
}

// Compute evaluates every predicate independently and sums the weights of
// the active ones. Total is clamped at 100 by the breakdown itself.
func Compute(in Input) domain.ScoreBreakdown {
	var active []domain.Indicator
	for _, p := range predicates {
		if ind := p(in); ind != nil {
			active = append(active, *ind)
		}
	}
	return domain.ScoreBreakdown{Indicators: active, ComputedAt: in.Now}
}

func indicator(kind domain.IndicatorKind, description, evidence string) *domain.Indicator {
	return &domain.Indicator{
		Kind:        kind,
		Weight:      domain.IndicatorWeights[kind],
		Description: description,
		Evidence:    evidence,
	}
}

// lowCapital: capital under the sector threshold while at least one
// contract exceeds the floor.
func lowCapital(in Input) *domain.Indicator {
	if in.Supplier.Capital == nil || len(in.Contracts) == 0 {
		return nil
	}
	threshold := capitalThresholdCommerce
	if cat := activity.CategoryOf(string(in.Supplier.ActivityCode)); cat != "" && activity.IsService(cat) {
		threshold = capitalThresholdService
	}
	if in.Supplier.Capital.Cmp(threshold) >= 0 {
		return nil
	}
	var largest domain.Money
	for _, c := range in.Contracts {
		if c.Value.GreaterThan(largest) {
			largest = c.Value
		}
	}
	if !largest.GreaterThan(contractFloorForCapital) {
		return nil
	}
	return indicator(domain.IndicatorLowCapital,
		fmt.Sprintf("Declared capital %s disproportionate to a %s contract", in.Supplier.Capital, largest),
		fmt.Sprintf("capital=%s, largest_contract=%s, threshold=%s", in.Supplier.Capital, largest, threshold))
}

// recentCompany: opened less than six months before the first contract.
func recentCompany(in Input) *domain.Indicator {
	if in.Supplier.OpeningDate == nil {
		return nil
	}
	first := firstSigningDate(in.Contracts)
	if first == nil {
		return nil
	}
	days := first.Sub(*in.Supplier.OpeningDate).Hours() / 24
	if days/daysPerMonth >= recentCompanyMonths {
		return nil
	}
	return indicator(domain.IndicatorRecentCompany,
		fmt.Sprintf("Company opened %s won its first contract %d days later",
			in.Supplier.OpeningDate.Format("2006-01-02"), int(days)),
		fmt.Sprintf("opening_date=%s, first_contract=%s, days=%d",
			in.Supplier.OpeningDate.Format("2006-01-02"), first.Format("2006-01-02"), int(days)))
}

// activityMismatch: primary activity category disjoint from a contract
// subject category per the curated table.
func activityMismatch(in Input) *domain.Indicator {
	code := string(in.Supplier.ActivityCode)
	cat := activity.CategoryOf(code)
	if cat == "" {
		return nil
	}
	for _, c := range in.Contracts {
		subjectCat := activity.SubjectCategory(c.Subject)
		if subjectCat == "" {
			continue
		}
		if activity.Incompatible(code, subjectCat) {
			return indicator(domain.IndicatorActivityMismatch,
				fmt.Sprintf("Activity %s (%s) incompatible with contracted subject (%s)", code, cat, subjectCat),
				fmt.Sprintf("cnae=%s, cnae_category=%s, subject_category=%s", code, cat, subjectCat))
		}
	}
	return nil
}

// partnerInManySuppliers: any partner present in three or more government
// suppliers.
func partnerInManySuppliers(in Input) *domain.Indicator {
	const threshold = 3
	count := 0
	for _, p := range in.Partners {
		if p.GovSupplierCount >= threshold {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return indicator(domain.IndicatorPartnerInManySuppliers,
		fmt.Sprintf("%d partner(s) present in %d+ government suppliers", count, threshold),
		fmt.Sprintf("partners_over_threshold=%d", count))
}

// sharedAddress: street + number match at least one other supplier. The
// count is precomputed by the pipeline; complement is ignored there.
func sharedAddress(in Input) *domain.Indicator {
	if in.Supplier.SameAddressSuppliers < 1 {
		return nil
	}
	return indicator(domain.IndicatorSharedAddress,
		fmt.Sprintf("Shares its address with %d other government supplier(s)", in.Supplier.SameAddressSuppliers),
		fmt.Sprintf("same_address_suppliers=%d", in.Supplier.SameAddressSuppliers))
}

// exclusiveBuyer: two or more contracts, all with the same org. A single
// contract is not exclusivity evidence.
func exclusiveBuyer(in Input) *domain.Indicator {
	if len(in.Contracts) < 2 {
		return nil
	}
	orgs := make(map[domain.GovOrgCode]struct{})
	for _, c := range in.Contracts {
		orgs[c.OrgCode] = struct{}{}
	}
	if len(orgs) != 1 {
		return nil
	}
	var only domain.GovOrgCode
	for org := range orgs {
		only = org
	}
	return indicator(domain.IndicatorExclusiveBuyer,
		fmt.Sprintf("All %d contracts are with the same government body", len(in.Contracts)),
		fmt.Sprintf("org_code=%s, contracts=%d", only, len(in.Contracts)))
}

// noEmployees: employee count known to be zero while at least one contract
// describes services. Unknown count yields no indicator.
func noEmployees(in Input) *domain.Indicator {
	if in.Supplier.EmployeeCount == nil || *in.Supplier.EmployeeCount > 0 {
		return nil
	}
	serviceContracts := 0
	for _, c := range in.Contracts {
		if cat := activity.SubjectCategory(c.Subject); cat != "" && activity.IsService(cat) {
			serviceContracts++
		}
	}
	if serviceContracts == 0 {
		return nil
	}
	return indicator(domain.IndicatorNoEmployees,
		fmt.Sprintf("No registered employees with %d service contract(s)", serviceContracts),
		fmt.Sprintf("employees=0, service_contracts=%d", serviceContracts))
}

// suddenGrowth: contracted total grows tenfold or more between consecutive
// years.
func suddenGrowth(in Input) *domain.Indicator {
	yearly := make(map[int]domain.Money)
	for _, c := range in.Contracts {
		if c.SignedOn == nil {
			continue
		}
		y := c.SignedOn.Year()
		yearly[y] = yearly[y].Add(c.Value)
	}
	years := make([]int, 0, len(yearly))
	for y := range yearly {
		years = append(years, y)
	}
	sort.Ints(years)
	for i := 1; i < len(years); i++ {
		prev, curr := years[i-1], years[i]
		if curr != prev+1 {
			continue
		}
		ratio, ok := yearly[curr].Ratio(yearly[prev])
		if !ok {
			continue
		}
		if ratio.GreaterThanOrEqual(suddenGrowthRatio) {
			return indicator(domain.IndicatorSuddenGrowth,
				fmt.Sprintf("Contracted value jumped %sx between %d and %d", ratio.Round(1), prev, curr),
				fmt.Sprintf("prev_year=%d, prev_total=%s, year=%d, total=%s, ratio=%s",
					prev, yearly[prev], curr, yearly[curr], ratio.Round(1)))
		}
	}
	return nil
}

// historicalSanction: an expired sanction contributes to the score and
// never becomes an alert.
func historicalSanction(in Input) *domain.Indicator {
	expired := 0
	for _, s := range in.Sanctions {
		if !s.Active(in.Reference) {
			expired++
		}
	}
	if expired == 0 {
		return nil
	}
	return indicator(domain.IndicatorHistoricalSanction,
		fmt.Sprintf("%d expired sanction(s) on record", expired),
		fmt.Sprintf("expired_sanctions=%d", expired))
}

func firstSigningDate(contracts []domain.Contract) *time.Time {
	var first *time.Time
	for _, c := range contracts {
		if c.SignedOn == nil {
			continue
		}
		if first == nil || c.SignedOn.Before(*first) {
			first = c.SignedOn
		}
	}
	return first
}
