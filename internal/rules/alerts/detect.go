// Package alerts detects binary critical conditions. Pure functions only:
// detectors read the assembled input and emit alerts, zero IO.
//
// Alerts and score are independent dimensions. This package never imports
// the score package and no indicator kind appears here.
package alerts

import (
	"fmt"
	"time"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// StrawmanConfig parameterizes the strawman heuristics. Both branches are
// conjunctions; a missing input disables the branch for that subject
// instead of guessing.
type StrawmanConfig struct {
	MinPartnerAge          int
	MaxPartnerAge          int
	MaxDaysToFirstContract int
	MaxCapital             domain.Money
	MinContractedTotal     domain.Money
}

// DefaultStrawmanConfig returns the production thresholds.
func DefaultStrawmanConfig() StrawmanConfig {
	return StrawmanConfig{
		MinPartnerAge:          20,
		MaxPartnerAge:          80,
		MaxDaysToFirstContract: 365,
		MaxCapital:             domain.MoneyFromInt(10_000),
		MinContractedTotal:     domain.MoneyFromInt(500_000),
	}
}

// Donation thresholds for the contract-awarder detector.
var (
	donationFloor      = domain.MoneyFromInt(10_000)
	awarderContractMin = domain.MoneyFromInt(500_000)
)

// TenderOverlap is one tender in which the supplier and a partner-linked
// other supplier both appear. The view is assembled by the store; a nil
// slice means the view is unavailable and the detector stays silent.
type TenderOverlap struct {
	Tender        domain.TenderNumber
	OtherSupplier domain.CompanyID
	SharedPartner domain.PersonRef
}

// Input is the assembled evidence a detection pass reads.
type Input struct {
	Supplier       domain.Supplier
	Partners       []domain.Partner
	Sanctions      []domain.Sanction
	Contracts      []domain.Contract
	Donations      []domain.Donation
	TenderOverlaps []TenderOverlap
	Strawman       StrawmanConfig
	Reference      time.Time
	Now            time.Time
}

type detector func(Input, *emitter)

// Detectors run in kind order so output ordering is stable.
var detectors = []detector{
	detectPartnerPublicServant,
	detectSanctionedStillContracting,
	detectTenderRotation,
	detectDonationToContractAwarder,
	detectPartnerSanctionedElsewhere,
	detectStrawman,
}

// Detect runs every detector and returns the deduplicated alerts. At most
// one alert survives per (kind, partner) pair; supplier-level alerts use a
// nil partner.
func Detect(in Input) []domain.CriticalAlert {
	e := &emitter{
		supplier: in.Supplier.ID,
		now:      in.Now,
		seen:     make(map[string]bool),
	}
	for _, d := range detectors {
		d(in, e)
	}
	return e.alerts
}

type emitter struct {
	supplier domain.CompanyID
	now      time.Time
	seen     map[string]bool
	alerts   []domain.CriticalAlert
}

func (e *emitter) emit(kind domain.AlertKind, severity domain.Severity, description, evidence string, partner *domain.PersonRef) {
	key := string(kind)
	if partner != nil {
		key += "|" + string(*partner)
	}
	if e.seen[key] {
		return
	}
	a, err := domain.NewCriticalAlert(kind, severity, description, evidence, e.supplier, partner, e.now)
	if err != nil {
		return
	}
	e.seen[key] = true
	e.alerts = append(e.alerts, a)
}

func detectPartnerPublicServant(in Input, e *emitter) {
	for i := range in.Partners {
		p := &in.Partners[i]
		if !p.IsPublicServant {
			continue
		}
		e.emit(domain.AlertPartnerPublicServant, domain.SeverityGravissimo,
			fmt.Sprintf("Partner %s is an active public servant", p.Name),
			fmt.Sprintf("partner_ref=%s, employing_body=%s", p.Ref, p.EmployingBody),
			&p.Ref)
	}
}

// detectSanctionedStillContracting fires when a contract was signed on or
// after the start of a sanction still active on the reference date.
func detectSanctionedStillContracting(in Input, e *emitter) {
	var earliest *time.Time
	var kind domain.SanctionKind
	for _, s := range in.Sanctions {
		if !s.Active(in.Reference) {
			continue
		}
		start := s.Start
		if earliest == nil || start.Before(*earliest) {
			earliest = &start
			kind = s.Kind
		}
	}
	if earliest == nil {
		return
	}
	after := 0
	for _, c := range in.Contracts {
		if c.SignedOn != nil && !c.SignedOn.Before(*earliest) {
			after++
		}
	}
	if after == 0 {
		return
	}
	e.emit(domain.AlertSanctionedStillContracting, domain.SeverityGravissimo,
		fmt.Sprintf("Supplier kept winning contracts under an active %s sanction", kind),
		fmt.Sprintf("sanction=%s, sanction_start=%s, contracts_after=%d",
			kind, earliest.Format("2006-01-02"), after),
		nil)
}

func detectTenderRotation(in Input, e *emitter) {
	if len(in.TenderOverlaps) == 0 {
		return
	}
	tenders := make(map[domain.TenderNumber]bool)
	others := make(map[domain.CompanyID]bool)
	first := in.TenderOverlaps[0]
	for _, o := range in.TenderOverlaps {
		tenders[o.Tender] = true
		others[o.OtherSupplier] = true
	}
	e.emit(domain.AlertTenderRotation, domain.SeverityGravissimo,
		fmt.Sprintf("Competes in the same tenders as %d partner-linked supplier(s)", len(others)),
		fmt.Sprintf("shared_tenders=%d, related_suppliers=%d, tender=%s, related=%s",
			len(tenders), len(others), first.Tender, first.OtherSupplier),
		nil)
}

// detectDonationToContractAwarder fires per qualifying donation: donation
// above the floor and a contract above the minimum with the awarding body
// when the donation resolved to one, or with any body otherwise.
func detectDonationToContractAwarder(in Input, e *emitter) {
	for _, d := range in.Donations {
		if !d.Amount.GreaterThan(donationFloor) {
			continue
		}
		match := matchingAwarderContract(in.Contracts, d.AwarderOrg)
		if match == nil {
			continue
		}
		e.emit(domain.AlertDonationToContractAwarder, domain.SeverityGrave,
			fmt.Sprintf("Donated %s to %s and holds a %s contract", d.Amount, d.CandidateName, match.Value),
			fmt.Sprintf("donation=%s, candidate=%s, year=%d, org_code=%s, contract_value=%s",
				d.Amount, d.CandidateName, d.ElectionYear, match.OrgCode, match.Value),
			d.PartnerRef)
	}
}

func matchingAwarderContract(contracts []domain.Contract, awarder domain.GovOrgCode) *domain.Contract {
	for i := range contracts {
		c := &contracts[i]
		if !c.Value.GreaterThan(awarderContractMin) {
			continue
		}
		if awarder != "" && c.OrgCode != awarder {
			continue
		}
		return c
	}
	return nil
}

func detectPartnerSanctionedElsewhere(in Input, e *emitter) {
	for i := range in.Partners {
		p := &in.Partners[i]
		if !p.IsSanctioned {
			continue
		}
		e.emit(domain.AlertPartnerSanctionedElsewhere, domain.SeverityGrave,
			fmt.Sprintf("Partner %s carries a sanction from another company", p.Name),
			fmt.Sprintf("partner_ref=%s, gov_supplier_count=%d", p.Ref, p.GovSupplierCount),
			&p.Ref)
	}
}

// detectStrawman evaluates both branches. Branch A is per partner and needs
// a birth date; branch B is company level and needs opening date, capital
// and at least one signed contract.
func detectStrawman(in Input, e *emitter) {
	cfg := in.Strawman
	for i := range in.Partners {
		p := &in.Partners[i]
		if p.BirthDate == nil {
			continue
		}
		age := yearsBetween(*p.BirthDate, in.Reference)
		if age >= cfg.MinPartnerAge && age <= cfg.MaxPartnerAge {
			continue
		}
		e.emit(domain.AlertStrawman, domain.SeverityGravissimo,
			fmt.Sprintf("Partner %s is %d years old, outside the plausible ownership range", p.Name, age),
			fmt.Sprintf("partner_ref=%s, age=%d, min_age=%d, max_age=%d",
				p.Ref, age, cfg.MinPartnerAge, cfg.MaxPartnerAge),
			&p.Ref)
	}

	if in.Supplier.OpeningDate == nil || in.Supplier.Capital == nil {
		return
	}
	first := firstSigningDate(in.Contracts)
	if first == nil {
		return
	}
	days := int(first.Sub(*in.Supplier.OpeningDate).Hours() / 24)
	if days >= cfg.MaxDaysToFirstContract {
		return
	}
	if in.Supplier.Capital.Cmp(cfg.MaxCapital) >= 0 {
		return
	}
	if in.Supplier.TotalContractedValue.LessThan(cfg.MinContractedTotal) {
		return
	}
	e.emit(domain.AlertStrawman, domain.SeverityGravissimo,
		fmt.Sprintf("Opened with %s capital and reached %s in contracts within %d days",
			in.Supplier.Capital, in.Supplier.TotalContractedValue, days),
		fmt.Sprintf("days_to_first_contract=%d, capital=%s, contracted_total=%s",
			days, in.Supplier.Capital, in.Supplier.TotalContractedValue),
		nil)
}

func yearsBetween(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(ref) {
		years--
	}
	return years
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
