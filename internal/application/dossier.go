package application

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
	"github.com/LionartBR/testa-de-ferro/internal/persistence"
	"github.com/LionartBR/testa-de-ferro/internal/rules/alerts"
	"github.com/LionartBR/testa-de-ferro/internal/rules/score"
)

// DossierDeps names the store capabilities the dossier assembly consumes.
type DossierDeps struct {
	Suppliers persistence.SupplierReader
	Contracts persistence.ContractLister
	Sanctions persistence.SanctionLister
	Partners  persistence.PartnerLister
	Donations persistence.DonationLister
	Graph     persistence.GraphReader
}

// DossierService assembles the complete per-supplier answer: cadastral
// data, collections, alerts, score, disclaimer.
type DossierService struct {
	deps       DossierDeps
	strawman   alerts.StrawmanConfig
	disclaimer string
	now        func() time.Time
}

// NewDossierService wires the service. A nil clock defaults to time.Now.
func NewDossierService(deps DossierDeps, strawman alerts.StrawmanConfig, disclaimer string, now func() time.Time) *DossierService {
	if now == nil {
		now = time.Now
	}
	return &DossierService{deps: deps, strawman: strawman, disclaimer: disclaimer, now: now}
}

// Build fetches everything, runs both rule engines, and projects the
// dossier. The two engines see the same assembled input and never each
// other's output.
func (s *DossierService) Build(ctx context.Context, id domain.CompanyID) (Dossier, error) {
	supplier, err := s.deps.Suppliers.Supplier(ctx, id)
	if err != nil {
		return Dossier{}, err
	}
	contracts, err := s.deps.Contracts.Contracts(ctx, id)
	if err != nil {
		return Dossier{}, err
	}
	sanctions, err := s.deps.Sanctions.Sanctions(ctx, id)
	if err != nil {
		return Dossier{}, err
	}
	partners, err := s.deps.Partners.Partners(ctx, id)
	if err != nil {
		return Dossier{}, err
	}
	donations, err := s.deps.Donations.Donations(ctx, id)
	if err != nil {
		return Dossier{}, err
	}
	overlaps, err := s.deps.Graph.TenderOverlaps(ctx, id)
	if err != nil {
		// The rotation view is optional input; the detector stays silent
		// without it rather than failing the dossier.
		log.Warn().Str("supplier", id.String()).Err(err).Msg("tender overlap view unavailable")
		overlaps = nil
	}

	now := s.now().UTC()
	detected := alerts.Detect(alerts.Input{
		Supplier:       supplier,
		Partners:       partners,
		Sanctions:      sanctions,
		Contracts:      contracts,
		Donations:      donations,
		TenderOverlaps: toOverlaps(overlaps),
		Strawman:       s.strawman,
		Reference:      now,
		Now:            now,
	})
	breakdown := score.Compute(score.Input{
		Supplier:  supplier,
		Partners:  partners,
		Sanctions: sanctions,
		Contracts: contracts,
		Reference: now,
		Now:       now,
	})

	return Dossier{
		Supplier:   toSupplierView(supplier),
		Contracts:  toContractViews(contracts),
		Partners:   toPartnerViews(partners),
		Sanctions:  toSanctionViews(sanctions, now),
		Donations:  toDonationViews(donations),
		Alerts:     toAlertViews(detected),
		Score:      toScoreView(breakdown),
		Disclaimer: s.disclaimer,
	}, nil
}

func toOverlaps(records []persistence.TenderOverlapRecord) []alerts.TenderOverlap {
	if records == nil {
		return nil
	}
	out := make([]alerts.TenderOverlap, 0, len(records))
	for _, r := range records {
		out = append(out, alerts.TenderOverlap{
			Tender:        r.Tender,
			OtherSupplier: r.OtherSupplier,
			SharedPartner: r.SharedPartner,
		})
	}
	return out
}

func toSupplierView(s domain.Supplier) SupplierView {
	v := SupplierView{
		ID:                   s.ID.String(),
		LegalName:            s.LegalName,
		Status:               string(s.Status),
		OpeningDate:          dateString(s.OpeningDate),
		ActivityCode:         string(s.ActivityCode),
		ActivityDescription:  s.ActivityDescription,
		EmployeeCount:        s.EmployeeCount,
		TotalContracts:       s.TotalContracts,
		TotalContractedValue: s.TotalContractedValue.String(),
	}
	if s.Capital != nil {
		c := s.Capital.String()
		v.Capital = &c
	}
	if s.Address != nil {
		v.Address = &Address{
			Street:  s.Address.Street,
			Number:  s.Address.Number,
			City:    s.Address.City,
			State:   s.Address.State,
			ZipCode: s.Address.ZipCode,
		}
	}
	return v
}

func toContractViews(contracts []domain.Contract) []ContractView {
	out := make([]ContractView, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, ContractView{
			OrgCode:      string(c.OrgCode),
			Value:        c.Value.String(),
			Subject:      c.Subject,
			TenderNumber: string(c.TenderNumber),
			SignedOn:     dateString(c.SignedOn),
			ValidUntil:   dateString(c.ValidUntil),
		})
	}
	return out
}

func toPartnerViews(partners []domain.Partner) []PartnerView {
	out := make([]PartnerView, 0, len(partners))
	for _, p := range partners {
		v := PartnerView{
			Ref:              string(p.Ref),
			Name:             p.Name,
			Qualification:    p.Qualification,
			IsPublicServant:  p.IsPublicServant,
			EmployingBody:    p.EmployingBody,
			IsSanctioned:     p.IsSanctioned,
			GovSupplierCount: p.GovSupplierCount,
			EntryDate:        dateString(p.EntryDate),
			ExitDate:         dateString(p.ExitDate),
		}
		if p.CapitalShare != nil {
			s := p.CapitalShare.String()
			v.CapitalShare = &s
		}
		out = append(out, v)
	}
	return out
}

func toSanctionViews(sanctions []domain.Sanction, ref time.Time) []SanctionView {
	out := make([]SanctionView, 0, len(sanctions))
	for _, s := range sanctions {
		out = append(out, SanctionView{
			Kind:   string(s.Kind),
			Body:   s.Body,
			Reason: s.Reason,
			Start:  s.Start.Format(dateLayout),
			End:    dateString(s.End),
			Active: s.Active(ref),
		})
	}
	return out
}

func toDonationViews(donations []domain.Donation) []DonationView {
	out := make([]DonationView, 0, len(donations))
	for _, d := range donations {
		v := DonationView{
			CandidateName:   d.CandidateName,
			CandidateParty:  d.CandidateParty,
			CandidateOffice: d.CandidateOffice,
			Amount:          d.Amount.String(),
			ElectionYear:    d.ElectionYear,
			ResourceType:    d.ResourceType,
		}
		if d.PartnerRef != nil {
			r := string(*d.PartnerRef)
			v.PartnerRef = &r
		}
		out = append(out, v)
	}
	return out
}

func toAlertViews(detected []domain.CriticalAlert) []AlertView {
	out := make([]AlertView, 0, len(detected))
	for _, a := range detected {
		v := AlertView{
			ID:          a.ID.String(),
			Kind:        string(a.Kind),
			Severity:    string(a.Severity),
			Description: a.Description,
			Evidence:    a.Evidence,
			DetectedAt:  a.DetectedAt.UTC().Format(time.RFC3339),
		}
		if a.Partner != nil {
			r := string(*a.Partner)
			v.PartnerRef = &r
		}
		out = append(out, v)
	}
	return out
}

func toScoreView(b domain.ScoreBreakdown) ScoreView {
	v := ScoreView{
		Total:      b.Total(),
		Band:       string(b.Band()),
		Indicators: make([]IndicatorView, 0, len(b.Indicators)),
		ComputedAt: b.ComputedAt.UTC().Format(time.RFC3339),
	}
	for _, ind := range b.Indicators {
		v.Indicators = append(v.Indicators, IndicatorView{
			Kind:        string(ind.Kind),
			Weight:      ind.Weight,
			Description: ind.Description,
			Evidence:    ind.Evidence,
		})
	}
	return v
}
