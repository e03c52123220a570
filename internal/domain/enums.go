package domain

// AlertKind names a binary suspicious condition. Wire values match the
// analytical store's fato_alerta_critico rows.
type AlertKind string

const (
	AlertPartnerPublicServant        AlertKind = "PARTNER_IS_PUBLIC_SERVANT"
	AlertSanctionedStillContracting  AlertKind = "SANCTIONED_SUPPLIER_STILL_CONTRACTING"
	AlertTenderRotation              AlertKind = "TENDER_ROTATION"
	AlertDonationToContractAwarder   AlertKind = "DONATION_TO_CONTRACT_AWARDER"
	AlertPartnerSanctionedElsewhere  AlertKind = "PARTNER_SANCTIONED_ELSEWHERE"
	AlertStrawman                    AlertKind = "STRAWMAN"
)

// AlertKinds lists every kind in emission order. Detectors run in this
// order and the feed validates kind parameters against it.
var AlertKinds = []AlertKind{
	AlertPartnerPublicServant,
	AlertSanctionedStillContracting,
	AlertTenderRotation,
	AlertDonationToContractAwarder,
	AlertPartnerSanctionedElsewhere,
	AlertStrawman,
}

// ParseAlertKind validates a wire value against the enum.
func ParseAlertKind(s string) (AlertKind, error) {
	for _, k := range AlertKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", InvalidInputf("unknown alert kind %q", s)
}

// Severity grades an alert. The store keeps the original registry
// vocabulary: GRAVISSIMO outranks GRAVE.
type Severity string

const (
	SeverityGravissimo Severity = "GRAVISSIMO"
	SeverityGrave      Severity = "GRAVE"
)

// IndicatorKind names one cumulative-score predicate.
type IndicatorKind string

const (
	IndicatorLowCapital            IndicatorKind = "LOW_CAPITAL"
	IndicatorRecentCompany         IndicatorKind = "RECENT_COMPANY"
	IndicatorActivityMismatch      IndicatorKind = "ACTIVITY_MISMATCH"
	IndicatorPartnerInManySuppliers IndicatorKind = "PARTNER_IN_MANY_SUPPLIERS"
	IndicatorSharedAddress         IndicatorKind = "SHARED_ADDRESS"
	IndicatorExclusiveBuyer        IndicatorKind = "EXCLUSIVE_BUYER"
	IndicatorNoEmployees           IndicatorKind = "NO_EMPLOYEES"
	IndicatorSuddenGrowth          IndicatorKind = "SUDDEN_GROWTH"
	IndicatorHistoricalSanction    IndicatorKind = "HISTORICAL_SANCTION"
)

// IndicatorKinds lists every indicator kind.
var IndicatorKinds = []IndicatorKind{
	IndicatorLowCapital,
	IndicatorRecentCompany,
	IndicatorActivityMismatch,
	IndicatorPartnerInManySuppliers,
	IndicatorSharedAddress,
	IndicatorExclusiveBuyer,
	IndicatorNoEmployees,
	IndicatorSuddenGrowth,
	IndicatorHistoricalSanction,
}

// RiskBand buckets a score total.
type RiskBand string

const (
	BandLow      RiskBand = "Low"
	BandModerate RiskBand = "Moderate"
	BandHigh     RiskBand = "High"
	BandCritical RiskBand = "Critical"
)

// BandFor maps a clamped total onto its closed-interval band.
func BandFor(total int) RiskBand {
	switch {
	case total <= 20:
		return BandLow
	case total <= 40:
		return BandModerate
	case total <= 65:
		return BandHigh
	default:
		return BandCritical
	}
}

// CadastralStatus is the registry situation of a company.
type CadastralStatus string

const (
	StatusActive    CadastralStatus = "ATIVA"
	StatusSuspended CadastralStatus = "SUSPENSA"
	StatusUnfit     CadastralStatus = "INAPTA"
	StatusClosed    CadastralStatus = "BAIXADA"
	StatusVoid      CadastralStatus = "NULA"
)

// SanctionKind is one of the three public sanction registries.
type SanctionKind string

const (
	SanctionCEIS  SanctionKind = "CEIS"
	SanctionCNEP  SanctionKind = "CNEP"
	SanctionCEPIM SanctionKind = "CEPIM"
)
