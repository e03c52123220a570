package domain

import (
	"time"

	"github.com/google/uuid"
)

// CriticalAlert is a binary signal that a named suspicious condition holds
// for a supplier. Evidence carries traceable identifiers in a
// deterministic key=value form.
type CriticalAlert struct {
	ID          uuid.UUID
	Kind        AlertKind
	Severity    Severity
	Description string
	Evidence    string
	SupplierID  CompanyID
	Partner     *PersonRef
	DetectedAt  time.Time
}

// NewCriticalAlert rejects empty evidence: an alert that cannot be traced
// back to its triggering identifiers is not actionable.
func NewCriticalAlert(kind AlertKind, severity Severity, description, evidence string, supplier CompanyID, partner *PersonRef, detectedAt time.Time) (CriticalAlert, error) {
	if evidence == "" {
		return CriticalAlert{}, InvalidInputf("alert %s: empty evidence", kind)
	}
	return CriticalAlert{
		ID:          uuid.New(),
		Kind:        kind,
		Severity:    severity,
		Description: description,
		Evidence:    evidence,
		SupplierID:  supplier,
		Partner:     partner,
		DetectedAt:  detectedAt,
	}, nil
}
