package application

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// ExportFormat names a dossier encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
)

// ParseExportFormat validates the format parameter.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatJSON, FormatCSV, FormatPDF:
		return ExportFormat(s), nil
	}
	return "", domain.InvalidInputf("unknown export format %q", s)
}

// ExportPayload is an encoded dossier ready to write out.
type ExportPayload struct {
	ContentType string
	Filename    string
	Body        []byte
}

// Export encodes a dossier. PDF is a deliberate stub.
func Export(d Dossier, format ExportFormat) (ExportPayload, error) {
	switch format {
	case FormatJSON:
		body, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return ExportPayload{}, fmt.Errorf("encode dossier: %w", err)
		}
		return ExportPayload{
			ContentType: "application/json; charset=utf-8",
			Filename:    "dossier_" + d.Supplier.ID + ".json",
			Body:        body,
		}, nil
	case FormatCSV:
		body, err := exportCSV(d)
		if err != nil {
			return ExportPayload{}, err
		}
		return ExportPayload{
			ContentType: "text/csv; charset=utf-8",
			Filename:    "dossier_" + d.Supplier.ID + ".csv",
			Body:        body,
		}, nil
	case FormatPDF:
		return ExportPayload{}, domain.ErrUnimplemented
	}
	return ExportPayload{}, domain.InvalidInputf("unknown export format %q", format)
}

// exportCSV writes the six sections in fixed order, one marker line per
// section and a blank line between sections.
func exportCSV(d Dossier) ([]byte, error) {
	var buf bytes.Buffer

	writeSection := func(name string, header []string, rows [][]string) error {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("# " + name + "\n")
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("csv section %s: %w", name, err)
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return fmt.Errorf("csv section %s: %w", name, err)
			}
		}
		w.Flush()
		return w.Error()
	}

	s := d.Supplier
	cadastral := [][]string{{
		s.ID, s.LegalName, s.Status, orEmpty(s.OpeningDate), orEmpty(s.Capital),
		s.ActivityCode, s.ActivityDescription,
		strconv.Itoa(s.TotalContracts), s.TotalContractedValue,
	}}
	if err := writeSection("CADASTRAL",
		[]string{"id", "legal_name", "status", "opening_date", "capital",
			"activity_code", "activity_description", "total_contracts", "total_contracted_value"},
		cadastral); err != nil {
		return nil, err
	}

	contractRows := make([][]string, 0, len(d.Contracts))
	for _, c := range d.Contracts {
		contractRows = append(contractRows, []string{
			c.OrgCode, c.Value, c.Subject, c.TenderNumber, orEmpty(c.SignedOn), orEmpty(c.ValidUntil),
		})
	}
	if err := writeSection("CONTRACTS",
		[]string{"org_code", "value", "subject", "tender_number", "signed_on", "valid_until"},
		contractRows); err != nil {
		return nil, err
	}

	partnerRows := make([][]string, 0, len(d.Partners))
	for _, p := range d.Partners {
		partnerRows = append(partnerRows, []string{
			p.Ref, p.Name, p.Qualification,
			strconv.FormatBool(p.IsPublicServant), strconv.FormatBool(p.IsSanctioned),
			strconv.Itoa(p.GovSupplierCount), orEmpty(p.CapitalShare),
		})
	}
	if err := writeSection("PARTNERS",
		[]string{"ref", "name", "qualification", "is_public_servant", "is_sanctioned",
			"gov_supplier_count", "capital_share"},
		partnerRows); err != nil {
		return nil, err
	}

	sanctionRows := make([][]string, 0, len(d.Sanctions))
	for _, sa := range d.Sanctions {
		sanctionRows = append(sanctionRows, []string{
			sa.Kind, sa.Body, sa.Reason, sa.Start, orEmpty(sa.End), strconv.FormatBool(sa.Active),
		})
	}
	if err := writeSection("SANCTIONS",
		[]string{"kind", "body", "reason", "start", "end", "active"},
		sanctionRows); err != nil {
		return nil, err
	}

	donationRows := make([][]string, 0, len(d.Donations))
	for _, dn := range d.Donations {
		donationRows = append(donationRows, []string{
			orEmpty(dn.PartnerRef), dn.CandidateName, dn.CandidateParty, dn.CandidateOffice,
			dn.Amount, strconv.Itoa(dn.ElectionYear), dn.ResourceType,
		})
	}
	if err := writeSection("DONATIONS",
		[]string{"partner_ref", "candidate_name", "candidate_party", "candidate_office",
			"amount", "election_year", "resource_type"},
		donationRows); err != nil {
		return nil, err
	}

	alertRows := make([][]string, 0, len(d.Alerts))
	for _, a := range d.Alerts {
		alertRows = append(alertRows, []string{
			a.Kind, a.Severity, a.Description, a.Evidence, orEmpty(a.PartnerRef), a.DetectedAt,
		})
	}
	if err := writeSection("ALERTS",
		[]string{"kind", "severity", "description", "evidence", "partner_ref", "detected_at"},
		alertRows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
