package domain

import "strings"

// CompanyID is the 14-digit national company identifier. It is stored and
// transported as bare digits; display formatting belongs to the UI.
type CompanyID struct {
	digits string
}

var companyWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
var companyWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// ParseCompanyID strips the usual punctuation (dots, slashes, dashes) and
// validates length, the all-equal-digits degenerate case and both check
// digits of the published algorithm.
func ParseCompanyID(raw string) (CompanyID, error) {
	digits := keepDigits(raw)
	if len(digits) != 14 {
		return CompanyID{}, InvalidInputf("company id: got %d digits, want 14", len(digits))
	}
	if allSameDigits(digits) {
		return CompanyID{}, InvalidInputf("company id: degenerate repeated digits")
	}
	if !checkDigit(digits, 12, companyWeights1) || !checkDigit(digits, 13, companyWeights2) {
		return CompanyID{}, InvalidInputf("company id: check digits do not match")
	}
	return CompanyID{digits: digits}, nil
}

// String returns the canonical 14-digit form.
func (c CompanyID) String() string { return c.digits }

func (c CompanyID) IsZero() bool { return c.digits == "" }

// PersonID is the 11-digit national person identifier. The plain form is
// transient; everything persisted or transported uses PersonRef.
type PersonID struct {
	digits string
}

// ParsePersonID validates the 11-digit identifier with its two check digits.
func ParsePersonID(raw string) (PersonID, error) {
	digits := keepDigits(raw)
	if len(digits) != 11 {
		return PersonID{}, InvalidInputf("person id: got %d digits, want 11", len(digits))
	}
	if allSameDigits(digits) {
		return PersonID{}, InvalidInputf("person id: degenerate repeated digits")
	}
	w1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	if !checkDigit(digits, 9, w1) || !checkDigit(digits, 10, w2) {
		return PersonID{}, InvalidInputf("person id: check digits do not match")
	}
	return PersonID{digits: digits}, nil
}

func (p PersonID) String() string { return p.digits }

// PersonRef is the keyed hash of a PersonID, computed by the ingestion
// pipeline. The core treats it as an opaque identity.
type PersonRef string

func (r PersonRef) IsZero() bool { return r == "" }

// checkDigit verifies the weighted-modulo-11 check digit at position pos.
func checkDigit(digits string, pos int, weights []int) bool {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	want := 0
	if rest >= 2 {
		want = 11 - rest
	}
	return int(digits[pos]-'0') == want
}

func keepDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigits(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
