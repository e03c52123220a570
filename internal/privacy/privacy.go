// Package privacy keeps national person identifiers out of the log
// stream. The ingestion pipeline already hashes ids with a keyed HMAC
// before they reach the store; at serving time only masking remains.
package privacy

import (
	"strings"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

// MaskPersonID renders the last-4 display form for logs.
func MaskPersonID(id domain.PersonID) string {
	digits := id.String()
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// SanitizeForLog masks any 11-digit run that validates as a person id.
// Company ids and other digit runs pass through untouched.
func SanitizeForLog(s string) string {
	var b strings.Builder
	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		run := s[runStart:end]
		if len(run) == 11 {
			if id, err := domain.ParsePersonID(run); err == nil {
				b.WriteString(MaskPersonID(id))
				runStart = -1
				return
			}
		}
		b.WriteString(run)
		runStart = -1
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
		b.WriteByte(s[i])
	}
	flush(len(s))
	return b.String()
}
