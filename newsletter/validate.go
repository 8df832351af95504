package newsletter

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail accepts addresses shaped like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail trims surrounding whitespace. Case is preserved because
// duplicates are detected by exact match.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
