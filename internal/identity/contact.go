// Package identity pulls candidate contact details and the candidate name
// out of raw resume text.
package identity

import (
	"regexp"
	"strings"
)

// NotFound is returned for a contact field that could not be resolved.
const NotFound = "—"

var reEmail = regexp.MustCompile(`(?i)[a-z0-9_.+-]+@[a-z0-9-]+\.[a-z0-9.-]+`)

// phonePatterns run from most to least specific.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[-\s]?[6-9]\d{9}`),
	regexp.MustCompile(`\+91[-\s]?\d{10}`),
	regexp.MustCompile(`[6-9]\d{9}`),
	regexp.MustCompile(`\d{10}`),
	regexp.MustCompile(`\d{5}\s?\d{5}`),
}

// Email returns the first plausible address in text, lowercased.
func Email(text string) string {
	for _, m := range reEmail.FindAllString(text, -1) {
		if len(m) > 8 && strings.Contains(m, "@") {
			return strings.ToLower(m)
		}
	}
	return NotFound
}

// Phone returns a 10-digit number without separators or the +91 prefix.
// A pattern whose first hit does not reduce to 10 digits hands over to the
// next pattern.
func Phone(text string) string {
	for _, p := range phonePatterns {
		m := p.FindString(text)
		if m == "" {
			continue
		}
		phone := strings.NewReplacer(" ", "", "-", "").Replace(m)
		phone = strings.TrimPrefix(phone, "+91")
		if len(phone) == 10 {
			return phone
		}
	}
	return NotFound
}
