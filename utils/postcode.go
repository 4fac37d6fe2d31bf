package utils

import (
	"regexp"
	"strings"
)

// ukPostcodePattern accepts the standard UK postcode shapes (e.g. "SW1A 1AA",
// "N1 9GU", "EC1A1BB") with an optional space before the inward code.
var ukPostcodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][0-9A-Z]?\s?[0-9][A-Z]{2}$`)

// ValidUKPostcode reports whether s looks like a UK postcode.
func ValidUKPostcode(s string) bool {
	return ukPostcodePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// PostcodeDistrict returns the outward district of a postcode, e.g. "SW1A"
// for "SW1A 1AA". Returns "" if the postcode is malformed.
func PostcodeDistrict(s string) string {
	p := strings.ToUpper(strings.TrimSpace(s))
	if !ukPostcodePattern.MatchString(p) {
		return ""
	}
	p = strings.ReplaceAll(p, " ", "")
	// Inward code is always the final three characters.
	return p[:len(p)-3]
}

// PostcodeArea returns the leading letters of the outward code, e.g. "SW"
// for "SW1A 1AA".
func PostcodeArea(s string) string {
	district := PostcodeDistrict(s)
	for i, r := range district {
		if r >= '0' && r <= '9' {
			return district[:i]
		}
	}
	return district
}
