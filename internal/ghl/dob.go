package ghl

import (
	"regexp"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var ordinalSuffixRe = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)\b`)

// dobLayouts are tried in order after ISO timestamp handling. Free-text forms
// like "Aug 18th 2022" are matched after ordinal suffixes are stripped.
var dobLayouts = []string{
	isoDate,
	"01/02/2006",
	"1/2/2006",
	"Jan 2 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// NormalizeDOB converts a date-of-birth string of any supported shape to
// YYYY-MM-DD. It is total: unparseable input yields "", never an error.
// Accepted shapes: ISO date, ISO timestamp, MM/DD/YYYY, and free text like
// "Aug 18th 2022".
func NormalizeDOB(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// ISO timestamps reduce to their date part.
	if idx := strings.IndexByte(trimmed, 'T'); idx > 0 {
		if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return t.Format(isoDate)
		}
		trimmed = trimmed[:idx]
	}

	cleaned := ordinalSuffixRe.ReplaceAllString(trimmed, "$1")
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(isoDate)
		}
	}

	return ""
}

// AgeFromDOB computes a calendar-aware age in whole years. The second return
// is false when the date of birth is unparseable or lies in the future.
func AgeFromDOB(dob string, now time.Time) (int, bool) {
	normalized := NormalizeDOB(dob)
	if normalized == "" {
		return 0, false
	}

	born, err := time.Parse(isoDate, normalized)
	if err != nil {
		return 0, false
	}
	if born.After(now) {
		return 0, false
	}

	age := now.Year() - born.Year()
	// birthday not reached yet this year
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
