package webhook

import (
	"strings"

	"medportal_backend/internal/appointments/transport"
)

// NormalizeStatus maps a raw GHL status string onto the internal vocabulary.
// Unknown, empty, and placeholder values default to Confirmed so a new
// appointment is never blocked on an unrecognized status.
func NormalizeStatus(raw string) transport.Status {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch s {
	case "", "null", "undefined", "booked", "new":
		return transport.StatusConfirmed
	case "confirmed":
		return transport.StatusConfirmed
	case "cancelled", "canceled":
		return transport.StatusCancelled
	case "noshow", "no-show":
		return transport.StatusNoShow
	case "showed", "attended":
		return transport.StatusShowed
	case "rescheduled":
		return transport.StatusRescheduled
	case "pending":
		return transport.StatusPending
	case "scheduled":
		return transport.StatusScheduled
	case "oon", "out of network":
		return transport.StatusOON
	case "welcome call":
		return transport.StatusWelcomeCall
	}

	if strings.Contains(s, "no show") {
		return transport.StatusNoShow
	}

	return transport.StatusConfirmed
}

// explicitStatuses is the allow-list of raw values permitted to change the
// status of an existing appointment. Events without a meaningful status must
// never regress a record from, say, Showed back to the Confirmed default.
var explicitStatuses = map[string]struct{}{
	"cancelled":      {},
	"canceled":       {},
	"noshow":         {},
	"no-show":        {},
	"no show":        {},
	"showed":         {},
	"attended":       {},
	"rescheduled":    {},
	"confirmed":      {},
	"oon":            {},
	"out of network": {},
}

// IsExplicitStatusChange reports whether the raw incoming status is
// authorized to overwrite an existing appointment's status.
func IsExplicitStatusChange(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := explicitStatuses[s]; ok {
		return true
	}
	return strings.Contains(s, "no show")
}

// IsTerminalStatus reports whether a normalized status represents a
// concluded appointment outcome. Matching is by substring to catch variants
// like "No Show".
func IsTerminalStatus(status transport.Status) bool {
	s := strings.ToLower(string(status))
	for _, terminal := range []string{"cancel", "no show", "showed"} {
		if strings.Contains(s, terminal) {
			return true
		}
	}
	return false
}
