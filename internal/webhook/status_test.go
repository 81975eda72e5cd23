package webhook

import (
	"testing"

	"medportal_backend/internal/appointments/transport"
)

func TestNormalizeStatusMapping(t *testing.T) {
	cases := []struct {
		in   string
		want transport.Status
	}{
		{"", transport.StatusConfirmed},
		{"null", transport.StatusConfirmed},
		{"undefined", transport.StatusConfirmed},
		{"booked", transport.StatusConfirmed},
		{"new", transport.StatusConfirmed},
		{"confirmed", transport.StatusConfirmed},
		{"CONFIRMED", transport.StatusConfirmed},
		{"  Confirmed  ", transport.StatusConfirmed},
		{"cancelled", transport.StatusCancelled},
		{"canceled", transport.StatusCancelled},
		{"noshow", transport.StatusNoShow},
		{"no-show", transport.StatusNoShow},
		{"No Show", transport.StatusNoShow},
		{"showed", transport.StatusShowed},
		{"attended", transport.StatusShowed},
		{"rescheduled", transport.StatusRescheduled},
		{"pending", transport.StatusPending},
		{"scheduled", transport.StatusScheduled},
		{"oon", transport.StatusOON},
		{"out of network", transport.StatusOON},
		{"welcome call", transport.StatusWelcomeCall},
		{"something the crm made up", transport.StatusConfirmed},
	}

	for _, tc := range cases {
		if got := NormalizeStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	for _, status := range transport.AllStatuses {
		if got := NormalizeStatus(string(status)); got != status {
			t.Errorf("NormalizeStatus(%q) = %q, vocabulary must be a fixpoint", status, got)
		}
	}
}

func TestIsExplicitStatusChange(t *testing.T) {
	explicit := []string{
		"cancelled", "canceled", "noshow", "no-show", "no show",
		"Client No Show", "showed", "attended", "rescheduled",
		"confirmed", "CONFIRMED", "oon", "out of network",
	}
	for _, in := range explicit {
		if !IsExplicitStatusChange(in) {
			t.Errorf("expected %q to count as an explicit status change", in)
		}
	}

	implicit := []string{"", "null", "undefined", "booked", "new", "pending", "scheduled", "welcome call", "whatever"}
	for _, in := range implicit {
		if IsExplicitStatusChange(in) {
			t.Errorf("expected %q to NOT count as an explicit status change", in)
		}
	}
}

func TestIsTerminalStatus(t *testing.T) {
	for _, s := range []transport.Status{transport.StatusCancelled, transport.StatusNoShow, transport.StatusShowed} {
		if !IsTerminalStatus(s) {
			t.Errorf("expected %q to be terminal", s)
		}
	}
	for _, s := range []transport.Status{transport.StatusConfirmed, transport.StatusPending, transport.StatusScheduled, transport.StatusRescheduled, transport.StatusOON, transport.StatusWelcomeCall} {
		if IsTerminalStatus(s) {
			t.Errorf("expected %q to be non-terminal", s)
		}
	}
}
