package webhook

import (
	"strings"

	"medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/appointments/transport"
	"medportal_backend/internal/ghl"
)

// Operation is the merge decision for an incoming canonical record.
type Operation string

const (
	OpCreate  Operation = "create"
	OpUpdate  Operation = "update"
	OpSkipped Operation = "skipped"
)

// Decide picks the operation for an incoming record given the identity
// resolver's result. A brand-new appointment arriving already in a terminal
// state is skipped: the system never saw it live, so recording the corpse
// would only pollute the dataset. Terminal updates to known appointments
// are always applied.
func Decide(c Canonical, existing *repository.Appointment) Operation {
	if existing != nil {
		return OpUpdate
	}
	if IsTerminalStatus(NormalizeStatus(c.RawStatus)) {
		return OpSkipped
	}
	return OpCreate
}

// ComputeCreate builds the full field set for a new appointment.
func ComputeCreate(c Canonical) *repository.FieldSet {
	status := NormalizeStatus(c.RawStatus)

	fs := &repository.FieldSet{}
	setIfPresent(fs, "ghl_appointment_id", c.GHLAppointmentID)
	setIfPresent(fs, "ghl_id", c.GHLContactID)
	setIfPresent(fs, "ghl_location_id", c.GHLLocationID)
	setIfPresent(fs, "date_of_appointment", c.DateOfAppointment)
	setIfPresent(fs, "time_of_appointment", c.TimeOfAppointment)
	setIfPresent(fs, "calendar_name", c.CalendarName)
	if c.RequestedTime != nil {
		fs.Set("requested_time", *c.RequestedTime)
	}
	fs.Set("lead_name", c.LeadName)
	setIfPresent(fs, "phone", c.Phone)
	setIfPresent(fs, "email", c.Email)
	setIfPresent(fs, "date_of_birth", c.DateOfBirth)
	fs.Set("status", string(status))
	fs.Set("was_ever_confirmed", status == transport.StatusConfirmed)
	setIfPresent(fs, "patient_intake_notes", c.IntakeNotes)
	setIfPresent(fs, "insurance_card_url", c.InsuranceCardURL)

	// Pin the row to GHL's creation time so the earliest-created identity
	// fallback orders by origin, not by delivery order.
	if c.CreatedAt != nil {
		fs.Set("created_at", *c.CreatedAt)
	}
	return fs
}

// ComputeUpdate builds the selective field set for an existing appointment.
// Scheduling fields are authoritative from GHL and always overwritten when
// present. Contact snapshot fields only fill gaps. Status changes require an
// explicit incoming status. Local-only columns are never part of the set, so
// the upsert cannot touch them.
func ComputeUpdate(c Canonical, existing *repository.Appointment) *repository.FieldSet {
	fs := &repository.FieldSet{}

	setIfPresent(fs, "date_of_appointment", c.DateOfAppointment)
	setIfPresent(fs, "time_of_appointment", c.TimeOfAppointment)
	setIfPresent(fs, "calendar_name", c.CalendarName)
	setIfPresent(fs, "ghl_location_id", c.GHLLocationID)
	if c.RequestedTime != nil {
		fs.Set("requested_time", *c.RequestedTime)
	}

	// A later event may carry the booking id an early workflow event lacked.
	if c.GHLAppointmentID != "" && derefEmpty(existing.GHLAppointmentID) {
		fs.Set("ghl_appointment_id", c.GHLAppointmentID)
	}
	if c.GHLContactID != "" && derefEmpty(existing.GHLID) {
		fs.Set("ghl_id", c.GHLContactID)
	}

	if IsExplicitStatusChange(c.RawStatus) {
		status := NormalizeStatus(c.RawStatus)
		fs.Set("status", string(status))
		if status == transport.StatusConfirmed && !existing.WasEverConfirmed {
			fs.Set("was_ever_confirmed", true)
		}
	}

	if c.Phone != "" && derefEmpty(existing.Phone) {
		fs.Set("phone", c.Phone)
	}
	if c.Email != "" && derefEmpty(existing.Email) {
		fs.Set("email", c.Email)
	}
	if c.DateOfBirth != "" && derefEmpty(existing.DateOfBirth) {
		fs.Set("date_of_birth", c.DateOfBirth)
	}
	if c.InsuranceCardURL != "" && derefEmpty(existing.InsuranceCardURL) {
		fs.Set("insurance_card_url", c.InsuranceCardURL)
	}

	if c.IntakeNotes != "" {
		switch {
		case derefEmpty(existing.PatientIntakeNotes):
			fs.Set("patient_intake_notes", c.IntakeNotes)
		case !strings.Contains(*existing.PatientIntakeNotes, ghl.IntakeBlockMarker):
			fs.Set("patient_intake_notes", *existing.PatientIntakeNotes+"\n\n"+c.IntakeNotes)
		}
	}

	return fs
}

func setIfPresent(fs *repository.FieldSet, column, value string) {
	if value != "" {
		fs.Set(column, value)
	}
}

func derefEmpty(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
