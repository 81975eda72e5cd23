package webhook

import (
	"strings"
	"testing"
	"time"

	"medportal_backend/platform/apperr"
)

const standardEventBody = `{
	"type": "AppointmentCreate",
	"locationId": "loc-1",
	"location": {"id": "loc-1", "name": "Acme Clinic"},
	"appointment": {
		"id": "appt-1",
		"calendarName": "Acme Clinic - Consultation",
		"appointmentStatus": "confirmed",
		"startTime": "2025-03-01T15:00:00Z",
		"dateAdded": "2025-02-20T10:30:00Z",
		"contact": {
			"id": "contact-1",
			"firstName": "Jane",
			"lastName": "Doe",
			"email": "jane@example.com",
			"phone": "+15550001111",
			"dateOfBirth": "1985-04-12T00:00:00Z",
			"customFields": [
				{"id": "f1", "name": "Insurance Provider", "value": "Aetna"},
				{"id": "f2", "name": "Insurance Card", "value": "{\"u1\":{\"url\":\"https://cards/front.jpg\"}}"},
				{"id": "f3", "name": "Pain Level", "value": "7"}
			]
		}
	}
}`

const workflowBody = `{
	"contact_id": "C1",
	"first_name": "Jane",
	"last_name": "Doe",
	"email": "jane@example.com",
	"phone": "+15550001111",
	"date_of_birth": "Aug 18th 1985",
	"location": {"id": "loc-1", "name": ""},
	"calendar": {
		"appointmentId": "appt-1",
		"calendarName": "Acme Clinic - Consultation",
		"status": "booked",
		"startTime": "2025-03-01T15:00:00Z",
		"dateAdded": "2025-02-20T10:30:00Z"
	},
	"customFields": {
		"Insurance Provider": "Aetna",
		"Pain Level": "7"
	}
}`

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		body string
		want PayloadKind
	}{
		{"appointment object", standardEventBody, KindStandardEvent},
		{"appointment type string", `{"type":"AppointmentUpdate"}`, KindStandardEvent},
		{"calendar block", workflowBody, KindWorkflow},
		{"root contact_id", `{"contact_id":"C1"}`, KindWorkflow},
		{"root first_name", `{"first_name":"Jane"}`, KindWorkflow},
		{"unrecognized", `{"foo":"bar"}`, KindUnrecognized},
	}

	for _, tc := range cases {
		_, kind, _ := Normalize([]byte(tc.body))
		if kind != tc.want {
			t.Errorf("%s: classified as %v, want %v", tc.name, kind, tc.want)
		}
	}
}

func TestNormalizeStandardEvent(t *testing.T) {
	c, kind, err := Normalize([]byte(standardEventBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindStandardEvent {
		t.Fatalf("kind = %v", kind)
	}

	if c.GHLAppointmentID != "appt-1" {
		t.Errorf("appointment id: got %q", c.GHLAppointmentID)
	}
	if c.GHLContactID != "contact-1" {
		t.Errorf("contact id: got %q", c.GHLContactID)
	}
	if c.GHLLocationID != "loc-1" {
		t.Errorf("location id: got %q", c.GHLLocationID)
	}
	if c.RawStatus != "confirmed" {
		t.Errorf("raw status: got %q", c.RawStatus)
	}
	if c.LeadName != "Jane Doe" {
		t.Errorf("lead name: got %q", c.LeadName)
	}
	if c.DateOfAppointment != "2025-03-01" {
		t.Errorf("date: got %q", c.DateOfAppointment)
	}
	if c.TimeOfAppointment != "3:00 PM" {
		t.Errorf("time: got %q", c.TimeOfAppointment)
	}
	if c.DateOfBirth != "1985-04-12" {
		t.Errorf("dob: got %q", c.DateOfBirth)
	}
	if c.ProjectName != "Acme Clinic" {
		t.Errorf("project name: got %q", c.ProjectName)
	}
	if c.InsuranceCardURL != "https://cards/front.jpg" {
		t.Errorf("insurance url: got %q", c.InsuranceCardURL)
	}
	if !strings.Contains(c.IntakeNotes, "Insurance Provider: Aetna") {
		t.Errorf("intake notes missing insurance field:\n%s", c.IntakeNotes)
	}
	if !strings.Contains(c.IntakeNotes, "Pain Level: 7") {
		t.Errorf("intake notes missing pathology field:\n%s", c.IntakeNotes)
	}
	if c.CreatedAt == nil || !c.CreatedAt.Equal(time.Date(2025, 2, 20, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("created at: got %v", c.CreatedAt)
	}
}

func TestNormalizeWorkflow(t *testing.T) {
	c, kind, err := Normalize([]byte(workflowBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindWorkflow {
		t.Fatalf("kind = %v", kind)
	}

	if c.GHLAppointmentID != "appt-1" {
		t.Errorf("appointment id: got %q", c.GHLAppointmentID)
	}
	if c.GHLContactID != "C1" {
		t.Errorf("contact id: got %q", c.GHLContactID)
	}
	if c.LeadName != "Jane Doe" {
		t.Errorf("lead name: got %q", c.LeadName)
	}
	if c.RawStatus != "booked" {
		t.Errorf("raw status: got %q", c.RawStatus)
	}
	if c.DateOfAppointment != "2025-03-01" {
		t.Errorf("date: got %q", c.DateOfAppointment)
	}
	if c.DateOfBirth != "1985-08-18" {
		t.Errorf("dob: got %q", c.DateOfBirth)
	}
	// no location name: derived from the calendar name's left side
	if c.ProjectName != "Acme Clinic" {
		t.Errorf("project name: got %q", c.ProjectName)
	}
	if !strings.Contains(c.IntakeNotes, "Insurance Provider: Aetna") {
		t.Errorf("intake notes missing insurance field:\n%s", c.IntakeNotes)
	}
	if c.CreatedAt == nil || !c.CreatedAt.Equal(time.Date(2025, 2, 20, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("created at: got %v", c.CreatedAt)
	}
}

func TestNormalizeWorkflowNotesStable(t *testing.T) {
	first, _, err := Normalize([]byte(workflowBody))
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := Normalize([]byte(workflowBody))
	if err != nil {
		t.Fatal(err)
	}
	if first.IntakeNotes != second.IntakeNotes {
		t.Fatal("map-sourced custom fields must render deterministically")
	}
}

func TestNormalizeUnsupportedFormat(t *testing.T) {
	_, _, err := Normalize([]byte(`{"foo":"bar"}`))
	if err == nil {
		t.Fatal("expected an error for an unrecognized shape")
	}
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("unsupported format must be a bad request, got kind %v", apperr.GetKind(err))
	}

	_, _, err = Normalize([]byte(`not json`))
	if err == nil || apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("invalid JSON must be a bad request, got %v", err)
	}
}

func TestResolveProjectName(t *testing.T) {
	cases := []struct {
		location string
		calendar string
		want     string
	}{
		{"Acme Clinic", "Whatever - Consult", "Acme Clinic"},
		{"", "Acme Clinic - Consultation", "Acme Clinic"},
		{"", "Consult at Riverside Imaging", "Consult"},
		{"", "Standalone Calendar", "Standalone Calendar"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := resolveProjectName(tc.location, tc.calendar); got != tc.want {
			t.Errorf("resolveProjectName(%q, %q) = %q, want %q", tc.location, tc.calendar, got, tc.want)
		}
	}
}

func TestParseDateAdded(t *testing.T) {
	if got := parseDateAdded("2025-02-20T10:30:00Z"); got == nil || !got.Equal(time.Date(2025, 2, 20, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
	if got := parseDateAdded(""); got != nil {
		t.Fatalf("empty input: got %v", got)
	}
	if got := parseDateAdded("not a timestamp"); got != nil {
		t.Fatalf("garbage input: got %v", got)
	}
}

func TestSplitStartTime(t *testing.T) {
	date, clock, instant := splitStartTime("2025-03-01T15:00:00Z")
	if date != "2025-03-01" || clock != "3:00 PM" || instant == nil {
		t.Fatalf("got (%q, %q, %v)", date, clock, instant)
	}

	date, clock, instant = splitStartTime("2025-03-01")
	if date != "2025-03-01" || clock != "" || instant == nil {
		t.Fatalf("bare date: got (%q, %q, %v)", date, clock, instant)
	}

	date, clock, instant = splitStartTime("garbage")
	if date != "" || clock != "" || instant != nil {
		t.Fatalf("garbage: got (%q, %q, %v)", date, clock, instant)
	}

	date, _, instant = splitStartTime("")
	if date != "" || instant != nil {
		t.Fatal("empty input must yield empty output")
	}
}
