package webhook

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"medportal_backend/internal/ghl"
	"medportal_backend/platform/apperr"
)

// Canonical is the shape-independent record the normalizer produces. Empty
// strings mean "not supplied by the payload".
type Canonical struct {
	GHLAppointmentID string
	GHLContactID     string
	GHLLocationID    string
	RawStatus        string

	// CreatedAt is when GHL created the booking (dateAdded). Nil when the
	// payload omits it or sends something unparseable; the row then falls
	// back to local receipt time.
	CreatedAt *time.Time

	DateOfAppointment string // ISO date
	TimeOfAppointment string // localized clock string
	RequestedTime     *time.Time
	CalendarName      string
	ProjectName       string

	LeadName    string
	Phone       string
	Email       string
	DateOfBirth string // ISO date

	IntakeNotes      string
	InsuranceCardURL string
}

// Normalize classifies a decoded webhook body and extracts the canonical
// record. Unrecognized shapes come back as a BadRequest error so the caller
// answers with a permanent 4xx instead of inviting redelivery.
func Normalize(body []byte) (Canonical, PayloadKind, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Canonical{}, KindUnrecognized, apperr.BadRequest("invalid JSON body")
	}

	kind := Classify(raw)
	switch kind {
	case KindStandardEvent:
		c, err := normalizeStandardEvent(body)
		return c, kind, err
	case KindWorkflow:
		c, err := normalizeWorkflow(body)
		return c, kind, err
	default:
		return Canonical{}, KindUnrecognized, apperr.BadRequest("unsupported webhook payload format")
	}
}

func normalizeStandardEvent(body []byte) (Canonical, error) {
	var p standardEventPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Canonical{}, apperr.BadRequest("malformed appointment payload")
	}

	appt := p.Appointment
	contact := appt.Contact

	c := Canonical{
		GHLAppointmentID: appt.ID,
		GHLContactID:     contact.ID,
		GHLLocationID:    firstNonEmpty(p.LocationID, p.Location.ID),
		RawStatus:        firstNonEmpty(appt.AppointmentStatus, appt.Status),
		CalendarName:     firstNonEmpty(appt.CalendarName, appt.Title),
		LeadName:         contactName(contact.Name, contact.FirstName, contact.LastName),
		Phone:            strings.TrimSpace(contact.Phone),
		Email:            strings.TrimSpace(contact.Email),
		DateOfBirth:      ghl.NormalizeDOB(contact.DateOfBirth),
		CreatedAt:        parseDateAdded(appt.DateAdded),
	}
	c.DateOfAppointment, c.TimeOfAppointment, c.RequestedTime = splitStartTime(appt.StartTime)
	c.ProjectName = resolveProjectName(p.Location.Name, c.CalendarName)

	pairs := make([]ghl.FieldPair, 0, len(contact.CustomFields))
	uploads := make(map[string]interface{}, len(contact.CustomFields))
	for _, field := range contact.CustomFields {
		label := firstNonEmpty(field.Name, field.ID)
		pairs = append(pairs, ghl.FieldPair{Key: label, Value: renderFieldValue(field.Value)})
		uploads[label] = field.Value
	}
	c.IntakeNotes = ghl.FormatIntakeNotes(pairs)
	c.InsuranceCardURL = ghl.FindInsuranceCardURL(uploads)

	return c, nil
}

func normalizeWorkflow(body []byte) (Canonical, error) {
	var p workflowPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Canonical{}, apperr.BadRequest("malformed workflow payload")
	}

	cal := p.Calendar

	c := Canonical{
		GHLAppointmentID: firstNonEmpty(cal.AppointmentID, cal.ID),
		GHLContactID:     p.ContactID,
		GHLLocationID:    p.Location.ID,
		RawStatus:        cal.Status,
		CalendarName:     firstNonEmpty(cal.CalendarName, cal.Title),
		LeadName:         contactName(p.FullName, p.FirstName, p.LastName),
		Phone:            strings.TrimSpace(p.Phone),
		Email:            strings.TrimSpace(p.Email),
		DateOfBirth:      ghl.NormalizeDOB(p.DateOfBirth),
		CreatedAt:        parseDateAdded(cal.DateAdded),
	}
	c.DateOfAppointment, c.TimeOfAppointment, c.RequestedTime = splitStartTime(cal.StartTime)
	c.ProjectName = resolveProjectName(p.Location.Name, c.CalendarName)

	pairs := make([]ghl.FieldPair, 0, len(p.CustomFields))
	for label, value := range p.CustomFields {
		pairs = append(pairs, ghl.FieldPair{Key: label, Value: renderFieldValue(value)})
	}
	sortFieldPairs(pairs)
	c.IntakeNotes = ghl.FormatIntakeNotes(pairs)
	c.InsuranceCardURL = ghl.FindInsuranceCardURL(p.CustomFields)

	return c, nil
}

// resolveProjectName prefers the explicit location name, then derives a
// project from the calendar name by taking everything before the first
// " - " or " at " separator.
func resolveProjectName(locationName, calendarName string) string {
	if name := strings.TrimSpace(locationName); name != "" {
		return name
	}
	name := strings.TrimSpace(calendarName)
	if name == "" {
		return ""
	}
	for _, sep := range []string{" - ", " at "} {
		if idx := strings.Index(name, sep); idx > 0 {
			return strings.TrimSpace(name[:idx])
		}
	}
	return name
}

// splitStartTime turns an RFC 3339 start time into the stored date string,
// a human clock string, and the parsed instant. Unparseable input yields
// empty values rather than an error.
func splitStartTime(raw string) (string, string, *time.Time) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Some workflow payloads send a bare date.
		if d, derr := time.Parse("2006-01-02", raw); derr == nil {
			return d.Format("2006-01-02"), "", &d
		}
		return "", "", nil
	}
	return t.Format("2006-01-02"), t.Format("3:04 PM"), &t
}

// parseDateAdded parses the booking creation timestamp GHL sends alongside
// the event. Unparseable input yields nil rather than an error.
func parseDateAdded(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

func contactName(full, first, last string) string {
	if name := strings.TrimSpace(full); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// renderFieldValue flattens a custom field value to text for note rendering.
// Container values are skipped here; upload extraction handles them.
func renderFieldValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// sortFieldPairs orders map-sourced fields by label so repeated deliveries
// render byte-identical intake blocks.
func sortFieldPairs(pairs []ghl.FieldPair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
