package webhook

import (
	"encoding/json"
	"strings"
)

// PayloadKind tags the recognized webhook payload shapes.
type PayloadKind int

const (
	KindUnrecognized PayloadKind = iota
	KindStandardEvent
	KindWorkflow
)

func (k PayloadKind) String() string {
	switch k {
	case KindStandardEvent:
		return "standard_event"
	case KindWorkflow:
		return "workflow"
	default:
		return "unrecognized"
	}
}

// Classify sniffs which of the two GHL payload shapes a decoded body is.
// Standard events nest everything under an appointment object; workflow
// actions flatten contact fields to the root and carry a calendar block.
func Classify(raw map[string]json.RawMessage) PayloadKind {
	if _, ok := raw["appointment"]; ok {
		return KindStandardEvent
	}
	if t, ok := raw["type"]; ok {
		var typeStr string
		if json.Unmarshal(t, &typeStr) == nil &&
			strings.Contains(strings.ToLower(typeStr), "appointment") {
			return KindStandardEvent
		}
	}
	if _, ok := raw["calendar"]; ok {
		return KindWorkflow
	}
	if _, ok := raw["contact_id"]; ok {
		return KindWorkflow
	}
	if _, ok := raw["first_name"]; ok {
		return KindWorkflow
	}
	return KindUnrecognized
}

// standardEventPayload is the native appointment webhook shape.
type standardEventPayload struct {
	Type        string `json:"type"`
	LocationID  string `json:"locationId"`
	Appointment struct {
		ID                string          `json:"id"`
		CalendarID        string          `json:"calendarId"`
		Title             string          `json:"title"`
		CalendarName      string          `json:"calendarName"`
		Status            string          `json:"status"`
		AppointmentStatus string          `json:"appointmentStatus"`
		StartTime         string          `json:"startTime"`
		EndTime           string          `json:"endTime"`
		DateAdded         string          `json:"dateAdded"`
		Contact           standardContact `json:"contact"`
	} `json:"appointment"`
	Location struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"location"`
}

type standardContact struct {
	ID           string                `json:"id"`
	FirstName    string                `json:"firstName"`
	LastName     string                `json:"lastName"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	DateOfBirth  string                `json:"dateOfBirth"`
	CustomFields []standardCustomField `json:"customFields"`
}

type standardCustomField struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// workflowPayload is the workflow-action shape: flattened root contact
// fields, a nested calendar timing block, and customFields as a label map.
type workflowPayload struct {
	ContactID   string `json:"contact_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Location    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"location"`
	Calendar struct {
		AppointmentID string `json:"appointmentId"`
		ID            string `json:"id"`
		CalendarName  string `json:"calendarName"`
		Title         string `json:"title"`
		Status        string `json:"status"`
		StartTime     string `json:"startTime"`
		EndTime       string `json:"endTime"`
		DateAdded     string `json:"dateAdded"`
	} `json:"calendar"`
	CustomFields map[string]interface{} `json:"customFields"`
}
