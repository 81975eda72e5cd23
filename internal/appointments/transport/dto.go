package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the closed internal appointment status vocabulary.
type Status string

const (
	StatusConfirmed   Status = "Confirmed"
	StatusCancelled   Status = "Cancelled"
	StatusNoShow      Status = "No Show"
	StatusShowed      Status = "Showed"
	StatusRescheduled Status = "Rescheduled"
	StatusPending     Status = "Pending"
	StatusScheduled   Status = "Scheduled"
	StatusOON         Status = "OON"
	StatusWelcomeCall Status = "Welcome Call"
)

// AllStatuses lists every member of the closed vocabulary.
var AllStatuses = []Status{
	StatusConfirmed, StatusCancelled, StatusNoShow, StatusShowed,
	StatusRescheduled, StatusPending, StatusScheduled, StatusOON,
	StatusWelcomeCall,
}

// ListAppointmentsRequest is the query parameters for listing appointments.
type ListAppointmentsRequest struct {
	ProjectID *uuid.UUID `form:"projectId"`
	Status    *Status    `form:"status" validate:"omitempty"`
	DateFrom  string     `form:"dateFrom"` // ISO date
	DateTo    string     `form:"dateTo"`   // ISO date
	Search    string     `form:"search"`
	Page      int        `form:"page" validate:"min=0"`
	PageSize  int        `form:"pageSize" validate:"min=0,max=200"`
}

// UpdateStatusRequest is the request body for a manual status change.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// UpdateLocalFieldsRequest is the request body for editing the local-only
// fields staff own. The webhook pipeline never touches these.
type UpdateLocalFieldsRequest struct {
	InternalNotes    *string `json:"internalNotes,omitempty" validate:"omitempty,max=20000"`
	AISummary        *string `json:"aiSummary,omitempty" validate:"omitempty,max=20000"`
	ProcedureOrdered *bool   `json:"procedureOrdered,omitempty"`
	ProcessComplete  *bool   `json:"processComplete,omitempty"`
}

// AppointmentResponse is the response body for an appointment.
type AppointmentResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProjectID          *uuid.UUID      `json:"projectId,omitempty"`
	GHLAppointmentID   *string         `json:"ghlAppointmentId,omitempty"`
	GHLContactID       *string         `json:"ghlContactId,omitempty"`
	LeadName           string          `json:"leadName"`
	Phone              *string         `json:"phone,omitempty"`
	Email              *string         `json:"email,omitempty"`
	DateOfBirth        *string         `json:"dateOfBirth,omitempty"`
	DateOfAppointment  *string         `json:"dateOfAppointment,omitempty"`
	TimeOfAppointment  *string         `json:"timeOfAppointment,omitempty"`
	CalendarName       *string         `json:"calendarName,omitempty"`
	RequestedTime      *time.Time      `json:"requestedTime,omitempty"`
	Status             Status          `json:"status"`
	WasEverConfirmed   bool            `json:"wasEverConfirmed"`
	PatientIntakeNotes *string         `json:"patientIntakeNotes,omitempty"`
	InsuranceCardURL   *string         `json:"insuranceCardUrl,omitempty"`
	InternalNotes      *string         `json:"internalNotes,omitempty"`
	AISummary          *string         `json:"aiSummary,omitempty"`
	ProcedureOrdered   bool            `json:"procedureOrdered"`
	ProcessComplete    bool            `json:"processComplete"`
	ParsedInsurance    json.RawMessage `json:"parsedInsuranceInfo,omitempty"`
	ParsedPathology    json.RawMessage `json:"parsedPathologyInfo,omitempty"`
	ParsedContact      json.RawMessage `json:"parsedContactInfo,omitempty"`
	ParsedDemographics json.RawMessage `json:"parsedDemographics,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// AppointmentListResponse is the paginated response for listing appointments.
type AppointmentListResponse struct {
	Items    []AppointmentResponse `json:"items"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}
