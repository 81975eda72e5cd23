// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"medportal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Webhook Ingestion Events
// =============================================================================

// AppointmentIngested is published after a webhook delivery has been persisted.
type AppointmentIngested struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ProjectID     uuid.UUID `json:"projectId"`
	Operation     string    `json:"operation"` // "create" or "update"
	Status        string    `json:"status"`
	RequestID     string    `json:"requestId"`
}

func (e AppointmentIngested) EventName() string { return "webhook.appointment.ingested" }

// ProjectAutoCreated is published when an unknown project name arrives on a
// webhook and a project row is vivified for it.
type ProjectAutoCreated struct {
	BaseEvent
	ProjectID   uuid.UUID `json:"projectId"`
	ProjectName string    `json:"projectName"`
	RequestID   string    `json:"requestId"`
}

func (e ProjectAutoCreated) EventName() string { return "projects.auto_created" }

// =============================================================================
// Enrichment Events
// =============================================================================

// AppointmentEnriched is published after GHL contact enrichment has written
// its notes block and parsed sub-objects back onto the appointment.
type AppointmentEnriched struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	ContactID     string    `json:"contactId"`
	RequestID     string    `json:"requestId"`
}

func (e AppointmentEnriched) EventName() string { return "enrichment.appointment.enriched" }
