package webhook

import (
	"context"

	"github.com/google/uuid"

	"medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/events"
	projectsvc "medportal_backend/internal/projects/service"
	"medportal_backend/internal/scheduler"
	"medportal_backend/platform/apperr"
	"medportal_backend/platform/logger"
	"medportal_backend/platform/phone"
)

// Result reports what the pipeline did with a delivery.
type Result struct {
	Operation     Operation
	AppointmentID uuid.UUID
	ProjectID     uuid.UUID
	Status        string
	Kind          PayloadKind
	Reason        string
}

// Service runs the ingestion pipeline: normalize, resolve identity, compute
// the merge, persist, then hand off enrichment to the queue.
type Service struct {
	appts     *repository.Repository
	projects  *projectsvc.Service
	scheduler scheduler.EnrichmentScheduler
	bus       events.Bus
	log       *logger.Logger
}

func NewService(appts *repository.Repository, projects *projectsvc.Service, sched scheduler.EnrichmentScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		appts:     appts,
		projects:  projects,
		scheduler: sched,
		bus:       bus,
		log:       log,
	}
}

// Ingest processes one webhook delivery. Errors returned here map to the
// HTTP layer: BadRequest for permanent payload problems, Internal for
// persistence failures the dispatcher should redeliver.
func (s *Service) Ingest(ctx context.Context, body []byte, requestID string) (Result, error) {
	log := s.log.WithRequestID(requestID)

	canonical, kind, err := Normalize(body)
	if err != nil {
		return Result{Kind: kind}, err
	}
	if canonical.LeadName == "" {
		return Result{Kind: kind}, apperr.BadRequest("missing required field: lead_name")
	}
	if canonical.ProjectName == "" {
		return Result{Kind: kind}, apperr.BadRequest("missing required field: project_name")
	}

	if normalized := phone.NormalizeE164(canonical.Phone); normalized != "" {
		canonical.Phone = normalized
	}

	project, err := s.projects.EnsureByName(ctx, canonical.ProjectName, requestID)
	if err != nil {
		return Result{Kind: kind}, err
	}

	existing, err := s.resolveIdentity(ctx, project.ID, canonical)
	if err != nil {
		return Result{Kind: kind}, err
	}

	result := Result{
		Kind:      kind,
		ProjectID: project.ID,
		Operation: Decide(canonical, existing),
	}

	switch result.Operation {
	case OpSkipped:
		result.Status = string(NormalizeStatus(canonical.RawStatus))
		result.Reason = "terminal status on unknown appointment"
		log.Info("webhook skipped",
			"reason", result.Reason,
			"status", result.Status,
			"payload_kind", kind.String(),
			"project", canonical.ProjectName)
		return result, nil

	case OpCreate:
		appt, err := s.appts.Create(ctx, project.ID, ComputeCreate(canonical))
		if err != nil {
			return result, err
		}
		result.AppointmentID = appt.ID
		result.Status = appt.Status

	case OpUpdate:
		appt, err := s.appts.UpdateFields(ctx, existing.ID, ComputeUpdate(canonical, existing))
		if err != nil {
			return result, err
		}
		result.AppointmentID = appt.ID
		result.Status = appt.Status
	}

	log.WebhookEvent(string(result.Operation), requestID, result.AppointmentID.String())

	s.bus.Publish(ctx, events.AppointmentIngested{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: result.AppointmentID,
		ProjectID:     project.ID,
		Operation:     string(result.Operation),
		Status:        result.Status,
		RequestID:     requestID,
	})

	s.scheduleEnrichment(ctx, canonical, result.AppointmentID, requestID)

	return result, nil
}

// resolveIdentity looks for an existing appointment in priority order:
// booking id, then contact id + lead name, then contact id alone. The
// booking id is the most stable key but is absent on early workflow events,
// and lead name can drift between events for the same contact.
func (s *Service) resolveIdentity(ctx context.Context, projectID uuid.UUID, c Canonical) (*repository.Appointment, error) {
	if c.GHLAppointmentID != "" {
		appt, err := s.appts.FindByGHLAppointmentID(ctx, c.GHLAppointmentID)
		if err != nil || appt != nil {
			return appt, err
		}
	}
	if c.GHLContactID == "" {
		return nil, nil
	}
	appt, err := s.appts.FindByContactAndName(ctx, projectID, c.GHLContactID, c.LeadName)
	if err != nil || appt != nil {
		return appt, err
	}
	return s.appts.FindByContact(ctx, projectID, c.GHLContactID)
}

// scheduleEnrichment enqueues the fire-and-forget follow-ups. Enqueue
// failures are logged here and dropped; the response to the dispatcher was
// already decided by persistence. The context is detached so a dispatcher
// disconnect right after the write cannot cancel the enqueue.
func (s *Service) scheduleEnrichment(ctx context.Context, c Canonical, appointmentID uuid.UUID, requestID string) {
	ctx = context.WithoutCancel(ctx)
	log := s.log.WithRequestID(requestID)

	if c.GHLContactID != "" {
		err := s.scheduler.EnqueueContactEnrichment(ctx, scheduler.ContactEnrichmentPayload{
			AppointmentID: appointmentID.String(),
			RequestID:     requestID,
		})
		if err != nil {
			log.Error("failed to enqueue contact enrichment", "error", err,
				"appointment_id", appointmentID)
		}

		if c.InsuranceCardURL == "" {
			err := s.scheduler.EnqueueInsuranceBackfill(ctx, scheduler.InsuranceBackfillPayload{
				AppointmentID: appointmentID.String(),
				RequestID:     requestID,
			})
			if err != nil {
				log.Error("failed to enqueue insurance backfill", "error", err,
					"appointment_id", appointmentID)
			}
		}
		return
	}

	// Without a contact id the richer enrichment pass cannot run; fall back
	// to parsing whatever notes the payload itself carried.
	if c.IntakeNotes != "" {
		err := s.scheduler.EnqueueNoteParserTrigger(ctx, scheduler.NoteParserTriggerPayload{
			AppointmentID: appointmentID.String(),
			RequestID:     requestID,
		})
		if err != nil {
			log.Error("failed to enqueue note parser trigger", "error", err,
				"appointment_id", appointmentID)
		}
	}
}
