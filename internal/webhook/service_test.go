package webhook

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"medportal_backend/internal/scheduler"
	"medportal_backend/platform/logger"
)

type recordingScheduler struct {
	contactCtx   context.Context
	insuranceCtx context.Context
	noteCtx      context.Context
}

func (r *recordingScheduler) EnqueueContactEnrichment(ctx context.Context, _ scheduler.ContactEnrichmentPayload) error {
	r.contactCtx = ctx
	return nil
}

func (r *recordingScheduler) EnqueueInsuranceBackfill(ctx context.Context, _ scheduler.InsuranceBackfillPayload) error {
	r.insuranceCtx = ctx
	return nil
}

func (r *recordingScheduler) EnqueueNoteParserTrigger(ctx context.Context, _ scheduler.NoteParserTriggerPayload) error {
	r.noteCtx = ctx
	return nil
}

func TestScheduleEnrichmentSurvivesRequestCancellation(t *testing.T) {
	rec := &recordingScheduler{}
	svc := &Service{scheduler: rec, log: logger.New("test")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.scheduleEnrichment(ctx, Canonical{GHLContactID: "contact-1"}, uuid.New(), "req-1")

	if rec.contactCtx == nil {
		t.Fatal("contact enrichment was not enqueued")
	}
	if rec.contactCtx.Err() != nil {
		t.Fatal("enqueue context must be detached from the request context")
	}
	if rec.insuranceCtx == nil || rec.insuranceCtx.Err() != nil {
		t.Fatal("insurance backfill enqueue must run on a detached context")
	}
}

func TestScheduleEnrichmentNotesFallback(t *testing.T) {
	rec := &recordingScheduler{}
	svc := &Service{scheduler: rec, log: logger.New("test")}

	svc.scheduleEnrichment(context.Background(), Canonical{IntakeNotes: "Contact:\nBest Email: a@b.c"}, uuid.New(), "req-2")

	if rec.contactCtx != nil {
		t.Fatal("no contact id: contact enrichment must not be enqueued")
	}
	if rec.noteCtx == nil {
		t.Fatal("notes present without contact id: note parser trigger expected")
	}
}
