package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"medportal_backend/internal/enrichment"
	"medportal_backend/platform/config"
	"medportal_backend/platform/logger"
)

// Worker consumes enrichment tasks off the Redis-backed queue. Handlers
// never return an error for business failures: enrichment is best-effort
// and the services own their logging, so a failed fetch must not put the
// task back on the queue.
type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	enrichment *enrichment.Service
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, enrichmentSvc *enrichment.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		enrichment: enrichmentSvc,
		log:        log,
	}

	mux.HandleFunc(TaskContactEnrichment, w.handleContactEnrichment)
	mux.HandleFunc(TaskInsuranceBackfill, w.handleInsuranceBackfill)
	mux.HandleFunc(TaskNoteParserTrigger, w.handleNoteParserTrigger)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleContactEnrichment(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseContactEnrichmentPayload(task)
	if err != nil {
		return err
	}
	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}
	w.enrichment.EnrichContact(ctx, apptID, payload.RequestID)
	return nil
}

func (w *Worker) handleInsuranceBackfill(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseInsuranceBackfillPayload(task)
	if err != nil {
		return err
	}
	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}
	w.enrichment.BackfillInsurance(ctx, apptID, payload.RequestID)
	return nil
}

func (w *Worker) handleNoteParserTrigger(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNoteParserTriggerPayload(task)
	if err != nil {
		return err
	}
	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}
	w.enrichment.TriggerNoteParser(ctx, apptID, payload.RequestID)
	return nil
}
