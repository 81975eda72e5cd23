package webhook

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/events"
	apphttp "medportal_backend/internal/http"
	projectsvc "medportal_backend/internal/projects/service"
	"medportal_backend/internal/scheduler"
	"medportal_backend/platform/logger"
)

// Module wires the GHL webhook ingestion pipeline.
type Module struct {
	svc     *Service
	handler *Handler
}

func NewModule(pool *pgxpool.Pool, projects *projectsvc.Service, sched scheduler.EnrichmentScheduler, bus events.Bus, log *logger.Logger) *Module {
	svc := NewService(repository.New(pool), projects, sched, bus, log)
	return &Module{
		svc:     svc,
		handler: NewHandler(svc, log),
	}
}

func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the public ingestion endpoint. The route is
// unauthenticated (GHL cannot hold a JWT) but sits behind the shared
// per-IP rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/webhooks")
	if ctx.WebhookRateLimiter != nil {
		group.Use(ctx.WebhookRateLimiter.RateLimit())
	}
	group.POST("/ghl", m.handler.HandleIngest)
}
