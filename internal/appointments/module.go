package appointments

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"medportal_backend/internal/appointments/handler"
	"medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/appointments/service"
	apphttp "medportal_backend/internal/http"
	"medportal_backend/platform/logger"
	"medportal_backend/platform/validator"
)

// Module wires the appointments context: staff-facing reads and the local
// field edits the dashboard owns.
type Module struct {
	repo    *repository.Repository
	svc     *service.Service
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val, log)
	return &Module{repo: repo, svc: svc, handler: h}
}

func (m *Module) Name() string {
	return "appointments"
}

// Repository exposes the storage layer to sibling modules that persist
// appointment data on behalf of this context.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	appts := ctx.Protected.Group("/appointments")
	{
		appts.GET("", m.handler.HandleList)
		appts.GET("/:id", m.handler.HandleGet)
		appts.PATCH("/:id/status", m.handler.HandleUpdateStatus)
		appts.PATCH("/:id/fields", m.handler.HandleUpdateLocalFields)
	}
}
