// Package projects provides the project (tenant grouping) bounded context.
// Projects are auto-vivified by webhook ingestion and managed by admins.
package projects

import (
	"medportal_backend/internal/events"
	apphttp "medportal_backend/internal/http"
	"medportal_backend/internal/projects/handler"
	"medportal_backend/internal/projects/repository"
	"medportal_backend/internal/projects/service"
	"medportal_backend/platform/config"
	"medportal_backend/platform/logger"
	"medportal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the projects bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the projects module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.GHLConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "projects"
}

// Service exposes the project service for other modules (webhook, enrichment).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts project routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/projects")
	adminGroup.GET("", m.handler.HandleList)
	adminGroup.GET("/:projectId", m.handler.HandleGet)
	adminGroup.PUT("/:projectId", m.handler.HandleUpdate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
