// Package service implements project management and auto-vivification.
package service

import (
	"context"
	"strings"

	"medportal_backend/internal/events"
	"medportal_backend/internal/projects/repository"
	"medportal_backend/internal/projects/transport"
	"medportal_backend/platform/apperr"
	"medportal_backend/platform/config"
	"medportal_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides project operations.
type Service struct {
	repo *repository.Repository
	cfg  config.GHLConfig
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new projects service.
func New(repo *repository.Repository, cfg config.GHLConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// EnsureByName resolves a project by name, auto-vivifying it with active=true
// when unknown so webhook ingestion never blocks on manual project setup.
func (s *Service) EnsureByName(ctx context.Context, name, requestID string) (repository.Project, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return repository.Project{}, apperr.BadRequest("missing project_name")
	}

	project, created, err := s.repo.EnsureByName(ctx, trimmed)
	if err != nil {
		return repository.Project{}, err
	}

	if created {
		s.log.WithRequestID(requestID).Info("auto-created project", "project", trimmed)
		s.bus.Publish(ctx, events.ProjectAutoCreated{
			BaseEvent:   events.NewBaseEvent(),
			ProjectID:   project.ID,
			ProjectName: project.ProjectName,
			RequestID:   requestID,
		})
	}

	return project, nil
}

// GetByID returns a project by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all projects.
func (s *Service) List(ctx context.Context) ([]repository.Project, error) {
	return s.repo.List(ctx)
}

// Update applies a partial settings update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProjectRequest) (repository.Project, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Project{}, err
	}

	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	return s.repo.UpdateSettings(ctx, id, active, req.GHLAPIKey, req.GHLLocationID, req.BrandColor, req.LogoURL)
}

// ResolveAPIKey returns the GHL API key to use for a project, falling back to
// the globally configured default key when the project has none of its own.
func (s *Service) ResolveAPIKey(project repository.Project) string {
	if project.GHLAPIKey != nil && strings.TrimSpace(*project.GHLAPIKey) != "" {
		return *project.GHLAPIKey
	}
	return s.cfg.GetGHLDefaultAPIKey()
}

// ResolveLocationID returns the GHL location id configured on the project,
// or the provided fallback (typically the location id seen on the webhook).
func (s *Service) ResolveLocationID(project repository.Project, fallback string) string {
	if project.GHLLocationID != nil && strings.TrimSpace(*project.GHLLocationID) != "" {
		return *project.GHLLocationID
	}
	return fallback
}
