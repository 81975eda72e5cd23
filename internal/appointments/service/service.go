package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/appointments/transport"
	"medportal_backend/platform/logger"
)

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*repository.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, req transport.ListAppointmentsRequest) ([]repository.Appointment, int, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	filter := repository.ListFilter{
		ProjectID: req.ProjectID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Search:    req.Search,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if req.Status != nil {
		filter.Status = string(*req.Status)
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus applies a staff-initiated status change. The vocabulary is
// validated at the transport layer, so any status here is already known.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status transport.Status) (*repository.Appointment, error) {
	appt, err := s.repo.SetStatus(ctx, id, string(status))
	if err != nil {
		return nil, err
	}
	s.log.Info("appointment status updated manually",
		slog.String("appointment_id", id.String()),
		slog.String("status", string(status)))
	return appt, nil
}

func (s *Service) UpdateLocalFields(ctx context.Context, id uuid.UUID, req transport.UpdateLocalFieldsRequest) (*repository.Appointment, error) {
	return s.repo.UpdateLocalFields(ctx, id, req.InternalNotes, req.AISummary, req.ProcedureOrdered, req.ProcessComplete)
}
