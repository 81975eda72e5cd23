package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/appointments/service"
	"medportal_backend/internal/appointments/transport"
	"medportal_backend/platform/httpkit"
	"medportal_backend/platform/logger"
	"medportal_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
	log *logger.Logger
}

func New(svc *service.Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

func (h *Handler) HandleList(c *gin.Context) {
	var req transport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		httpkit.Error(c, http.StatusBadRequest, "invalid status", "unknown status value")
		return
	}

	items, total, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.AppointmentListResponse{
		Items:    make([]transport.AppointmentResponse, 0, len(items)),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if resp.Page < 1 {
		resp.Page = 1
	}
	if resp.PageSize <= 0 {
		resp.PageSize = 50
	}
	for i := range items {
		resp.Items = append(resp.Items, toAppointmentResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HandleGet(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	appt, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (h *Handler) HandleUpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if !validStatus(req.Status) {
		httpkit.Error(c, http.StatusBadRequest, "invalid status", "unknown status value")
		return
	}

	appt, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (h *Handler) HandleUpdateLocalFields(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateLocalFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	appt, err := h.svc.UpdateLocalFields(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toAppointmentResponse(appt))
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func validStatus(s transport.Status) bool {
	for _, known := range transport.AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func toAppointmentResponse(a *repository.Appointment) transport.AppointmentResponse {
	projectID := a.ProjectID
	return transport.AppointmentResponse{
		ID:                 a.ID,
		ProjectID:          &projectID,
		GHLAppointmentID:   a.GHLAppointmentID,
		GHLContactID:       a.GHLID,
		LeadName:           a.LeadName,
		Phone:              a.Phone,
		Email:              a.Email,
		DateOfBirth:        a.DateOfBirth,
		DateOfAppointment:  a.DateOfAppointment,
		TimeOfAppointment:  a.TimeOfAppointment,
		CalendarName:       a.CalendarName,
		RequestedTime:      a.RequestedTime,
		Status:             transport.Status(a.Status),
		WasEverConfirmed:   a.WasEverConfirmed,
		PatientIntakeNotes: a.PatientIntakeNotes,
		InsuranceCardURL:   a.InsuranceCardURL,
		InternalNotes:      a.InternalNotes,
		AISummary:          a.AISummary,
		ProcedureOrdered:   a.ProcedureOrdered,
		ProcessComplete:    a.ProcessComplete,
		ParsedInsurance:    a.ParsedInsuranceInfo,
		ParsedPathology:    a.ParsedPathologyInfo,
		ParsedContact:      a.ParsedContactInfo,
		ParsedDemographics: a.ParsedDemographics,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
