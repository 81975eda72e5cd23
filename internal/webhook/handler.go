package webhook

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medportal_backend/platform/apperr"
	"medportal_backend/platform/httpkit"
	"medportal_backend/platform/logger"
)

// maxBodySize caps webhook bodies at 1 MB. GHL payloads are a few KB.
const maxBodySize = 1 << 20

// ingestResponse is the success body returned to the GHL dispatcher.
type ingestResponse struct {
	Success       bool   `json:"success"`
	Operation     string `json:"operation"`
	AppointmentID string `json:"appointment_id,omitempty"`
	ProjectID     string `json:"project_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Reason        string `json:"reason,omitempty"`
	RequestID     string `json:"request_id"`
}

// Ingester processes one webhook delivery. Satisfied by Service.
type Ingester interface {
	Ingest(ctx context.Context, body []byte, requestID string) (Result, error)
}

type Handler struct {
	svc Ingester
	log *logger.Logger
}

func NewHandler(svc Ingester, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// HandleIngest is the POST endpoint GHL delivers to. Permanent payload
// problems answer 4xx so the dispatcher stops redelivering; anything that
// might succeed on retry answers 5xx.
func (h *Handler) HandleIngest(c *gin.Context) {
	requestID := httpkit.RequestID(c)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable request body", nil)
		return
	}

	result, err := h.svc.Ingest(c.Request.Context(), body, requestID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindBadRequest || apperr.GetKind(err) == apperr.KindValidation {
			h.log.WithRequestID(requestID).Warn("webhook rejected",
				"error", err, "payload_kind", result.Kind.String())
			httpkit.HandleError(c, err)
			return
		}
		h.log.WithRequestID(requestID).Error("webhook processing failed",
			"error", err, "payload_kind", result.Kind.String())
		httpkit.HandleError(c, err)
		return
	}

	resp := ingestResponse{
		Success:   true,
		Operation: string(result.Operation),
		Status:    result.Status,
		Reason:    result.Reason,
		RequestID: requestID,
	}
	if result.AppointmentID != uuid.Nil {
		resp.AppointmentID = result.AppointmentID.String()
	}
	if result.ProjectID != uuid.Nil {
		resp.ProjectID = result.ProjectID.String()
	}

	status := http.StatusOK
	if result.Operation == OpCreate {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}
