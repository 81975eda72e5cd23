// Package handler exposes the admin HTTP surface for projects.
package handler

import (
	"net/http"

	"medportal_backend/internal/projects/repository"
	"medportal_backend/internal/projects/service"
	"medportal_backend/internal/projects/transport"
	"medportal_backend/platform/httpkit"
	"medportal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles project HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
}

// New creates a new projects handler.
func New(service *service.Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// HandleList lists all projects.
// GET /api/v1/admin/projects
func (h *Handler) HandleList(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]transport.ProjectResponse, len(projects))
	for i, p := range projects {
		result[i] = toProjectResponse(p)
	}
	httpkit.OK(c, result)
}

// HandleGet returns a single project.
// GET /api/v1/admin/projects/:projectId
func (h *Handler) HandleGet(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	project, err := h.service.GetByID(c.Request.Context(), projectID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProjectResponse(project))
}

// HandleUpdate applies a partial settings update.
// PUT /api/v1/admin/projects/:projectId
func (h *Handler) HandleUpdate(c *gin.Context) {
	projectID, ok := h.parseProjectID(c)
	if !ok {
		return
	}

	var req transport.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	project, err := h.service.Update(c.Request.Context(), projectID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProjectResponse(project))
}

func (h *Handler) parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid project ID", nil)
		return uuid.UUID{}, false
	}
	return projectID, true
}

func toProjectResponse(p repository.Project) transport.ProjectResponse {
	return transport.ProjectResponse{
		ID:            p.ID,
		ProjectName:   p.ProjectName,
		Active:        p.Active,
		HasAPIKey:     p.GHLAPIKey != nil && *p.GHLAPIKey != "",
		GHLLocationID: p.GHLLocationID,
		BrandColor:    p.BrandColor,
		LogoURL:       p.LogoURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
