package transport

import (
	"time"

	"github.com/google/uuid"
)

// ProjectResponse is the response body for a project.
type ProjectResponse struct {
	ID            uuid.UUID `json:"id"`
	ProjectName   string    `json:"projectName"`
	Active        bool      `json:"active"`
	HasAPIKey     bool      `json:"hasApiKey"`
	GHLLocationID *string   `json:"ghlLocationId,omitempty"`
	BrandColor    *string   `json:"brandColor,omitempty"`
	LogoURL       *string   `json:"logoUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UpdateProjectRequest is the request body for updating project settings.
// The API key is write-only: it is never echoed back in responses.
type UpdateProjectRequest struct {
	Active        *bool   `json:"active,omitempty"`
	GHLAPIKey     *string `json:"ghlApiKey,omitempty" validate:"omitempty,min=8,max=500"`
	GHLLocationID *string `json:"ghlLocationId,omitempty" validate:"omitempty,max=100"`
	BrandColor    *string `json:"brandColor,omitempty" validate:"omitempty,hexcolor"`
	LogoURL       *string `json:"logoUrl,omitempty" validate:"omitempty,url,max=2000"`
}
