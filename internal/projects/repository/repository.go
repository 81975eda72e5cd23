// Package repository provides data access for projects.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medportal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectNotFoundMsg = "project not found"

// Project represents the project database model. Projects group appointments
// per clinic/campaign and hold the GHL API credential for that tenant.
type Project struct {
	ID            uuid.UUID `db:"id"`
	ProjectName   string    `db:"project_name"`
	Active        bool      `db:"active"`
	GHLAPIKey     *string   `db:"ghl_api_key"`
	GHLLocationID *string   `db:"ghl_location_id"`
	BrandColor    *string   `db:"brand_color"`
	LogoURL       *string   `db:"logo_url"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Repository provides database operations for projects.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, project_name, active, ghl_api_key, ghl_location_id, brand_color, logo_url, created_at, updated_at`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID, &p.ProjectName, &p.Active, &p.GHLAPIKey, &p.GHLLocationID,
		&p.BrandColor, &p.LogoURL, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// EnsureByName returns the project with the given name, creating it with
// active=true when it does not exist yet. The boolean reports whether a new
// row was created. Concurrent webhook deliveries racing on the same name are
// resolved by the unique constraint: the loser of the insert falls through to
// the select.
func (r *Repository) EnsureByName(ctx context.Context, name string) (Project, bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (project_name, active)
		VALUES ($1, true)
		ON CONFLICT (project_name) DO NOTHING
		RETURNING `+projectColumns,
		name)

	p, err := scanProject(row)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Project{}, false, fmt.Errorf("failed to ensure project: %w", err)
	}

	p, err = r.GetByName(ctx, name)
	if err != nil {
		return Project{}, false, err
	}
	return p, false, nil
}

// GetByName retrieves a project by its unique name.
func (r *Repository) GetByName(ctx context.Context, name string) (Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE project_name = $1`, name)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, apperr.NotFound(projectNotFoundMsg)
	}
	if err != nil {
		return Project{}, fmt.Errorf("failed to get project by name: %w", err)
	}
	return p, nil
}

// GetByID retrieves a project by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, apperr.NotFound(projectNotFoundMsg)
	}
	if err != nil {
		return Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// List returns all projects ordered by name.
func (r *Repository) List(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY project_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateSettings updates the mutable settings of a project.
func (r *Repository) UpdateSettings(ctx context.Context, id uuid.UUID, active bool, apiKey, locationID, brandColor, logoURL *string) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE projects
		SET active = $2,
		    ghl_api_key = COALESCE($3, ghl_api_key),
		    ghl_location_id = COALESCE($4, ghl_location_id),
		    brand_color = COALESCE($5, brand_color),
		    logo_url = COALESCE($6, logo_url),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+projectColumns,
		id, active, apiKey, locationID, brandColor, logoURL)

	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, apperr.NotFound(projectNotFoundMsg)
	}
	if err != nil {
		return Project{}, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}
