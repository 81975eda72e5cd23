package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medportal_backend/platform/apperr"
)

// Appointment mirrors the appointments table. Optional columns are pointers
// so callers can distinguish "absent" from zero values.
type Appointment struct {
	ID                uuid.UUID  `json:"id"`
	ProjectID         uuid.UUID  `json:"project_id"`
	GHLAppointmentID  *string    `json:"ghl_appointment_id"`
	GHLID             *string    `json:"ghl_id"`
	GHLLocationID     *string    `json:"ghl_location_id"`
	DateOfAppointment *string    `json:"date_of_appointment"`
	TimeOfAppointment *string    `json:"time_of_appointment"`
	CalendarName      *string    `json:"calendar_name"`
	RequestedTime     *time.Time `json:"requested_time"`
	LeadName          string     `json:"lead_name"`
	Phone             *string    `json:"phone"`
	Email             *string    `json:"email"`
	DateOfBirth       *string    `json:"date_of_birth"`
	Status            string     `json:"status"`
	WasEverConfirmed  bool       `json:"was_ever_confirmed"`
	PatientIntakeNotes *string   `json:"patient_intake_notes"`
	InsuranceCardURL  *string    `json:"insurance_card_url"`

	InternalNotes    *string `json:"internal_notes"`
	AISummary        *string `json:"ai_summary"`
	ProcedureOrdered bool    `json:"procedure_ordered"`
	ProcessComplete  bool    `json:"process_complete"`

	ParsedInsuranceInfo json.RawMessage `json:"parsed_insurance_info"`
	ParsedPathologyInfo json.RawMessage `json:"parsed_pathology_info"`
	ParsedContactInfo   json.RawMessage `json:"parsed_contact_info"`
	ParsedDemographics  json.RawMessage `json:"parsed_demographics"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter narrows List results. Zero values mean "no constraint".
type ListFilter struct {
	ProjectID *uuid.UUID
	Status    string
	DateFrom  string
	DateTo    string
	Search    string
	Limit     int
	Offset    int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `
	id, project_id, ghl_appointment_id, ghl_id, ghl_location_id,
	date_of_appointment, time_of_appointment, calendar_name, requested_time,
	lead_name, phone, email, date_of_birth,
	status, was_ever_confirmed, patient_intake_notes, insurance_card_url,
	internal_notes, ai_summary, procedure_ordered, process_complete,
	parsed_insurance_info, parsed_pathology_info, parsed_contact_info, parsed_demographics,
	created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.ProjectID, &a.GHLAppointmentID, &a.GHLID, &a.GHLLocationID,
		&a.DateOfAppointment, &a.TimeOfAppointment, &a.CalendarName, &a.RequestedTime,
		&a.LeadName, &a.Phone, &a.Email, &a.DateOfBirth,
		&a.Status, &a.WasEverConfirmed, &a.PatientIntakeNotes, &a.InsuranceCardURL,
		&a.InternalNotes, &a.AISummary, &a.ProcedureOrdered, &a.ProcessComplete,
		&a.ParsedInsuranceInfo, &a.ParsedPathologyInfo, &a.ParsedContactInfo, &a.ParsedDemographics,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID fetches a single appointment.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to fetch appointment", err)
	}
	return a, nil
}

// FindByGHLAppointmentID looks up the row carrying a given GHL booking id.
// Returns (nil, nil) when no row matches.
func (r *Repository) FindByGHLAppointmentID(ctx context.Context, ghlAppointmentID string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE ghl_appointment_id = $1`,
		ghlAppointmentID)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("failed to look up appointment by booking id", err)
	}
	return a, nil
}

// FindByContactAndName returns the earliest appointment for a contact id and
// lead name pair, or (nil, nil) when none exists. The earliest row wins so
// repeated webhook deliveries keep converging on the same record.
func (r *Repository) FindByContactAndName(ctx context.Context, projectID uuid.UUID, ghlContactID, leadName string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE project_id = $1 AND ghl_id = $2 AND lead_name = $3
		 ORDER BY created_at ASC
		 LIMIT 1`,
		projectID, ghlContactID, leadName)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("failed to look up appointment by contact and name", err)
	}
	return a, nil
}

// FindByContact returns the earliest appointment for a contact id regardless
// of lead name, or (nil, nil) when none exists.
func (r *Repository) FindByContact(ctx context.Context, projectID uuid.UUID, ghlContactID string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE project_id = $1 AND ghl_id = $2
		 ORDER BY created_at ASC
		 LIMIT 1`,
		projectID, ghlContactID)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("failed to look up appointment by contact", err)
	}
	return a, nil
}

// Create inserts a new appointment from a field set and returns the row.
// project_id is supplied separately because every insert carries it.
func (r *Repository) Create(ctx context.Context, projectID uuid.UUID, fields *FieldSet) (*Appointment, error) {
	cols := []string{"project_id"}
	args := []interface{}{projectID}
	cols = append(cols, fields.Columns()...)
	args = append(args, fields.Values()...)

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		`INSERT INTO appointments (%s) VALUES (%s) RETURNING `+appointmentColumns,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, apperr.Internal("failed to create appointment", err)
	}
	return a, nil
}

// UpdateFields applies a field set to an existing row. An empty set is a
// no-op and returns the current row unchanged.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields *FieldSet) (*Appointment, error) {
	if fields.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, fields.Len()+1)
	args := make([]interface{}, 0, fields.Len()+1)
	for i, col := range fields.Columns() {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+1))
	}
	args = append(args, fields.Values()...)
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE appointments SET %s WHERE id = $%d RETURNING `+appointmentColumns,
		strings.Join(setClauses, ", "), len(args))

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to update appointment", err)
	}
	return a, nil
}

// List returns a filtered page of appointments plus the unpaged total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Appointment, int, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.ProjectID != nil {
		where = append(where, "project_id = "+arg(*filter.ProjectID))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}
	if filter.DateFrom != "" {
		where = append(where, "date_of_appointment >= "+arg(filter.DateFrom))
	}
	if filter.DateTo != "" {
		where = append(where, "date_of_appointment <= "+arg(filter.DateTo))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(lead_name ILIKE %s OR phone ILIKE %s OR email ILIKE %s)", p, p, p))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM appointments"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Internal("failed to count appointments", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT %s FROM appointments%s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		appointmentColumns, whereClause, arg(limit), arg(filter.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list appointments", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, apperr.Internal("failed to scan appointment", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal("failed to read appointments", err)
	}
	return out, total, nil
}

// SetStatus performs a manual status change from the dashboard. The
// was_ever_confirmed flag only ever flips to true.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET status = $1,
		     was_ever_confirmed = was_ever_confirmed OR ($1 = 'Confirmed'),
		     updated_at = now()
		 WHERE id = $2
		 RETURNING `+appointmentColumns,
		status, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to update appointment status", err)
	}
	return a, nil
}

// UpdateLocalFields writes the dashboard-owned columns that webhook merges
// never touch. Nil pointers leave the column as is.
func (r *Repository) UpdateLocalFields(ctx context.Context, id uuid.UUID, internalNotes, aiSummary *string, procedureOrdered, processComplete *bool) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET internal_notes = COALESCE($1, internal_notes),
		     ai_summary = COALESCE($2, ai_summary),
		     procedure_ordered = COALESCE($3, procedure_ordered),
		     process_complete = COALESCE($4, process_complete),
		     updated_at = now()
		 WHERE id = $5
		 RETURNING `+appointmentColumns,
		internalNotes, aiSummary, procedureOrdered, processComplete, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to update appointment fields", err)
	}
	return a, nil
}

// ApplyEnrichment appends a fresh intake block to the notes and stores the
// parsed contact and demographic payloads produced by enrichment.
func (r *Repository) ApplyEnrichment(ctx context.Context, id uuid.UUID, intakeBlock string, parsedContact, parsedDemographics json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE appointments
		 SET patient_intake_notes = CASE
		         WHEN $1 = '' THEN patient_intake_notes
		         WHEN patient_intake_notes IS NULL OR patient_intake_notes = '' THEN $1
		         ELSE patient_intake_notes || E'\n\n' || $1
		     END,
		     parsed_contact_info = COALESCE($2, parsed_contact_info),
		     parsed_demographics = COALESCE($3, parsed_demographics),
		     updated_at = now()
		 WHERE id = $4`,
		intakeBlock, parsedContact, parsedDemographics, id)
	if err != nil {
		return apperr.Internal("failed to apply enrichment", err)
	}
	return nil
}

// SetInsuranceCardURLIfEmpty backfills the insurance card URL only when the
// row has none. Returns true when the write happened.
func (r *Repository) SetInsuranceCardURLIfEmpty(ctx context.Context, id uuid.UUID, url string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments
		 SET insurance_card_url = $1, updated_at = now()
		 WHERE id = $2 AND (insurance_card_url IS NULL OR insurance_card_url = '')`,
		url, id)
	if err != nil {
		return false, apperr.Internal("failed to backfill insurance card url", err)
	}
	return tag.RowsAffected() > 0, nil
}

// HasIntakeMarker reports whether the stored notes already carry the given
// marker line, used to keep replayed webhooks from stacking duplicate blocks.
func (r *Repository) HasIntakeMarker(ctx context.Context, id uuid.UUID, marker string) (bool, error) {
	var notes *string
	err := r.pool.QueryRow(ctx,
		`SELECT patient_intake_notes FROM appointments WHERE id = $1`, id).Scan(&notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return false, apperr.Internal("failed to read appointment notes", err)
	}
	return notes != nil && strings.Contains(*notes, marker), nil
}
