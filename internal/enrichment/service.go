// Package enrichment runs the best-effort follow-ups that fire after a
// webhook delivery has been persisted: pulling the full GHL contact profile
// to enrich the intake notes, backfilling insurance card uploads, and
// kicking the downstream note parser. Every entry point owns its error
// boundary; failures are logged and swallowed, never propagated back to the
// webhook path.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"medportal_backend/internal/appointments/repository"
	"medportal_backend/internal/events"
	"medportal_backend/internal/ghl"
	"medportal_backend/internal/noteparser"
	projectsvc "medportal_backend/internal/projects/service"
	"medportal_backend/platform/logger"
)

type Service struct {
	appts    *repository.Repository
	projects *projectsvc.Service
	ghl      *ghl.Client
	parser   *noteparser.Client
	bus      events.Bus
	log      *logger.Logger
}

func NewService(appts *repository.Repository, projects *projectsvc.Service, ghlClient *ghl.Client, parser *noteparser.Client, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		appts:    appts,
		projects: projects,
		ghl:      ghlClient,
		parser:   parser,
		bus:      bus,
		log:      log,
	}
}

// EnrichContact pulls the full contact profile and field catalog from GHL,
// rebuilds the intake notes over the richer field set, stores the parsed
// contact and demographic payloads, then triggers the note parser. The
// richer pass supersedes the raw-notes parser trigger the webhook would
// otherwise have requested.
func (s *Service) EnrichContact(ctx context.Context, appointmentID uuid.UUID, requestID string) {
	log := s.log.WithRequestID(requestID)

	appt, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		log.Error("enrichment: appointment lookup failed", "error", err,
			"appointment_id", appointmentID)
		return
	}
	if appt.GHLID == nil || *appt.GHLID == "" {
		log.Debug("enrichment: no contact id, skipping",
			"appointment_id", appointmentID)
		return
	}

	apiKey, locationID, err := s.resolveCredentials(ctx, appt)
	if err != nil {
		log.Error("enrichment: credential resolution failed", "error", err,
			"appointment_id", appointmentID)
		return
	}

	var (
		contact *ghl.Contact
		catalog []ghl.CustomFieldDefinition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contact, err = s.ghl.GetContact(gctx, *appt.GHLID, apiKey)
		return err
	})
	g.Go(func() error {
		if locationID == "" {
			return nil
		}
		var err error
		catalog, err = s.ghl.GetCustomFields(gctx, locationID, apiKey)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("enrichment: contact fetch failed", "error", err,
			"appointment_id", appointmentID, "contact_id", *appt.GHLID)
		return
	}

	labels := make(map[string]string, len(catalog))
	for _, def := range catalog {
		labels[def.ID] = def.Name
	}

	pairs, uploads := contactFieldPairs(contact, labels)
	intakeBlock := ghl.FormatIntakeNotes(pairs)

	// Replayed enrichment must not stack duplicate blocks.
	hasMarker, err := s.appts.HasIntakeMarker(ctx, appointmentID, ghl.IntakeBlockMarker)
	if err != nil {
		log.Error("enrichment: notes check failed", "error", err,
			"appointment_id", appointmentID)
		return
	}
	if hasMarker {
		intakeBlock = ""
	}

	parsedContact, parsedDemographics := buildParsedInfo(contact)

	if err := s.appts.ApplyEnrichment(ctx, appointmentID, intakeBlock, parsedContact, parsedDemographics); err != nil {
		log.Error("enrichment: write failed", "error", err,
			"appointment_id", appointmentID)
		return
	}

	if url := ghl.FindInsuranceCardURL(uploads); url != "" {
		if _, err := s.appts.SetInsuranceCardURLIfEmpty(ctx, appointmentID, url); err != nil {
			log.Error("enrichment: insurance url write failed", "error", err,
				"appointment_id", appointmentID)
		}
	}

	log.Info("enrichment: contact profile applied",
		"appointment_id", appointmentID, "contact_id", *appt.GHLID,
		"fields", len(pairs))

	s.bus.Publish(ctx, events.AppointmentEnriched{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appointmentID,
		ContactID:     *appt.GHLID,
		RequestID:     requestID,
	})

	s.TriggerNoteParser(ctx, appointmentID, requestID)
}

// BackfillInsurance fetches the contact profile looking only for an
// insurance card upload, writing the URL when the row has none yet.
func (s *Service) BackfillInsurance(ctx context.Context, appointmentID uuid.UUID, requestID string) {
	log := s.log.WithRequestID(requestID)

	appt, err := s.appts.GetByID(ctx, appointmentID)
	if err != nil {
		log.Error("insurance backfill: appointment lookup failed", "error", err,
			"appointment_id", appointmentID)
		return
	}
	if appt.InsuranceCardURL != nil && *appt.InsuranceCardURL != "" {
		return
	}
	if appt.GHLID == nil || *appt.GHLID == "" {
		return
	}

	apiKey, locationID, err := s.resolveCredentials(ctx, appt)
	if err != nil {
		log.Error("insurance backfill: credential resolution failed", "error", err,
			"appointment_id", appointmentID)
		return
	}

	var (
		contact *ghl.Contact
		catalog []ghl.CustomFieldDefinition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contact, err = s.ghl.GetContact(gctx, *appt.GHLID, apiKey)
		return err
	})
	g.Go(func() error {
		if locationID == "" {
			return nil
		}
		var err error
		catalog, err = s.ghl.GetCustomFields(gctx, locationID, apiKey)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("insurance backfill: contact fetch failed", "error", err,
			"appointment_id", appointmentID)
		return
	}

	labels := make(map[string]string, len(catalog))
	for _, def := range catalog {
		labels[def.ID] = def.Name
	}
	_, uploads := contactFieldPairs(contact, labels)

	url := ghl.FindInsuranceCardURL(uploads)
	if url == "" {
		log.Debug("insurance backfill: no card upload found",
			"appointment_id", appointmentID)
		return
	}

	written, err := s.appts.SetInsuranceCardURLIfEmpty(ctx, appointmentID, url)
	if err != nil {
		log.Error("insurance backfill: write failed", "error", err,
			"appointment_id", appointmentID)
		return
	}
	if written {
		log.Info("insurance backfill: card url stored",
			"appointment_id", appointmentID)
	}
}

// TriggerNoteParser invokes the downstream parser. Failures are logged and
// dropped.
func (s *Service) TriggerNoteParser(ctx context.Context, appointmentID uuid.UUID, requestID string) {
	if err := s.parser.Trigger(ctx, appointmentID.String()); err != nil {
		s.log.WithRequestID(requestID).Error("note parser trigger failed",
			"error", err, "appointment_id", appointmentID)
	}
}

func (s *Service) resolveCredentials(ctx context.Context, appt *repository.Appointment) (string, string, error) {
	project, err := s.projects.GetByID(ctx, appt.ProjectID)
	if err != nil {
		return "", "", err
	}
	apiKey := s.projects.ResolveAPIKey(project)
	if apiKey == "" {
		return "", "", fmt.Errorf("no GHL api key for project %s", project.ProjectName)
	}
	fallbackLocation := ""
	if appt.GHLLocationID != nil {
		fallbackLocation = *appt.GHLLocationID
	}
	return apiKey, s.projects.ResolveLocationID(project, fallbackLocation), nil
}

// contactFieldPairs flattens a contact profile into intake note pairs plus
// the raw upload map used for insurance card extraction. Root attributes
// join the custom fields so the rendered block reads as one intake summary.
func contactFieldPairs(contact *ghl.Contact, labels map[string]string) ([]ghl.FieldPair, map[string]interface{}) {
	var pairs []ghl.FieldPair
	add := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			pairs = append(pairs, ghl.FieldPair{Key: key, Value: strings.TrimSpace(value)})
		}
	}

	add("Name", contact.Name)
	add("Email", contact.Email)
	add("Phone", contact.Phone)
	if dob := ghl.NormalizeDOB(contact.DateOfBirth); dob != "" {
		add("Date of Birth", dob)
		if age, ok := ghl.AgeFromDOB(dob, time.Now()); ok {
			add("Age", strconv.Itoa(age))
		}
	}
	add("Address", contact.Address1)
	add("City", contact.City)
	add("State", contact.State)
	add("Postal Code", contact.PostalCode)
	add("Gender", contact.Gender)

	uploads := make(map[string]interface{}, len(contact.CustomFields))
	for _, field := range contact.CustomFields {
		label := labels[field.ID]
		if label == "" {
			label = field.ID
		}
		uploads[label] = field.Value
		if text := renderValue(field.Value); text != "" {
			pairs = append(pairs, ghl.FieldPair{Key: label, Value: text})
		}
	}

	return pairs, uploads
}

func buildParsedInfo(contact *ghl.Contact) (json.RawMessage, json.RawMessage) {
	dob := ghl.NormalizeDOB(contact.DateOfBirth)

	contactInfo := map[string]interface{}{
		"name":        contact.Name,
		"email":       contact.Email,
		"phone":       contact.Phone,
		"address":     contact.Address1,
		"city":        contact.City,
		"state":       contact.State,
		"postal_code": contact.PostalCode,
	}
	demographics := map[string]interface{}{
		"gender":        contact.Gender,
		"date_of_birth": dob,
	}
	if dob != "" {
		if age, ok := ghl.AgeFromDOB(dob, time.Now()); ok {
			demographics["age"] = age
		}
	}

	parsedContact, _ := json.Marshal(contactInfo)
	parsedDemographics, _ := json.Marshal(demographics)
	return parsedContact, parsedDemographics
}

func renderValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(v)
		// JSON-encoded upload blobs are handled by the URL extractor.
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return ""
		}
		return trimmed
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
