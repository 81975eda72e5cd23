package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medportal_backend/platform/apperr"
	"medportal_backend/platform/httpkit"
	"medportal_backend/platform/logger"
)

// stubIngester returns a fixed result so tests can pin the HTTP contract
// without a database.
type stubIngester struct {
	result Result
	err    error

	gotBody      []byte
	gotRequestID string
}

func (s *stubIngester) Ingest(_ context.Context, body []byte, requestID string) (Result, error) {
	s.gotBody = body
	s.gotRequestID = requestID
	return s.result, s.err
}

func newTestEngine(ing Ingester) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(httpkit.CorrelationID())
	engine.NoMethod(func(c *gin.Context) {
		httpkit.Error(c, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	handler := NewHandler(ing, logger.New("test"))
	engine.POST("/api/v1/webhooks/ghl", handler.HandleIngest)
	return engine
}

func postWebhook(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/ghl", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeIngestResponse(t *testing.T, rec *httptest.ResponseRecorder) ingestResponse {
	t.Helper()
	var resp ingestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("malformed response body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandleIngestCreate(t *testing.T) {
	apptID := uuid.New()
	projectID := uuid.New()
	stub := &stubIngester{result: Result{
		Operation:     OpCreate,
		AppointmentID: apptID,
		ProjectID:     projectID,
		Status:        "Confirmed",
		Kind:          KindStandardEvent,
	}}

	rec := postWebhook(t, newTestEngine(stub), standardEventBody)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	resp := decodeIngestResponse(t, rec)
	if !resp.Success || resp.Operation != "create" {
		t.Errorf("body: got success=%v operation=%q", resp.Success, resp.Operation)
	}
	if resp.AppointmentID != apptID.String() || resp.ProjectID != projectID.String() {
		t.Errorf("ids: got %q / %q", resp.AppointmentID, resp.ProjectID)
	}
	if resp.RequestID == "" {
		t.Error("request_id missing from create response")
	}
	if resp.RequestID != stub.gotRequestID {
		t.Errorf("request_id %q not the one handed to the pipeline (%q)", resp.RequestID, stub.gotRequestID)
	}
	if string(stub.gotBody) != standardEventBody {
		t.Error("handler must pass the raw body through unchanged")
	}
}

func TestHandleIngestUpdate(t *testing.T) {
	stub := &stubIngester{result: Result{
		Operation:     OpUpdate,
		AppointmentID: uuid.New(),
		ProjectID:     uuid.New(),
		Status:        "Cancelled",
	}}

	rec := postWebhook(t, newTestEngine(stub), standardEventBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeIngestResponse(t, rec)
	if resp.Operation != "update" || resp.Status != "Cancelled" {
		t.Errorf("body: got operation=%q status=%q", resp.Operation, resp.Status)
	}
	if resp.RequestID == "" {
		t.Error("request_id missing from update response")
	}
}

func TestHandleIngestSkipped(t *testing.T) {
	stub := &stubIngester{result: Result{
		Operation: OpSkipped,
		ProjectID: uuid.New(),
		Status:    "Showed",
		Reason:    "terminal status on unknown appointment",
	}}

	rec := postWebhook(t, newTestEngine(stub), standardEventBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeIngestResponse(t, rec)
	if resp.Operation != "skipped" || resp.Reason == "" {
		t.Errorf("body: got operation=%q reason=%q", resp.Operation, resp.Reason)
	}
	if resp.AppointmentID != "" {
		t.Errorf("skipped delivery must not report an appointment id, got %q", resp.AppointmentID)
	}
}

func TestHandleIngestBadRequest(t *testing.T) {
	stub := &stubIngester{err: apperr.BadRequest("missing required field: lead_name")}

	rec := postWebhook(t, newTestEngine(stub), `{"contact_id":"C1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("malformed error body: %v", err)
	}
	if resp.Error == "" {
		t.Error("error message missing")
	}
	if resp.RequestID == "" {
		t.Error("request_id missing from error response")
	}
}

func TestHandleIngestInternalError(t *testing.T) {
	stub := &stubIngester{err: apperr.Internal("insert failed", nil)}

	rec := postWebhook(t, newTestEngine(stub), standardEventBody)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the dispatcher redelivers", rec.Code)
	}
	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("malformed error body: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("request_id missing from error response")
	}
}

func TestHandleIngestMethodNotAllowed(t *testing.T) {
	engine := newTestEngine(&stubIngester{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/ghl", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

// dryRunIngester runs the database-free front of the pipeline so the
// workflow scenario can be exercised end to end at the handler level.
type dryRunIngester struct {
	created *Canonical
}

func (d *dryRunIngester) Ingest(_ context.Context, body []byte, _ string) (Result, error) {
	c, kind, err := Normalize(body)
	if err != nil {
		return Result{Kind: kind}, err
	}
	if c.LeadName == "" {
		return Result{Kind: kind}, apperr.BadRequest("missing required field: lead_name")
	}
	if c.ProjectName == "" {
		return Result{Kind: kind}, apperr.BadRequest("missing required field: project_name")
	}

	res := Result{Kind: kind, Operation: Decide(c, nil), ProjectID: uuid.New()}
	res.Status = string(NormalizeStatus(c.RawStatus))
	if res.Operation == OpCreate {
		d.created = &c
		res.AppointmentID = uuid.New()
	}
	return res, nil
}

func TestHandleIngestWorkflowScenario(t *testing.T) {
	ing := &dryRunIngester{}

	rec := postWebhook(t, newTestEngine(ing), workflowBody)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	resp := decodeIngestResponse(t, rec)
	if resp.Operation != "create" || resp.Status != "Confirmed" {
		t.Fatalf("body: got operation=%q status=%q", resp.Operation, resp.Status)
	}
	if ing.created == nil {
		t.Fatal("create path did not run")
	}

	fs := ComputeCreate(*ing.created)
	if v, _ := fs.Get("lead_name"); v != "Jane Doe" {
		t.Errorf("lead_name: got %v", v)
	}
	if v, _ := fs.Get("date_of_appointment"); v != "2025-03-01" {
		t.Errorf("date_of_appointment: got %v", v)
	}
	if v, _ := fs.Get("status"); v != "Confirmed" {
		t.Errorf("status: got %v", v)
	}
	if v, _ := fs.Get("was_ever_confirmed"); v != true {
		t.Errorf("was_ever_confirmed: got %v", v)
	}
}

func TestHandleIngestUnsupportedFormat(t *testing.T) {
	rec := postWebhook(t, newTestEngine(&dryRunIngester{}), `{"foo":"bar"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
