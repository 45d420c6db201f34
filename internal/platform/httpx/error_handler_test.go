package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop())(err, c)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return rec, env
}

func TestErrorHandler_NotFound(t *testing.T) {
	rec, env := renderError(t, apperr.NotFound("patient not found"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected error body: %+v", env.Error)
	}
	if env.Error.Message != "patient not found" {
		t.Errorf("unexpected message: %s", env.Error.Message)
	}
}

func TestErrorHandler_Conflict(t *testing.T) {
	rec, env := renderError(t, apperr.Conflict("email already in use"))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if env.Error.Code != "CONFLICT" {
		t.Errorf("unexpected code: %s", env.Error.Code)
	}
}

func TestErrorHandler_TenantMissing(t *testing.T) {
	rec, env := renderError(t, apperr.TenantMissing("missing organization header"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if env.Error.Code != "TENANT_MISSING" {
		t.Errorf("unexpected code: %s", env.Error.Code)
	}
}

func TestErrorHandler_DatabaseHidesCause(t *testing.T) {
	rec, env := renderError(t, apperr.Database(errors.New("pq: connection refused")))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if env.Error.Message != "storage operation failed" {
		t.Errorf("internal cause leaked into response: %s", env.Error.Message)
	}
}

func TestErrorHandler_WrappedKindSurvives(t *testing.T) {
	wrapped := apperr.Wrap(apperr.NotFound("gone"), apperr.KindNotFound, "lookup failed")
	rec, _ := renderError(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for wrapped not-found, got %d", rec.Code)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec, env := renderError(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if env.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected code: %s", env.Error.Code)
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	rec, env := renderError(t, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if env.Error.Message != "internal server error" {
		t.Errorf("unclassified error leaked into response: %s", env.Error.Message)
	}
}

func TestEnvelopeHelpers(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Created(c, map[string]string{"id": "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var env Envelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if !env.Success {
		t.Error("expected success=true")
	}
}
