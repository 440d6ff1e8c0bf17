package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mailsift/mailsift/internal/config"
)

func newTestRouter() *chi.Mux {
	cfg := config.Load()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(cfg, log)

	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func postParse(t *testing.T, r http.Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func rawMessage(lines ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(lines, "\r\n") + "\r\n"))
}

func TestParseEndpointSuccess(t *testing.T) {
	r := newTestRouter()

	rec := postParse(t, r, ParseRequest{
		UID: 7,
		Raw: rawMessage(
			"From: John Doe <john@example.com>",
			"Subject: Hello",
			"",
			"Reach me at 555-123-4567.",
		),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("Success = false: %+v", resp.Error)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data = %T", resp.Data)
	}
	if data["parse_id"] == "" {
		t.Error("parse_id missing")
	}
	email, ok := data["email"].(map[string]interface{})
	if !ok {
		t.Fatalf("email = %T", data["email"])
	}
	if email["uid"] != float64(7) {
		t.Errorf("uid = %v", email["uid"])
	}
}

func TestParseEndpointAcceptsZeroUID(t *testing.T) {
	r := newTestRouter()

	rec := postParse(t, r, ParseRequest{
		UID: 0,
		Raw: rawMessage(
			"From: a@example.com",
			"",
			"body",
		),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("Success = false: %+v", resp.Error)
	}
}

func TestParseEndpointInvalidJSON(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "INVALID_REQUEST" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestParseEndpointMissingFields(t *testing.T) {
	r := newTestRouter()

	rec := postParse(t, r, map[string]interface{}{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "INVALID_REQUEST" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestParseEndpointBadBase64(t *testing.T) {
	r := newTestRouter()

	rec := postParse(t, r, map[string]interface{}{
		"uid": 1,
		"raw": "!!! not base64 !!!",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestParseEndpointParseFailure(t *testing.T) {
	r := newTestRouter()

	rec := postParse(t, r, ParseRequest{
		UID: 1,
		Raw: rawMessage(
			"Subject: no sender here",
			"",
			"body",
		),
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "PARSE_FAILED" {
		t.Fatalf("error = %+v", resp.Error)
	}
	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details = %T", resp.Error.Details)
	}
	if details["kind"] != "missing_header" {
		t.Errorf("kind = %v", details["kind"])
	}
	if details["header"] != "From" {
		t.Errorf("header = %v", details["header"])
	}
}

func TestParseEndpointSanitizesHTML(t *testing.T) {
	r := newTestRouter()

	sanitize := true
	rec := postParse(t, r, ParseRequest{
		UID:          1,
		SanitizeHTML: &sanitize,
		Raw: rawMessage(
			"From: a@example.com",
			"Content-Type: text/html",
			"",
			"<p onclick=\"steal()\">Hello</p><script>evil()</script>",
		),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>") || strings.Contains(body, "onclick") {
		t.Errorf("sanitized response still carries active content: %s", body)
	}
}
