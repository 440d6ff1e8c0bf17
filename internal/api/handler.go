// Package api implements the HTTP surface of the parsing service.
package api

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mailsift/mailsift/internal/config"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/metrics"
	"github.com/mailsift/mailsift/internal/parser"
	"github.com/mailsift/mailsift/internal/sanitizer"
)

// APIResponse is the uniform response envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError carries a machine-readable code plus a human message.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ParseRequest is the body of POST /api/v1/parse. Raw is the base64 of
// the full RFC 5322 message. UID is any u32 value, zero included, so it
// carries no required rule.
type ParseRequest struct {
	UID          uint32 `json:"uid"`
	Raw          string `json:"raw" validate:"required,base64"`
	SanitizeHTML *bool  `json:"sanitize_html,omitempty"`
}

// ParseResult wraps the parsed message with a request-scoped identifier.
type ParseResult struct {
	ParseID string        `json:"parse_id"`
	Email   *parser.Email `json:"email"`
}

// Handler serves the parse endpoint.
type Handler struct {
	cfg       *config.Config
	log       *slog.Logger
	validate  *validator.Validate
	sanitizer *sanitizer.Sanitizer
}

// NewHandler creates a Handler.
func NewHandler(cfg *config.Config, log *slog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		log:       log,
		validate:  validator.New(),
		sanitizer: sanitizer.New(),
	}
}

// Parse handles POST /api/v1/parse.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logger.WithCorrelationID(r.Context(), h.log)

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Parse.MaxMessageBytes*2)

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ParsesTotal.WithLabelValues("invalid_request").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body is not valid JSON", nil)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		metrics.ParsesTotal.WithLabelValues("invalid_request").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request validation failed", validationDetails(err))
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Raw)
	if err != nil {
		metrics.ParsesTotal.WithLabelValues("invalid_request").Inc()
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Field raw is not valid base64", nil)
		return
	}
	if int64(len(raw)) > h.cfg.Parse.MaxMessageBytes {
		metrics.ParsesTotal.WithLabelValues("invalid_request").Inc()
		writeError(w, http.StatusRequestEntityTooLarge, "MESSAGE_TOO_LARGE", "Raw message exceeds the size limit", map[string]interface{}{
			"max_bytes": h.cfg.Parse.MaxMessageBytes,
		})
		return
	}

	email, err := parser.ParseBytes(req.UID, raw)
	if err != nil {
		metrics.ObserveParse("parse_error", time.Since(start), len(raw), nil)

		details := map[string]interface{}{}
		if pe, ok := parser.AsParseError(err); ok {
			details["kind"] = string(pe.Kind)
			if pe.Header != "" {
				details["header"] = pe.Header
			}
		}
		log.Warn("message parse failed",
			slog.Uint64("uid", uint64(req.UID)),
			slog.Int("size_bytes", len(raw)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusUnprocessableEntity, "PARSE_FAILED", err.Error(), details)
		return
	}

	sanitize := h.cfg.Parse.SanitizeHTML
	if req.SanitizeHTML != nil {
		sanitize = *req.SanitizeHTML
	}
	if sanitize && email.Body.HTML != "" {
		email.Body.HTML = h.sanitizer.Sanitize(email.Body.HTML)
	}

	metrics.ObserveParse("ok", time.Since(start), len(raw), map[string]int{
		"email":         len(email.Entities.Emails),
		"phone":         len(email.Entities.PhoneNumbers),
		"url":           len(email.Entities.URLs),
		"amount":        len(email.Entities.Amounts),
		"social_handle": len(email.Entities.SocialHandles),
	})

	log.Info("message parsed",
		slog.Uint64("uid", uint64(req.UID)),
		slog.Int("size_bytes", len(raw)),
		slog.Int("entities", email.Entities.TotalCount()),
		slog.Duration("duration", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ParseResult{
			ParseID: uuid.NewString(),
			Email:   email,
		},
		Timestamp: time.Now().UTC(),
	})
}

func validationDetails(err error) interface{} {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return map[string]interface{}{"fields": fields}
}

func writeError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
