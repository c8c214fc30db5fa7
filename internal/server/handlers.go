package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/leapstack-labs/rosa/internal/assistant"
	"github.com/leapstack-labs/rosa/pkg/core"
)

const maxRequestBytes = 1 << 20

// Asker answers questions. *assistant.Service satisfies it.
type Asker interface {
	Ask(ctx context.Context, question string) (*assistant.Answer, error)
}

// AssistantRequest is the body of POST /api/assistant.
type AssistantRequest struct {
	Question string `json:"question"`
}

// AssistantResponse is the success body of POST /api/assistant.
type AssistantResponse struct {
	Message string            `json:"message"`
	Filter  core.FilterObject `json:"filter"`
	SQL     string            `json:"sql"`
	Data    any               `json:"data"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Handlers provides HTTP handlers for the API.
type Handlers struct {
	asker  Asker
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(asker Asker, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{asker: asker, logger: logger}
}

// Welcome handles GET /.
func (h *Handlers) Welcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Rosa Traffic API"})
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Assistant handles POST /api/assistant.
func (h *Handlers) Assistant(w http.ResponseWriter, r *http.Request) {
	var req AssistantRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "request body must be a JSON object with a question"})
		return
	}
	if h.asker == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Detail: "assistant is not configured"})
		return
	}

	ans, err := h.asker.Ask(r.Context(), req.Question)
	if err != nil {
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("assistant request failed",
				"request_id", middleware.GetReqID(r.Context()),
				"status", status,
				"error", err,
			)
		}
		writeJSON(w, status, ErrorResponse{Detail: err.Error()})
		return
	}

	if ans.ID != "" {
		w.Header().Set("X-Answer-Id", ans.ID)
	}
	var data any
	if ans.Data != nil {
		data = ans.Data.Payload()
	}
	writeJSON(w, http.StatusOK, AssistantResponse{
		Message: "Assistant response",
		Filter:  ans.Filter,
		SQL:     ans.SQL,
		Data:    data,
	})
}

// StatusFor maps pipeline errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		empty     *core.EmptyInputError
		ambiguous *core.AmbiguousQueryError
		malformed *core.MalformedFilterError
	)
	switch {
	case errors.As(err, &empty), errors.As(err, &ambiguous):
		return http.StatusBadRequest
	case errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		// ExecutionError and anything unclassified.
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
