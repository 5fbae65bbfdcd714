// Package handlers exposes the pipeline over HTTP for the UI layer.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"helphive-gateway/internal/pipeline"
	"helphive-gateway/pkg/logging/logging"
	"helphive-gateway/pkg/types"

	"go.uber.org/zap"
)

// RequestHandler holds dependencies for the normalization endpoints.
type RequestHandler struct {
	Pipeline *pipeline.Pipeline
}

func NewRequestHandler(p *pipeline.Pipeline) *RequestHandler {
	return &RequestHandler{Pipeline: p}
}

type normalizeRequest struct {
	Input string     `json:"input"`
	Kind  types.Kind `json:"kind,omitempty"`
}

// Normalize handles POST /v1/requests/normalize.
func (h *RequestHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Kind == "" {
		req.Kind = types.KindText
	}
	if err := req.Kind.Validate(); err != nil {
		logger.Warn("invalid request", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	normalized, err := h.Pipeline.Process(ctx, req.Input, req.Kind)
	if err != nil {
		if errors.Is(err, types.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "input is required")
			return
		}
		// The pipeline contract makes this unreachable; guard anyway.
		logger.Error("pipeline error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	logger.Info("normalize_request_served",
		zap.String("kind", string(req.Kind)),
		zap.Int("input_len", len(req.Input)),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	writeJSON(w, normalized)
}

// writeJSON sends a JSON response consistently.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
