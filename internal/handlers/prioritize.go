package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"helphive-gateway/pkg/logging/logging"
	"helphive-gateway/pkg/types"

	"go.uber.org/zap"
)

type prioritizeRequest struct {
	Tasks []types.Task `json:"tasks"`
}

type prioritizeResponse struct {
	Tasks []types.Task `json:"tasks"`
}

// Prioritize handles POST /v1/tasks/prioritize. The response is always
// a usable ordering: on any upstream trouble the input order comes
// back unchanged.
func (h *RequestHandler) Prioritize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req prioritizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ranked := h.Pipeline.Rank(ctx, req.Tasks)

	logger.Info("prioritize_request_served",
		zap.Int("task_count", len(req.Tasks)),
		zap.Int("ranked_count", len(ranked)),
		zap.Duration("total_latency_ms", time.Since(start)),
	)

	if ranked == nil {
		ranked = []types.Task{}
	}
	writeJSON(w, prioritizeResponse{Tasks: ranked})
}
