package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cortexai/igs/internal/middleware"
	"github.com/cortexai/igs/internal/models"
	"github.com/cortexai/igs/internal/security"
	"github.com/cortexai/igs/internal/service"
)

const maxBodyBytes = 1 << 20

// QueryHandler answers natural-language queries
type QueryHandler struct {
	dispatcher     *service.Dispatcher
	auditLogger    *security.AuditLogger
	maxQueryLength int
	apiKeyHeader   string
}

func NewQueryHandler(
	dispatcher *service.Dispatcher,
	auditLogger *security.AuditLogger,
	maxQueryLength int,
	apiKeyHeader string,
) *QueryHandler {
	return &QueryHandler{
		dispatcher:     dispatcher,
		auditLogger:    auditLogger,
		maxQueryLength: maxQueryLength,
		apiKeyHeader:   apiKeyHeader,
	}
}

// Query handles POST /api/v1/query. Provider failures are answers, so they
// come back as 200 with status "failed".
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults()
	if err := req.Validate(h.maxQueryLength); err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	var out service.Outcome
	if req.DryRun {
		out = h.dispatcher.Explain(req.Query)
	} else {
		out = h.dispatcher.Dispatch(r.Context(), req.Query)
	}
	execMs := time.Since(start).Milliseconds()

	resp := h.buildResponse(out, req.DryRun, execMs)

	h.auditLogger.LogDispatch(security.DispatchEvent{
		Query:           req.Query,
		APIKey:          r.Header.Get(h.apiKeyHeader),
		RequestID:       middleware.GetRequestID(r.Context()),
		Provider:        resp.Provider,
		Rule:            out.Route.Rule,
		Compound:        out.Compound != nil,
		DryRun:          req.DryRun,
		FailureCategory: resp.FailureCategory,
		ExecutionTimeMs: execMs,
	})

	models.WriteJSON(w, http.StatusOK, resp)
}

func (h *QueryHandler) buildResponse(out service.Outcome, dryRun bool, execMs int64) models.QueryResponse {
	resp := models.QueryResponse{
		Status:   "success",
		Query:    out.Query,
		Provider: string(out.Route.Kind),
		Routing: models.Routing{
			Rule:      out.Route.Rule,
			Trigger:   out.Route.Trigger,
			Reasoning: out.Route.Reasoning,
		},
		ExecutionTimeMs: execMs,
	}
	if out.Result.Kind != "" {
		resp.Provider = string(out.Result.Kind)
	}
	if p := h.dispatcher.Provider(out.Route.Kind); p != nil {
		resp.Backend = p.Name()
	}

	resp.Result = out.Result.Text
	if out.Result.Failed() {
		resp.Status = "failed"
		resp.FailureCategory = string(out.Result.Category)
	}
	// A dry run that already failed (bad decomposition) stays "failed".
	if dryRun && !out.Result.Failed() {
		resp.Status = "dry_run"
	}

	if out.Compound != nil {
		resp.Compound = &models.CompoundInfo{
			Subject:    out.Compound.Subject,
			Multiplier: out.Compound.Multiplier,
			Operator:   out.Compound.Operator,
		}
		if out.SubjectRoute != nil {
			resp.Compound.SubjectProvider = string(out.SubjectRoute.Kind)
		}
		if out.Intermediate != nil {
			resp.Compound.Intermediate = out.Intermediate.Text
		}
	}
	return resp
}
