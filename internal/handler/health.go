package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cortexai/igs/internal/models"
	"github.com/cortexai/igs/internal/search"
	"github.com/cortexai/igs/internal/service"
	"github.com/cortexai/igs/internal/tools"
	"github.com/cortexai/igs/internal/version"
)

// HealthHandler handles GET /health with backend checks
type HealthHandler struct {
	dispatcher *service.Dispatcher
}

func NewHealthHandler(dispatcher *service.Dispatcher) *HealthHandler {
	return &HealthHandler{dispatcher: dispatcher}
}

// Health handles GET /health. Only backends that can be pinged affect the
// status code; the rest report whether they are configured.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Use a short timeout for health checks so they don't block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, kind := range tools.Kinds {
		p := h.dispatcher.Provider(kind)
		switch {
		case p == nil:
			checks[string(kind)] = "disabled"
		case p.Name() == tools.UnavailableName:
			checks[string(kind)] = p.Description()
		default:
			status, ok := checkProvider(ctx, p)
			checks[string(kind)] = status
			if !ok {
				overallStatus = "degraded"
			}
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version.Version,
		Checks:  checks,
	})
}

func checkProvider(ctx context.Context, p tools.Provider) (string, bool) {
	inner := p
	for {
		u, ok := inner.(interface{ Unwrap() tools.Provider })
		if !ok {
			break
		}
		inner = u.Unwrap()
	}
	lookup, ok := inner.(*tools.WebLookup)
	if !ok {
		return "ok (" + p.Name() + ")", true
	}
	pinger, ok := lookup.Searcher().(search.Pinger)
	if !ok {
		return "ok (" + p.Name() + ")", true
	}
	if err := pinger.Ping(ctx); err != nil {
		return "unavailable: " + err.Error(), false
	}
	return "ok (" + p.Name() + ")", true
}
