package handler

import (
	"net/http"

	"github.com/cortexai/igs/internal/models"
	"github.com/cortexai/igs/internal/service"
)

// ToolsHandler handles GET /api/v1/tools
type ToolsHandler struct {
	dispatcher *service.Dispatcher
}

func NewToolsHandler(dispatcher *service.Dispatcher) *ToolsHandler {
	return &ToolsHandler{dispatcher: dispatcher}
}

// ListTools handles GET /api/v1/tools
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	providers := h.dispatcher.Providers()
	infos := make([]models.ToolInfo, 0, len(providers))
	for _, p := range providers {
		infos = append(infos, models.ToolInfo{
			Kind:        string(p.Kind()),
			Name:        p.Name(),
			Description: p.Description(),
		})
	}
	models.WriteJSON(w, http.StatusOK, models.ToolsResponse{
		Status: "success",
		Tools:  infos,
		Count:  len(infos),
	})
}
