package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
)

type SyncHandler struct {
	SyncService *service.SyncService
}

// HandleRun triggers an on-demand reconciliation pass (admin only).
func (h *SyncHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := service.RequireAdmin(identity); err != nil {
		writeServiceError(w, r, err)
		return
	}

	run := h.SyncService.Run(r.Context())
	httpx.WriteJSON(w, http.StatusOK, toSyncRunResponse(run))
}

// HandleStatus reports the outcome of the most recent sync run.
func (h *SyncHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := service.IdentityFromContext(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	run, err := h.SyncService.Latest(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSyncRunResponse(run))
}

func toSyncRunResponse(run domain.SyncRun) syncRunResponse {
	return syncRunResponse{
		Success:      run.Success,
		UpdatedCount: run.UpdatedCount,
		ErrorMessage: run.ErrorMessage,
		SyncedAt:     run.CreatedAt,
	}
}
