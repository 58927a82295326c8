package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
)

type StatusHandler struct {
	StatusService *service.StatusService
}

type updateStatusRequest struct {
	Status           string `json:"status"`
	CustomStatusText string `json:"customStatusText"`
}

// HandleUpdate sets a user's status. Regular users may only set their
// own; admins may set anyone's.
func (h *StatusHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.StatusService.UpdateStatus(r.Context(), identity, r.PathValue("id"), req.Status, req.CustomStatusText)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user, identity.IsAdmin()))
}

// HandleHistory returns a user's status audit trail, newest first.
// An optional ?limit=N caps the page; 0 or absent means everything.
func (h *StatusHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if _, err := service.IdentityFromContext(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := h.StatusService.History(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]historyResponse, len(entries))
	for i, e := range entries {
		out[i] = toHistoryResponse(e)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toHistoryResponse(e domain.StatusHistory) historyResponse {
	return historyResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Status:     e.Status,
		CustomText: e.CustomText,
		ChangedBy:  e.ChangedBy,
		CreatedAt:  e.CreatedAt,
	}
}
