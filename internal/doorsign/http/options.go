package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
)

type OptionsHandler struct {
	OptionService *service.OptionService
}

type optionRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder string `json:"sortOrder"`
}

func (req optionRequest) params() service.OptionParams {
	return service.OptionParams{Name: req.Name, Color: req.Color, SortOrder: req.SortOrder}
}

// HandleList returns the quick-select catalog in display order.
func (h *OptionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, err := service.IdentityFromContext(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	opts, err := h.OptionService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]optionResponse, len(opts))
	for i, o := range opts {
		out[i] = toOptionResponse(o)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *OptionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	opt, err := h.OptionService.Create(r.Context(), identity, req.params())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toOptionResponse(opt))
}

func (h *OptionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	opt, err := h.OptionService.Update(r.Context(), identity, r.PathValue("id"), req.params())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOptionResponse(opt))
}

func (h *OptionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.OptionService.Delete(r.Context(), identity, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
