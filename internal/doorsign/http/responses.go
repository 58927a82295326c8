package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
	"github.com/aussiebroadwan/doorsign/pkg/slogx"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeServiceError maps the service error taxonomy onto HTTP status
// codes. Anything unrecognized is a storage-class failure and comes
// back as a 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrDuplicate):
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// userResponse is the wire shape of a user. The password hash never
// leaves the server; the e-paper credentials only appear for admins.
type userResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Role             string    `json:"role"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	Email            string    `json:"email,omitempty"`
	AvatarURL        string    `json:"avatarUrl,omitempty"`
	EpaperID         string    `json:"epaperId,omitempty"`
	EpaperImportURL  string    `json:"epaperImportUrl,omitempty"`
	EpaperImportKey  string    `json:"epaperImportKey,omitempty"`
	EpaperExportURL  string    `json:"epaperExportUrl,omitempty"`
	EpaperExportKey  string    `json:"epaperExportKey,omitempty"`
	CurrentStatus    string    `json:"currentStatus"`
	CustomStatusText string    `json:"customStatusText,omitempty"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

func toUserResponse(u domain.User, admin bool) userResponse {
	resp := userResponse{
		ID:               u.ID,
		Username:         u.Username,
		Role:             u.Role,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		AvatarURL:        u.AvatarURL,
		EpaperID:         u.EpaperID,
		CurrentStatus:    u.CurrentStatus,
		CustomStatusText: u.CustomStatusText,
		LastUpdated:      u.LastUpdated,
	}
	if admin {
		resp.EpaperImportURL = u.EpaperImportURL
		resp.EpaperImportKey = u.EpaperImportKey
		resp.EpaperExportURL = u.EpaperExportURL
		resp.EpaperExportKey = u.EpaperExportKey
	}
	return resp
}

func toUserResponses(users []domain.User, admin bool) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u, admin)
	}
	return out
}

type optionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder string `json:"sortOrder"`
}

func toOptionResponse(o domain.StatusOption) optionResponse {
	return optionResponse{ID: o.ID, Name: o.Name, Color: o.Color, SortOrder: o.SortOrder}
}

type historyResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	CustomText string    `json:"customText,omitempty"`
	ChangedBy  string    `json:"changedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type syncRunResponse struct {
	Success      bool      `json:"success"`
	UpdatedCount int       `json:"updatedCount"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	SyncedAt     time.Time `json:"syncedAt"`
}
