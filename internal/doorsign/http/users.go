package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleList returns all users. Any authenticated caller may read the
// board; credential fields are stripped for non-admins.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponses(users, identity.IsAdmin()))
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.UserService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user, identity.IsAdmin()))
}

type createUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatarUrl"`
	EpaperID        string `json:"epaperId"`
	EpaperImportURL string `json:"epaperImportUrl"`
	EpaperImportKey string `json:"epaperImportKey"`
	EpaperExportURL string `json:"epaperExportUrl"`
	EpaperExportKey string `json:"epaperExportKey"`
}

func (req createUserRequest) fields() service.EditableUserFields {
	return service.EditableUserFields{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		AvatarURL:       req.AvatarURL,
		EpaperID:        req.EpaperID,
		EpaperImportURL: req.EpaperImportURL,
		EpaperImportKey: req.EpaperImportKey,
		EpaperExportURL: req.EpaperExportURL,
		EpaperExportKey: req.EpaperExportKey,
	}
}

// HandleCreate provisions a user. The route is reachable without a
// session only while the store is empty, which is the first-run
// bootstrap path; the service forces that account to admin.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Optional identity: the bootstrap path has none.
	var actor *service.Identity
	if identity, err := service.IdentityFromContext(r.Context()); err == nil {
		actor = &identity
	}

	user, err := h.UserService.Create(r.Context(), actor, service.CreateUserParams{
		Username:           req.Username,
		Password:           req.Password,
		Role:               req.Role,
		EditableUserFields: req.fields(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	admin := actor != nil && actor.IsAdmin() || user.IsAdmin()
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user, admin))
}

// HandleUpdate applies an admin profile edit.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.UserService.Update(r.Context(), identity, r.PathValue("id"), service.UpdateUserParams{
		Username:           req.Username,
		Password:           req.Password,
		Role:               req.Role,
		EditableUserFields: req.fields(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user, true))
}

// HandleDelete removes a user (admin only, never yourself).
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.UserService.Delete(r.Context(), identity, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
