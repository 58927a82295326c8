package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/service"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// HandleLogin verifies credentials and returns a bearer session token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, token, err := h.AuthService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user, user.IsAdmin()),
	})
}

// HandleCurrentUser returns the authenticated caller's own record.
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, err := service.IdentityFromContext(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.UserService.GetByID(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user, identity.IsAdmin()))
}
