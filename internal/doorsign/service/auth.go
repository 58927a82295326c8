package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/pkg/cryptox"
	"github.com/aussiebroadwan/doorsign/pkg/httpx"
	"github.com/aussiebroadwan/doorsign/pkg/jwtx"
	"github.com/aussiebroadwan/doorsign/pkg/slogx"
)

// Identity is the authenticated caller as seen by authorization checks.
type Identity struct {
	ID       string
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool { return i.Role == domain.RoleAdmin }

// IdentityFromContext extracts the identity injected by the authn
// middleware. Every protected operation calls this first.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	role, _ := httpx.RoleFromContext(ctx)
	username, _ := ctx.Value(httpx.CtxKeyUsername).(string)
	return Identity{ID: id, Username: username, Role: role}, nil
}

// RequireAdmin gates operations restricted to the admin role.
func RequireAdmin(id Identity) error {
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// RequireSelfOrAdmin is the core authorization rule for status
// mutations: a caller may mutate a record only when it is their own or
// they are admin. All status-mutation paths route through here.
func RequireSelfOrAdmin(id Identity, targetUserID string) error {
	if id.IsAdmin() || id.ID == targetUserID {
		return nil
	}
	return ErrForbidden
}

type AuthService struct {
	Store  store.Store
	Signer *jwtx.Signer
}

// Authenticate verifies a username/password pair and, on success,
// returns the user together with a freshly minted session token.
// Unknown usernames burn a dummy hash verification so response timing
// does not reveal which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.DummyVerify(password)
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("failed login attempt", slog.String("username", username))
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.Signer.Mint(user.ID, user.Username, user.Role)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}
