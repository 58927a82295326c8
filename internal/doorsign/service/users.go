package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/pkg/cryptox"
	"github.com/aussiebroadwan/doorsign/pkg/idx"
)

type UserService struct {
	Store store.Store
}

// CreateUserParams carries the caller-supplied fields for provisioning.
type CreateUserParams struct {
	Username string
	Password string
	Role     string
	EditableUserFields
}

// EditableUserFields are the profile and integration fields an admin
// can change after creation.
type EditableUserFields struct {
	FirstName       string
	LastName        string
	Email           string
	AvatarURL       string
	EpaperID        string
	EpaperImportURL string
	EpaperImportKey string
	EpaperExportURL string
	EpaperExportKey string
}

func (p CreateUserParams) validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	if len(p.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	switch p.Role {
	case "", domain.RoleAdmin, domain.RoleRegular:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrValidation, p.Role)
	}
	return nil
}

// Create provisions a new user. actor is nil for unauthenticated calls,
// which are only allowed while the store is empty: that first-run path
// creates the bootstrap account and forces it to admin regardless of
// the requested role, so the system can never exist without an
// administrator. A later user explicitly requesting admin keeps it.
func (s *UserService) Create(ctx context.Context, actor *Identity, p CreateUserParams) (domain.User, error) {
	if err := p.validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	role := p.Role
	if role == "" {
		role = domain.RoleRegular
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:               idx.New().String(),
		Username:         strings.TrimSpace(p.Username),
		PasswordHash:     hash,
		Role:             role,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		AvatarURL:        p.AvatarURL,
		EpaperID:         p.EpaperID,
		EpaperImportURL:  p.EpaperImportURL,
		EpaperImportKey:  p.EpaperImportKey,
		EpaperExportURL:  p.EpaperExportURL,
		EpaperExportKey:  p.EpaperExportKey,
		CurrentStatus:    domain.DefaultStatus,
		CustomStatusText: "",
		LastUpdated:      now,
		CreatedAt:        now,
	}

	// The empty-check and the insert share a transaction so two racing
	// first-run requests cannot both become the bootstrap admin.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if empty {
			user.Role = domain.RoleAdmin
		} else {
			if actor == nil {
				return ErrUnauthenticated
			}
			if err := RequireAdmin(*actor); err != nil {
				return err
			}
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("%w: username %q taken", ErrDuplicate, user.Username)
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().List(ctx)
}

// UpdateUserParams carries an admin profile edit. Password and Role are
// optional; empty means unchanged.
type UpdateUserParams struct {
	Username string
	Password string
	Role     string
	EditableUserFields
}

// Update applies an admin edit to a user's profile, credentials and
// e-paper configuration. Status fields are out of scope here; they only
// move through the status update workflow.
func (s *UserService) Update(ctx context.Context, actor Identity, userID string, p UpdateUserParams) (domain.User, error) {
	if err := RequireAdmin(actor); err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	if p.Username != "" {
		user.Username = strings.TrimSpace(p.Username)
	}
	if p.Password != "" {
		if len(p.Password) < 8 {
			return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hash, err := cryptox.HashPassword(p.Password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hash
	}
	if p.Role != "" {
		if p.Role != domain.RoleAdmin && p.Role != domain.RoleRegular {
			return domain.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, p.Role)
		}
		user.Role = p.Role
	}
	user.FirstName = p.FirstName
	user.LastName = p.LastName
	user.Email = p.Email
	user.AvatarURL = p.AvatarURL
	user.EpaperID = p.EpaperID
	user.EpaperImportURL = p.EpaperImportURL
	user.EpaperImportKey = p.EpaperImportKey
	user.EpaperExportURL = p.EpaperExportURL
	user.EpaperExportKey = p.EpaperExportKey

	if err := s.Store.Users().Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("%w: username %q taken", ErrDuplicate, user.Username)
		}
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return s.GetByID(ctx, userID)
}

// Delete removes a user and, by cascade, their history. Admins cannot
// delete their own account, which keeps at least one admin alive.
func (s *UserService) Delete(ctx context.Context, actor Identity, userID string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == userID {
		return fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
	}

	err := s.Store.Users().Delete(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
