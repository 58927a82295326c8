package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store/drivers/memory"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	st := memory.NewStore()
	require.NoError(t, st.ApplyMigrations())
	return &UserService{Store: st}
}

func adminIdentity(id string) Identity {
	return Identity{ID: id, Username: "admin", Role: domain.RoleAdmin}
}

func TestUserServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first user becomes admin even without a session", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		user, err := svc.Create(ctx, nil, CreateUserParams{
			Username: "alice",
			Password: "password123",
			Role:     domain.RoleRegular,
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, user.Role)
		require.Equal(t, domain.DefaultStatus, user.CurrentStatus)
		require.NotEmpty(t, user.ID)
	})

	t.Run("anonymous creation fails once a user exists", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		_, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, nil, CreateUserParams{Username: "bob", Password: "password123"})
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("non-admin actor cannot create users", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		first, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		regular := Identity{ID: first.ID, Username: "alice", Role: domain.RoleRegular}
		_, err = svc.Create(ctx, &regular, CreateUserParams{Username: "bob", Password: "password123"})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("later admin request keeps admin role", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		first, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		actor := adminIdentity(first.ID)
		second, err := svc.Create(ctx, &actor, CreateUserParams{
			Username: "bob",
			Password: "password123",
			Role:     domain.RoleAdmin,
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, second.Role)
	})

	t.Run("role defaults to regular", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		first, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		actor := adminIdentity(first.ID)
		second, err := svc.Create(ctx, &actor, CreateUserParams{Username: "bob", Password: "password123"})
		require.NoError(t, err)
		require.Equal(t, domain.RoleRegular, second.Role)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		first, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		actor := adminIdentity(first.ID)
		_, err = svc.Create(ctx, &actor, CreateUserParams{Username: "alice", Password: "password123"})
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		_, err := svc.Create(ctx, nil, CreateUserParams{Username: "  ", Password: "password123"})
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "short"})
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123", Role: "superuser"})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestUserServiceUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("admin edits profile and epaper config", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		admin, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)
		actor := adminIdentity(admin.ID)

		target, err := svc.Create(ctx, &actor, CreateUserParams{Username: "bob", Password: "password123"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, actor, target.ID, UpdateUserParams{
			EditableUserFields: EditableUserFields{
				FirstName:       "Bob",
				EpaperID:        "bob-sign",
				EpaperImportURL: "http://display.local/import",
				EpaperImportKey: "secret",
			},
		})
		require.NoError(t, err)
		require.Equal(t, "Bob", updated.FirstName)
		require.Equal(t, "bob-sign", updated.EpaperID)
		require.Equal(t, "bob", updated.Username)
		require.True(t, updated.CanPush())
	})

	t.Run("status fields survive a profile edit", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())
		svc := &UserService{Store: st}
		statusSvc := &StatusService{Store: st}

		admin, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)
		actor := adminIdentity(admin.ID)

		_, err = statusSvc.UpdateStatus(ctx, actor, admin.ID, "Out", "back Monday")
		require.NoError(t, err)

		updated, err := svc.Update(ctx, actor, admin.ID, UpdateUserParams{
			EditableUserFields: EditableUserFields{FirstName: "Alice"},
		})
		require.NoError(t, err)
		require.Equal(t, "Out", updated.CurrentStatus)
		require.Equal(t, "back Monday", updated.CustomStatusText)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		admin, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		regular := Identity{ID: admin.ID, Role: domain.RoleRegular}
		_, err = svc.Update(ctx, regular, admin.ID, UpdateUserParams{})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		admin, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, adminIdentity(admin.ID), "nope", UpdateUserParams{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserServiceDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("admin deletes another user", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		admin, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)
		actor := adminIdentity(admin.ID)

		target, err := svc.Create(ctx, &actor, CreateUserParams{Username: "bob", Password: "password123"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, actor, target.ID))
		_, err = svc.GetByID(ctx, target.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("self-delete is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(t)

		admin, err := svc.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		err = svc.Delete(ctx, adminIdentity(admin.ID), admin.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})
}
