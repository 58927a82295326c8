package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorsign/internal/doorsign/domain"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/epaper"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store"
	"github.com/aussiebroadwan/doorsign/internal/doorsign/store/drivers/memory"
	"github.com/aussiebroadwan/doorsign/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// exportServer fakes the provider's export endpoint, serving a fixed
// set of device-side values keyed by export_key.
func exportServer(t *testing.T, values map[string]map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("export_key")
		vals, ok := values[key]
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(vals))
	}))
}

func newSyncFixture(t *testing.T, st store.Store, enabled bool) *SyncService {
	t.Helper()
	svc := NewSyncService(st, epaper.NewClient(time.Second), enabled, 0, slogx.New(slogx.Config{Format: "text", Level: "error"}))
	return svc
}

func seedSyncUsers(t *testing.T, st store.Store, exportURL string) (alice, bob domain.User) {
	t.Helper()
	ctx := context.Background()
	users := &UserService{Store: st}

	a, err := users.Create(ctx, nil, CreateUserParams{
		Username: "alice",
		Password: "password123",
		EditableUserFields: EditableUserFields{
			EpaperID:        "alice-sign",
			EpaperExportURL: exportURL,
			EpaperExportKey: "key-alice",
		},
	})
	require.NoError(t, err)

	actor := adminIdentity(a.ID)
	b, err := users.Create(ctx, &actor, CreateUserParams{
		Username: "bob",
		Password: "password123",
		EditableUserFields: EditableUserFields{
			EpaperID:        "bob-sign",
			EpaperExportURL: exportURL,
			EpaperExportKey: "key-bob",
		},
	})
	require.NoError(t, err)
	return a, b
}

func TestSyncRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("pulls device-side edits into the dashboard", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		srv := exportServer(t, map[string]map[string]string{
			"key-alice": {"alice-sign_status": "On Leave"},
			"key-bob":   {"bob-sign_status": "Available"},
		})
		defer srv.Close()

		alice, bob := seedSyncUsers(t, st, srv.URL)
		svc := newSyncFixture(t, st, true)

		run := svc.Run(ctx)
		require.True(t, run.Success)
		// bob's device already matches his stored status, only alice moves.
		require.Equal(t, 1, run.UpdatedCount)

		got, err := st.Users().GetByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "On Leave", got.CurrentStatus)
		require.Empty(t, got.CustomStatusText)

		unchanged, err := st.Users().GetByID(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, "Available", unchanged.CurrentStatus)
	})

	t.Run("one broken provider does not stop the others", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		// alice's key is unknown to the provider (403); bob's works.
		srv := exportServer(t, map[string]map[string]string{
			"key-bob": {"bob-sign_status": "Out"},
		})
		defer srv.Close()

		_, bob := seedSyncUsers(t, st, srv.URL)
		svc := newSyncFixture(t, st, true)

		run := svc.Run(ctx)
		require.True(t, run.Success)
		require.Equal(t, 1, run.UpdatedCount)

		got, err := st.Users().GetByID(ctx, bob.ID)
		require.NoError(t, err)
		require.Equal(t, "Out", got.CurrentStatus)
	})

	t.Run("users without export config are skipped", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		users := &UserService{Store: st}
		_, err := users.Create(ctx, nil, CreateUserParams{Username: "alice", Password: "password123"})
		require.NoError(t, err)

		svc := newSyncFixture(t, st, true)
		run := svc.Run(ctx)
		require.True(t, run.Success)
		require.Zero(t, run.UpdatedCount)
	})

	t.Run("disabled sync records a no-op run", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		svc := newSyncFixture(t, st, false)
		run := svc.Run(ctx)
		require.True(t, run.Success)
		require.Zero(t, run.UpdatedCount)

		latest, err := svc.Latest(ctx)
		require.NoError(t, err)
		require.Equal(t, run.ID, latest.ID)
	})

	t.Run("ledger keeps the most recent run", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		srv := exportServer(t, map[string]map[string]string{
			"key-alice": {"alice-sign_status": "On Leave"},
			"key-bob":   {},
		})
		defer srv.Close()

		seedSyncUsers(t, st, srv.URL)
		svc := newSyncFixture(t, st, true)

		first := svc.Run(ctx)
		require.Equal(t, 1, first.UpdatedCount)

		// Second pass: alice already carries the device value.
		second := svc.Run(ctx)
		require.Zero(t, second.UpdatedCount)

		latest, err := svc.Latest(ctx)
		require.NoError(t, err)
		require.Equal(t, second.ID, latest.ID)
	})

	t.Run("latest without any runs is a synthetic success", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		svc := newSyncFixture(t, st, true)
		latest, err := svc.Latest(ctx)
		require.NoError(t, err)
		require.True(t, latest.Success)
		require.Empty(t, latest.ID)
	})
}

func TestSyncStartStop(t *testing.T) {
	t.Parallel()

	t.Run("disabled loop stops immediately", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		svc := newSyncFixture(t, st, false)
		svc.Interval = time.Hour
		svc.Start()
		svc.Stop() // must not hang
	})

	t.Run("enabled loop shuts down cleanly", func(t *testing.T) {
		t.Parallel()
		st := memory.NewStore()
		require.NoError(t, st.ApplyMigrations())

		svc := newSyncFixture(t, st, true)
		svc.Interval = time.Hour
		svc.Start()
		svc.Stop()
	})
}
