package epaper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPush(t *testing.T) {
	t.Parallel()

	t.Run("encodes key and status parameter", func(t *testing.T) {
		var gotQuery map[string][]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		res := NewClient(0).Push(context.Background(), srv.URL, "secret", "user2", "Back tomorrow")
		require.True(t, res.Updated)
		require.Equal(t, "secret", gotQuery["import_key"][0])
		require.Equal(t, "Back tomorrow", gotQuery["user2_status"][0])
	})

	t.Run("non-2xx reported as failed result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		res := NewClient(0).Push(context.Background(), srv.URL, "secret", "user2", "Out")
		require.True(t, res.Failed())
		require.Contains(t, res.Reason, "502")
	})

	t.Run("transport failure reported as failed result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		res := NewClient(0).Push(context.Background(), srv.URL, "secret", "user2", "Out")
		require.True(t, res.Failed())
	})

	t.Run("missing credentials is a silent no-op", func(t *testing.T) {
		res := NewClient(0).Push(context.Background(), "", "", "user2", "Out")
		require.False(t, res.Updated)
		require.False(t, res.Failed())
	})

	t.Run("hung endpoint bounded by client timeout", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-block
		}))
		defer func() {
			close(block)
			srv.Close()
		}()

		start := time.Now()
		res := NewClient(50 * time.Millisecond).Push(context.Background(), srv.URL, "k", "id", "v")
		require.True(t, res.Failed())
		require.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestPull(t *testing.T) {
	t.Parallel()

	t.Run("returns string values keyed by status key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "secret", r.URL.Query().Get("export_key"))
			require.Equal(t, "json", r.URL.Query().Get("my_values"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user1_status":"Out","user2_status":"Available","battery":97}`))
		}))
		defer srv.Close()

		got := NewClient(0).Pull(context.Background(), srv.URL, "secret")
		require.Equal(t, map[string]string{
			"user1_status": "Out",
			"user2_status": "Available",
		}, got)
	})

	t.Run("transport error yields empty map", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		got := NewClient(0).Pull(context.Background(), srv.URL, "secret")
		require.Empty(t, got)
	})

	t.Run("auth failure yields empty map", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		require.Empty(t, NewClient(0).Pull(context.Background(), srv.URL, "bad"))
	})

	t.Run("malformed body yields empty map", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		require.Empty(t, NewClient(0).Pull(context.Background(), srv.URL, "secret"))
	})

	t.Run("missing credentials yields empty map", func(t *testing.T) {
		require.Empty(t, NewClient(0).Pull(context.Background(), "", ""))
	})
}
