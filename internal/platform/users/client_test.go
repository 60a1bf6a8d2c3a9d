package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("200 means valid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/users/7", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": 7, "name": "Alice", "email": "alice@example.com"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "loanapi-test", time.Second)
		status, err := c.Verify(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, StatusValid, status)
	})

	t.Run("404 means not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "User not found."}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "loanapi-test", time.Second)
		status, err := c.Verify(ctx, 999)

		require.NoError(t, err)
		assert.Equal(t, StatusNotFound, status)
	})

	t.Run("5xx means unreachable, not valid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "loanapi-test", time.Second)
		status, err := c.Verify(ctx, 7)

		assert.Error(t, err)
		assert.Equal(t, StatusUnreachable, status)
	})

	t.Run("timeout means unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "loanapi-test", 20*time.Millisecond)
		status, err := c.Verify(ctx, 7)

		assert.Error(t, err)
		assert.Equal(t, StatusUnreachable, status)
	})

	t.Run("connection refused means unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := NewClient(srv.URL, "loanapi-test", time.Second)
		status, err := c.Verify(ctx, 7)

		assert.Error(t, err)
		assert.Equal(t, StatusUnreachable, status)
	})

	t.Run("makes exactly one attempt", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "loanapi-test", time.Second)
		status, _ := c.Verify(ctx, 7)

		assert.Equal(t, StatusUnreachable, status)
		assert.Equal(t, 1, attempts)
	})
}
