package refclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bengeek06/pm-users-api/internal/refclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_CompanyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies/known":
			w.WriteHeader(http.StatusOK)
		case "/companies/gone":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := refclient.New(srv.URL, srv.URL, "production", testLogger())
	ctx := context.Background()

	found, err := client.CompanyExists(ctx, "known")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = client.CompanyExists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, found)

	// Unexpected status codes read as not found, not as errors.
	found, err = client.CompanyExists(ctx, "boom")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_RoleExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/roles/7" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := refclient.New(srv.URL, srv.URL, "production", testLogger())
	ctx := context.Background()

	found, err := client.RoleExists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = client.RoleExists(ctx, 8)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_UnsetURL(t *testing.T) {
	client := refclient.New("", "", "production", testLogger())

	_, err := client.CompanyExists(context.Background(), "any")
	assert.ErrorIs(t, err, refclient.ErrServiceURLNotSet)
}

func TestClient_InvalidURL(t *testing.T) {
	client := refclient.New("ftp://companies.internal", "ftp://roles.internal", "production", testLogger())

	_, err := client.CompanyExists(context.Background(), "any")
	assert.ErrorIs(t, err, refclient.ErrInvalidServiceURL)

	_, err = client.RoleExists(context.Background(), 1)
	assert.ErrorIs(t, err, refclient.ErrInvalidServiceURL)
}

func TestClient_TransportErrorIsHard(t *testing.T) {
	// Nothing listens here.
	client := refclient.New("http://127.0.0.1:1", "http://127.0.0.1:1", "production", testLogger())

	_, err := client.CompanyExists(context.Background(), "any")
	assert.Error(t, err)
}

func TestClient_SkipsChecksOutsideProduction(t *testing.T) {
	for _, env := range []string{"development", "testing"} {
		t.Run(env, func(t *testing.T) {
			// No URLs configured at all; the check still passes.
			client := refclient.New("", "", env, testLogger())

			found, err := client.CompanyExists(context.Background(), "whatever")
			require.NoError(t, err)
			assert.True(t, found)

			found, err = client.RoleExists(context.Background(), 42)
			require.NoError(t, err)
			assert.True(t, found)
		})
	}
}
