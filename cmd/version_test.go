package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdateChecker_Outdated(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v0.2.0","published_at":"2026-01-02T03:04:05Z"}`)
	checker := &UpdateChecker{URL: srv.URL, Client: srv.Client()}

	info, err := checker.Check(context.Background(), "v0.1.0")
	require.NoError(t, err)
	assert.True(t, info.Outdated)
	assert.Equal(t, "v0.2.0", info.Latest)
	assert.Equal(t, 2026, info.Published.Year())
	assert.Contains(t, info.Notice(), "v0.2.0")
}

func TestUpdateChecker_UpToDate(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v0.1.0"}`)
	checker := &UpdateChecker{URL: srv.URL, Client: srv.Client()}

	info, err := checker.Check(context.Background(), "v0.1.0")
	require.NoError(t, err)
	assert.False(t, info.Outdated)
	assert.True(t, info.Published.IsZero())
}

func TestUpdateChecker_Errors(t *testing.T) {
	t.Run("upstream status", func(t *testing.T) {
		srv := releaseServer(t, http.StatusForbidden, `{"message":"rate limited"}`)
		_, err := (&UpdateChecker{URL: srv.URL, Client: srv.Client()}).Check(context.Background(), "v0.1.0")
		assert.Error(t, err)
	})

	t.Run("missing tag", func(t *testing.T) {
		srv := releaseServer(t, http.StatusOK, `{}`)
		_, err := (&UpdateChecker{URL: srv.URL, Client: srv.Client()}).Check(context.Background(), "v0.1.0")
		assert.ErrorContains(t, err, "tag_name")
	})

	t.Run("bad current version", func(t *testing.T) {
		srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.0.0"}`)
		_, err := (&UpdateChecker{URL: srv.URL, Client: srv.Client()}).Check(context.Background(), "not-a-version")
		assert.ErrorContains(t, err, "invalid current version")
	})
}
