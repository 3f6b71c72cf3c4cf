package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nulzo/metasearch/internal/config"
	"github.com/nulzo/metasearch/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_WithImage(t *testing.T) {
	// Simple 1x1 red pixel png
	pixel := []byte{0x89, 0x50, 0x4e, 0x47}
	req := Shape("Turn this sketch into a realistic image.", api.NewImage("image/png", pixel))

	require.NotNil(t, req.GenerationConfig)
	assert.Equal(t, 0.7, req.GenerationConfig.Temperature)
	assert.Equal(t, 2000, req.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, 0.8, req.GenerationConfig.TopP)
	assert.Equal(t, 400, req.GenerationConfig.TopK)

	require.Len(t, req.Contents, 1)
	content := req.Contents[0]
	assert.Equal(t, "user", content.Role)
	require.Len(t, content.Parts, 2)

	assert.Equal(t, "Turn this sketch into a realistic image.", content.Parts[0].Text)
	assert.Nil(t, content.Parts[0].InlineData)

	assert.Empty(t, content.Parts[1].Text)
	require.NotNil(t, content.Parts[1].InlineData)
	assert.Equal(t, "image/png", content.Parts[1].InlineData.MimeType)
	assert.Equal(t, "iVBORw==", content.Parts[1].InlineData.Data)
}

func TestShape_SimpleText(t *testing.T) {
	req := Shape("Hello!", nil)

	require.Len(t, req.Contents, 1)
	require.Len(t, req.Contents[0].Parts, 1)
	assert.Equal(t, "Hello!", req.Contents[0].Parts[0].Text)
}

func TestGeminiCall(t *testing.T) {
	var captured GeminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "gm-key", r.Header.Get("X-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"a cat"}],"role":"model"}}]}`))
	}))
	defer server.Close()

	a, err := NewAdapter(config.ProviderConfig{
		ID:      "gemini",
		APIKey:  "gm-key",
		BaseURL: server.URL + "/v1beta",
		Timeout: time.Second,
	}, nil)
	require.NoError(t, err)

	out := a.Call(context.Background(), "what is this?", api.NewImage("image/jpeg", []byte("jpg")))

	require.True(t, out.OK(), "unexpected failure: %+v", out.Err)
	assert.Equal(t, "gemini", out.Response.Provider)
	assert.Equal(t, "a cat", out.Response.Text)
	assert.Nil(t, out.Response.Tokens)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Equal(t, "what is this?", captured.Contents[0].Parts[0].Text)
	assert.Equal(t, "anBn", captured.Contents[0].Parts[1].InlineData.Data)
}

func TestGeminiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	a, err := NewAdapter(config.ProviderConfig{ID: "gemini", APIKey: "bad", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	out := a.Call(context.Background(), "hi", nil)

	require.False(t, out.OK())
	assert.Equal(t, api.CauseHTTPStatus, out.Err.Cause)
	assert.Equal(t, "API key not valid", out.Err.Message)
	assert.Equal(t, http.StatusBadRequest, out.Err.StatusCode)
}

func TestGeminiCall_MissingCredential(t *testing.T) {
	a, err := NewAdapter(config.ProviderConfig{ID: "gemini"}, nil)
	require.NoError(t, err)

	out := a.Call(context.Background(), "hi", nil)

	require.False(t, out.OK())
	assert.Equal(t, api.CauseMissingCredential, out.Err.Cause)
}
