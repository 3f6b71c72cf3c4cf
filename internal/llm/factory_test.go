package llm_test

import (
	"context"
	"testing"

	"github.com/nulzo/metasearch/internal/config"
	"github.com/nulzo/metasearch/internal/httpclient"
	"github.com/nulzo/metasearch/internal/llm"
	"github.com/nulzo/metasearch/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoProvider struct {
	cfg config.ProviderConfig
}

func (p echoProvider) Name() string         { return p.cfg.ID }
func (p echoProvider) Type() string         { return p.cfg.Type }
func (p echoProvider) SupportsImages() bool { return false }
func (p echoProvider) HasCredential() bool  { return p.cfg.HasCredential() }
func (p echoProvider) Call(_ context.Context, question string, _ *api.Image) api.Outcome {
	return api.Success(api.AIResponse{Provider: p.cfg.ID, Text: question})
}

func init() {
	llm.Register("echo", func(cfg config.ProviderConfig, _ httpclient.HTTPClient) (llm.Provider, error) {
		return echoProvider{cfg: cfg}, nil
	})
}

func TestNewProvider(t *testing.T) {
	p, err := llm.NewProvider(config.ProviderConfig{ID: "local", Type: "echo", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name())
	assert.Equal(t, "hi", p.Call(context.Background(), "hi", nil).Response.Text)
}

func TestNewProvider_UnknownTypeListsRegistered(t *testing.T) {
	_, err := llm.NewProvider(config.ProviderConfig{ID: "x", Type: "anthropic"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "echo")
}

func TestRegister_DuplicatePanics(t *testing.T) {
	assert.Contains(t, llm.Types(), "echo")
	assert.Panics(t, func() {
		llm.Register("echo", nil)
	})
}
