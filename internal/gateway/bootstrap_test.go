package gateway_test

import (
	"context"
	"testing"

	"github.com/nulzo/metasearch/internal/config"
	"github.com/nulzo/metasearch/internal/gateway"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	_ "github.com/nulzo/metasearch/internal/llm/google"
	_ "github.com/nulzo/metasearch/internal/llm/openai"
)

func TestBootstrapProviders(t *testing.T) {
	svc := gateway.NewService(zap.NewNop())

	providers := []config.ProviderConfig{
		{ID: "gemini", Type: "google", Enabled: true},
		{ID: "groq", Type: "openai", APIKey: "k", Enabled: true},
		{ID: "off", Type: "openai", APIKey: "k", Enabled: false},
		{ID: "mystery", Type: "does-not-exist", Enabled: true},
		{Type: "openai", Enabled: true},
		{ID: "groq", Type: "openai", Enabled: true},
	}

	count := gateway.BootstrapProviders(context.Background(), svc, providers, nil, zap.NewNop())

	assert.Equal(t, 2, count)

	registered := svc.Providers()
	if assert.Len(t, registered, 2) {
		assert.Equal(t, "gemini", registered[0].Name())
		assert.False(t, registered[0].HasCredential())
		assert.True(t, registered[0].SupportsImages())

		assert.Equal(t, "groq", registered[1].Name())
		assert.True(t, registered[1].HasCredential())
		assert.False(t, registered[1].SupportsImages())
	}
}
