package llm

import (
	"context"

	"github.com/nulzo/metasearch/pkg/api"
)

type ProviderType string

const (
	OpenAI ProviderType = "openai"
	Google ProviderType = "google"
)

// Provider is one upstream model API. Call never returns a Go error: every
// failure is reported as a Failure outcome so a caller can fan out safely.
type Provider interface {
	// Name is the provider identifier used as the response key, e.g. "groq".
	Name() string
	// Type is the adapter type, e.g. "openai".
	Type() string
	SupportsImages() bool
	// HasCredential reports whether an API key is configured.
	HasCredential() bool
	// Call sends question and the optional image in a single attempt bounded by
	// the provider's timeout. Providers without image support ignore image.
	Call(ctx context.Context, question string, image *api.Image) api.Outcome
}
