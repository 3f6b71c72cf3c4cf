package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nulzo/metasearch/internal/config"
	"github.com/nulzo/metasearch/internal/httpclient"
	"github.com/nulzo/metasearch/internal/llm"
	"github.com/nulzo/metasearch/internal/llm/processing"
	"github.com/nulzo/metasearch/pkg/api"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

func init() {
	llm.Register(string(llm.Google), NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client httpclient.HTTPClient
}

func NewAdapter(cfg config.ProviderConfig, client httpclient.HTTPClient) (llm.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if client == nil {
		client = llm.DefaultClient()
	}
	return &Adapter{
		config: cfg,
		client: client,
	}, nil
}

func (a *Adapter) Name() string         { return a.config.ID }
func (a *Adapter) Type() string         { return string(llm.Google) }
func (a *Adapter) SupportsImages() bool { return true }
func (a *Adapter) HasCredential() bool  { return a.config.HasCredential() }

type GeminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type GeminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inline_data,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type GeminiRequest struct {
	Contents         []GeminiContent         `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

// Shape builds a single-turn generateContent body with the image, if any,
// as an inline part after the text.
func Shape(question string, image *api.Image) GeminiRequest {
	parts := []GeminiPart{{Text: question}}
	if image != nil {
		parts = append(parts, GeminiPart{
			InlineData: &GeminiInlineData{
				MimeType: image.MimeType,
				Data:     image.Base64(),
			},
		})
	}

	return GeminiRequest{
		Contents: []GeminiContent{{
			Role:  string(api.User),
			Parts: parts,
		}},
		GenerationConfig: &GeminiGenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 2000,
			TopP:            0.8,
			TopK:            400,
		},
	}
}

func (a *Adapter) Call(ctx context.Context, question string, image *api.Image) api.Outcome {
	if !a.HasCredential() {
		return processing.MissingCredential(a.Name())
	}

	url := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(a.config.BaseURL, "/"),
		a.config.Model,
	)
	headers := map[string]string{
		"X-goog-api-key": a.config.APIKey,
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.CallTimeout())
	defer cancel()

	start := time.Now()
	resp, err := httpclient.SendRequest(ctx, a.client, http.MethodPost, url, headers, Shape(question, image))
	elapsed := time.Since(start)
	if err != nil {
		return processing.FromError(a.Name(), err)
	}

	return processing.GenerateContent(a.Name(), resp.Body, elapsed)
}
