package openai

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
	defaultBaseURL   = "https://api.groq.com/openai/v1"
	defaultModel     = "llama3-70b-8192"
	temperature      = 0.7
	maxTokens        = 2000
	completionsRoute = "/chat/completions"
)

func init() {
	llm.Register(string(llm.OpenAI), NewAdapter)
}

// Adapter talks to any OpenAI-compatible chat completions endpoint.
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
func (a *Adapter) Type() string         { return string(llm.OpenAI) }
func (a *Adapter) SupportsImages() bool { return a.config.Vision }
func (a *Adapter) HasCredential() bool  { return a.config.HasCredential() }

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type Message struct {
	Role string `json:"role"`
	// Content is either a string or a []ContentPart.
	Content interface{} `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Shape builds the single-turn request body. The image is only attached when
// the provider is configured for vision.
func (a *Adapter) Shape(question string, image *api.Image) ChatRequest {
	msg := Message{Role: string(api.User), Content: question}

	if image != nil && a.SupportsImages() {
		msg.Content = []ContentPart{
			{Type: "text", Text: question},
			{Type: "image_url", ImageURL: &ImageURL{URL: image.DataURI()}},
		}
	}

	return ChatRequest{
		Model:       a.config.Model,
		Messages:    []Message{msg},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

func (a *Adapter) Call(ctx context.Context, question string, image *api.Image) api.Outcome {
	if !a.HasCredential() {
		return processing.MissingCredential(a.Name())
	}

	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}
	if org, ok := a.config.Config["organization"]; ok {
		headers["OpenAI-Organization"] = org
	}

	url := fmt.Sprintf("%s%s", strings.TrimRight(a.config.BaseURL, "/"), completionsRoute)

	ctx, cancel := context.WithTimeout(ctx, a.config.CallTimeout())
	defer cancel()

	start := time.Now()
	resp, err := httpclient.SendRequest(ctx, a.client, http.MethodPost, url, headers, a.Shape(question, image))
	elapsed := time.Since(start)
	if err != nil {
		return processing.FromError(a.Name(), err)
	}

	return processing.ChatCompletion(a.Name(), resp.Body, elapsed)
}
