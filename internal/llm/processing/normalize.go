package processing

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/nulzo/metasearch/internal/httpclient"
	"github.com/nulzo/metasearch/pkg/api"
	"github.com/tidwall/gjson"
)

// errorMessagePaths is the lookup order for a message inside an upstream error body.
var errorMessagePaths = []string{
	"error.message",
	"error",
	"message",
	"detail",
	"0.error.message",
}

// ChatCompletion normalizes an OpenAI-compatible chat completion body.
func ChatCompletion(provider string, body []byte, elapsed time.Duration) api.Outcome {
	if !gjson.ValidBytes(body) {
		return malformed(provider, "response body is not valid JSON")
	}
	parsed := gjson.ParseBytes(body)

	choices := parsed.Get("choices")
	if !choices.IsArray() || len(choices.Array()) == 0 {
		return malformed(provider, "no choices in response")
	}

	content := choices.Get("0.message.content")
	if content.Type != gjson.String {
		return malformed(provider, "first choice has no message content")
	}

	return api.Success(api.AIResponse{
		Provider:       provider,
		Text:           content.String(),
		Tokens:         optionalCount(parsed.Get("usage.total_tokens")),
		ProcessingTime: elapsed.Seconds(),
	})
}

// GenerateContent normalizes a Gemini generateContent body. The text parts of
// the first candidate are concatenated.
func GenerateContent(provider string, body []byte, elapsed time.Duration) api.Outcome {
	if !gjson.ValidBytes(body) {
		return malformed(provider, "response body is not valid JSON")
	}
	parsed := gjson.ParseBytes(body)

	candidates := parsed.Get("candidates")
	if !candidates.IsArray() || len(candidates.Array()) == 0 {
		if reason := parsed.Get("promptFeedback.blockReason"); reason.Exists() {
			return malformed(provider, "prompt blocked: "+reason.String())
		}
		return malformed(provider, "no candidates in response")
	}

	var sb strings.Builder
	found := false
	candidates.Get("0.content.parts").ForEach(func(_, part gjson.Result) bool {
		if text := part.Get("text"); text.Type == gjson.String {
			sb.WriteString(text.String())
			found = true
		}
		return true
	})
	if !found {
		msg := "first candidate has no text parts"
		if reason := candidates.Get("0.finishReason"); reason.Exists() {
			msg += " (finish reason " + reason.String() + ")"
		}
		return malformed(provider, msg)
	}

	return api.Success(api.AIResponse{
		Provider:       provider,
		Text:           sb.String(),
		Tokens:         optionalCount(parsed.Get("usageMetadata.totalTokenCount")),
		ProcessingTime: elapsed.Seconds(),
	})
}

// HTTPError normalizes a non-2xx upstream response. The message comes from the
// body when it can be parsed, otherwise from the status line.
func HTTPError(provider string, statusCode int, statusLine string, body []byte) api.Outcome {
	msg := statusLine
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		for _, path := range errorMessagePaths {
			if r := parsed.Get(path); r.Type == gjson.String && strings.TrimSpace(r.String()) != "" {
				msg = r.String()
				break
			}
		}
	}

	return api.Failure(api.ProviderError{
		Provider:   provider,
		Message:    msg,
		Cause:      api.CauseHTTPStatus,
		StatusCode: statusCode,
	})
}

// TransportError normalizes a failure where no usable response was received.
func TransportError(provider string, err error) api.Outcome {
	cause := api.CauseUnknown
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		cause = api.CauseTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		cause = api.CauseTimeout
	}

	return api.Failure(api.ProviderError{
		Provider: provider,
		Message:  err.Error(),
		Cause:    cause,
	})
}

// FromError dispatches err to HTTPError or TransportError.
func FromError(provider string, err error) api.Outcome {
	var upstreamErr *httpclient.UpstreamError
	if errors.As(err, &upstreamErr) {
		return HTTPError(provider, upstreamErr.StatusCode, upstreamErr.StatusLine(), upstreamErr.Body)
	}
	return TransportError(provider, err)
}

func MissingCredential(provider string) api.Outcome {
	return api.Failure(api.ProviderError{
		Provider: provider,
		Message:  fmt.Sprintf("%s API key not configured", provider),
		Cause:    api.CauseMissingCredential,
	})
}

// Recovered converts a recovered panic value into an Unknown failure.
func Recovered(provider string, r interface{}) api.Outcome {
	return api.Failure(api.ProviderError{
		Provider: provider,
		Message:  fmt.Sprintf("unexpected error: %v", r),
		Cause:    api.CauseUnknown,
	})
}

func malformed(provider, msg string) api.Outcome {
	return api.Failure(api.ProviderError{
		Provider: provider,
		Message:  msg,
		Cause:    api.CauseMalformedResponse,
	})
}

// optionalCount returns nil for an absent or invalid count so that a missing
// value is never confused with zero.
func optionalCount(r gjson.Result) *int {
	if r.Type != gjson.Number || r.Num < 0 {
		return nil
	}
	n := int(r.Int())
	return &n
}
