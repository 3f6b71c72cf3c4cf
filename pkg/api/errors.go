package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Problem implements RFC 9457. It is only used for errors that stop a request
// before any provider is contacted.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) Unwrap() error {
	return p.Log
}

func (p *Problem) MarshalJSON() ([]byte, error) {
	type Alias Problem

	data := make(map[string]interface{})

	for k, v := range p.Extensions {
		data[k] = v
	}

	stdJSON, err := json.Marshal(Alias(*p))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stdJSON, &data); err != nil {
		return nil, err
	}

	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// NewError creates a generic Problem
func NewError(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank",
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithExtension adds a custom key-value pair to the response
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithLog attaches an internal error for server-side logging
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// ValidationError creates a rich validation error
func ValidationError(validationErrors map[string]string) *Problem {
	return NewError(
		http.StatusBadRequest,
		"Validation Error",
		"One or more fields failed validation",
		WithExtension("errors", validationErrors),
	)
}

func BadRequestError(detail string, opts ...ProblemOption) *Problem {
	return NewError(http.StatusBadRequest, "Bad Request", detail, opts...)
}

// InternalError hides err from the caller and keeps it for the server log.
func InternalError(detail string, err error) *Problem {
	return NewError(http.StatusInternalServerError, "Internal Server Error", detail, WithLog(err))
}

// NoProvidersError is returned when a query cannot be dispatched because nothing is registered.
func NoProvidersError() *Problem {
	return NewError(http.StatusServiceUnavailable, "Service Unavailable", "no providers are registered")
}

// ErrorCause classifies why a provider call failed.
type ErrorCause string

const (
	CauseTimeout           ErrorCause = "timeout"
	CauseHTTPStatus        ErrorCause = "http_status"
	CauseMalformedResponse ErrorCause = "malformed_response"
	CauseMissingCredential ErrorCause = "missing_credential"
	CauseUnknown           ErrorCause = "unknown"
)

// ProviderError is one provider's failed attempt. It travels as a value inside
// an Outcome and is never returned from the aggregator as a Go error.
type ProviderError struct {
	Provider   string     `json:"-"`
	Message    string     `json:"error"`
	Cause      ErrorCause `json:"cause"`
	StatusCode int        `json:"status,omitempty"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Cause)
}
