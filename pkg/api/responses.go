package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AIResponse is one provider's successful answer.
type AIResponse struct {
	Provider string `json:"model"`
	Text     string `json:"response"`
	// Tokens is nil when the provider does not report usage.
	Tokens         *int    `json:"tokens"`
	ProcessingTime float64 `json:"processing_time"`
}

// Outcome is exactly one of a Response or an Err.
type Outcome struct {
	Response *AIResponse
	Err      *ProviderError
}

func Success(r AIResponse) Outcome {
	return Outcome{Response: &r}
}

func Failure(e ProviderError) Outcome {
	return Outcome{Err: &e}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Response != nil && o.Err == nil
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	switch {
	case o.Err != nil:
		return json.Marshal(o.Err)
	case o.Response != nil:
		return json.Marshal(o.Response)
	default:
		return []byte("null"), nil
	}
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, isErr := probe["cause"]; isErr {
		var pe ProviderError
		if err := json.Unmarshal(data, &pe); err != nil {
			return err
		}
		*o = Outcome{Err: &pe}
		return nil
	}
	var r AIResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*o = Outcome{Response: &r}
	return nil
}

type entry struct {
	provider string
	outcome  Outcome
}

// AggregateResult maps provider identifiers to outcomes and keeps the
// registration order of the providers. It is not safe for concurrent writes.
type AggregateResult struct {
	entries []entry
	index   map[string]int
}

func NewAggregateResult(capacity int) *AggregateResult {
	return &AggregateResult{
		entries: make([]entry, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// Set stores the outcome for a provider. Setting an existing provider replaces
// its outcome without changing its position.
func (r *AggregateResult) Set(provider string, o Outcome) {
	if i, ok := r.index[provider]; ok {
		r.entries[i].outcome = o
		return
	}
	r.index[provider] = len(r.entries)
	r.entries = append(r.entries, entry{provider: provider, outcome: o})
}

func (r *AggregateResult) Get(provider string) (Outcome, bool) {
	i, ok := r.index[provider]
	if !ok {
		return Outcome{}, false
	}
	return r.entries[i].outcome, true
}

func (r *AggregateResult) Len() int {
	return len(r.entries)
}

// Providers returns the provider identifiers in order.
func (r *AggregateResult) Providers() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.provider
	}
	return out
}

// AllSucceeded reports whether every entry is a success.
func (r *AggregateResult) AllSucceeded() bool {
	for _, e := range r.entries {
		if !e.outcome.OK() {
			return false
		}
	}
	return len(r.entries) > 0
}

func (r *AggregateResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.provider)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.outcome)
		if err != nil {
			return nil, fmt.Errorf("failed to encode outcome for %s: %w", e.provider, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *AggregateResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("aggregate result must be a JSON object")
	}

	*r = *NewAggregateResult(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var o Outcome
		if err := dec.Decode(&o); err != nil {
			return fmt.Errorf("failed to decode outcome for %s: %w", key, err)
		}
		if o.Err != nil {
			o.Err.Provider = key
		}
		r.Set(key, o)
	}

	_, err = dec.Token()
	return err
}
