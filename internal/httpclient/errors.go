package httpclient

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// UpstreamError represents an error returned by an upstream service
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, redact(e.URL))
}

// StatusLine returns e.g. "429 Too Many Requests", using the canonical text
// when the transport did not supply one.
func (e *UpstreamError) StatusLine() string {
	if strings.TrimSpace(e.Status) != "" {
		return e.Status
	}
	return strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode)
}

// redact strips the query string, which may carry credentials.
func redact(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}
