package api

import (
	"encoding/base64"
	"strings"
)

// DefaultImageMimeType is used when an uploaded image carries no usable subtype.
const DefaultImageMimeType = "image/jpeg"

// Query is a single question fanned out to every registered provider.
type Query struct {
	Question string `form:"question" binding:"required,notblank"`
	Compare  bool   `form:"compare"`

	// Image is the optional attachment. Only one image is supported per query.
	Image *Image `form:"-"`
}

// Image is an inline attachment forwarded to multimodal providers.
type Image struct {
	MimeType string
	Data     []byte
}

// NewImage builds an Image from an upload, falling back to DefaultImageMimeType
// when the declared content type has no subtype.
func NewImage(contentType string, data []byte) *Image {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if mt == "" || mt == "image/" || !strings.HasPrefix(mt, "image/") {
		mt = DefaultImageMimeType
	}
	return &Image{MimeType: mt, Data: data}
}

// IsImageContentType reports whether an uploaded part should be treated as the image input.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURI returns the image as a data URI, e.g. data:image/png;base64,iVBOR...
func (i *Image) DataURI() string {
	return "data:" + i.MimeType + ";base64," + i.Base64()
}

// Validate checks the query before any provider is contacted.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ValidationError(map[string]string{"question": "question is a required field"})
	}
	return nil
}

type Role string

// User is the role of the single prompt turn.
const User Role = "user"
