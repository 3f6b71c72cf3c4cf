package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/metasearch/internal/gateway"
)

type ProvidersHandler struct {
	service gateway.Service
}

func NewProvidersHandler(service gateway.Service) *ProvidersHandler {
	return &ProvidersHandler{service: service}
}

type providerInfo struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Multimodal    bool   `json:"multimodal"`
	HasCredential bool   `json:"has_credential"`
}

// List returns the registered providers in response order.
//
// GET /providers
func (h *ProvidersHandler) List(c *gin.Context) {
	providers := h.service.Providers()
	data := make([]providerInfo, 0, len(providers))
	for _, p := range providers {
		data = append(data, providerInfo{
			ID:            p.Name(),
			Type:          p.Type(),
			Multimodal:    p.SupportsImages(),
			HasCredential: p.HasCredential(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   data,
	})
}
