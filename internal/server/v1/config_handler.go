package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/metasearch/internal/config"
)

type ConfigHandler struct {
	config *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{config: cfg}
}

// Get returns the non-secret parts of the running configuration. API keys
// are excluded by the json tags on ProviderConfig.
//
// GET /config
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"server": gin.H{
			"env":           h.config.Server.Env,
			"max_upload_mb": h.config.Server.MaxUploadMB,
		},
		"cache":     h.config.Cache.Backend,
		"tracing":   h.config.Tracing.Enabled,
		"providers": h.config.Providers,
	})
}
