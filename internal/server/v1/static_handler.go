package v1

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/metasearch/pkg/api"
)

type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Index serves index.html and disables caching so UI changes show up immediately.
//
// GET /
func (h *StaticHandler) Index(c *gin.Context) {
	if h.dir == "" {
		_ = c.Error(api.NewError(http.StatusNotFound, "Not Found", "no web client is configured"))
		return
	}
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.File(filepath.Join(h.dir, "index.html"))
}
