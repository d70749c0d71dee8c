package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServePhoto returns the raw bytes of a stored eye photo. Clinical imagery
// must never land in a shared cache, hence private no-cache directives.
func (h *Handler) ServePhoto(c *gin.Context) {
	data, err := h.photos.Open(c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "private, no-cache")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}
