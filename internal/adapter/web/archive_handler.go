package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) startArchive(c *gin.Context) {
	status := h.archive.Start()
	c.HTML(http.StatusOK, "archive.html", newArchiveView(status))
}

func (h *Handler) archiveStatus(c *gin.Context) {
	c.HTML(http.StatusOK, "archive.html", newArchiveView(h.archive.Status()))
}

func (h *Handler) resetArchive(c *gin.Context) {
	if err := h.archive.Reset(); err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "archive.html", newArchiveView(h.archive.Status()))
}

func (h *Handler) archiveFile(c *gin.Context) {
	path, err := h.archive.ResultPath()
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.FileAttachment(path, "archive.json")
}
