package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cursorPayload struct {
	LastFreq float64 `json:"last_freq"`
	LastID   int64   `json:"last_id"`
}

func (h *Handler) apiError(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error("api request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) apiList(c *gin.Context) {
	cursor, _ := parseCursor(c)
	entries, hasMore, err := h.uc.List(c.Request.Context(), cursor)
	if err != nil {
		h.apiError(c, err)
		return
	}

	var next *cursorPayload
	if hasMore && len(entries) > 0 {
		last := entries[len(entries)-1]
		next = &cursorPayload{LastFreq: last.Freq, LastID: last.ID}
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       entries,
		"has_more":    hasMore,
		"next_cursor": next,
	})
}

func (h *Handler) apiCreate(c *gin.Context) {
	var form vocabForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if errs := form.Validate(); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": errs})
		return
	}

	created, err := h.uc.Create(c.Request.Context(), form.vocab(0))
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) apiGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.apiError(c, err)
		return
	}
	vocab, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, vocab)
}

func (h *Handler) apiUpdate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.apiError(c, err)
		return
	}
	var form vocabForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if errs := form.Validate(); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": errs})
		return
	}

	updated, err := h.uc.Update(c.Request.Context(), form.vocab(id))
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
