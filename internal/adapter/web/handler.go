// Package web serves the HTML pages (htmx fragments included) and the JSON
// API for vocab entries.
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocabbook/internal/entity"
	"github.com/eslsoft/vocabbook/internal/usecase"
	"github.com/eslsoft/vocabbook/internal/usecase/archive"
)

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	uc      usecase.VocabUsecase
	archive *archive.Service
	logger  *logrus.Logger
}

func NewHandler(uc usecase.VocabUsecase, archiveSvc *archive.Service, logger *logrus.Logger) *Handler {
	return &Handler{uc: uc, archive: archiveSvc, logger: logger}
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, entity.ErrInvalidVocabID
	}
	return id, nil
}

// parseCursor reads the resume point from the last_freq/last_id query
// parameters. The pair is trusted as-is; any valid numbers form a cursor.
func parseCursor(c *gin.Context) (*entity.Cursor, bool) {
	freqParam, hasFreq := c.GetQuery("last_freq")
	idParam, hasID := c.GetQuery("last_id")
	if !hasFreq || !hasID {
		return nil, false
	}
	freq, err := strconv.ParseFloat(freqParam, 64)
	if err != nil {
		return nil, false
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return nil, false
	}
	return &entity.Cursor{Freq: freq, ID: id}, true
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidVocabID), errors.Is(err, entity.ErrInvalidVocabWord):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrVocabNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateWord),
		errors.Is(err, entity.ErrArchiveNotReady),
		errors.Is(err, entity.ErrArchiveRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// renderError reports a failure on an HTML path as plain text.
func (h *Handler) renderError(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed")
	}
	c.String(status, err.Error())
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
