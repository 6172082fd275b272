package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewRouter builds the gin engine with all routes registered and the embedded
// templates loaded.
func NewRouter(h *Handler, logger *logrus.Logger, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/vocabs")
	})

	vocabs := router.Group("/vocabs")
	{
		vocabs.GET("", h.listVocabs)
		vocabs.DELETE("", h.bulkDelete)
		vocabs.GET("/new", h.newForm)
		vocabs.POST("/new", h.createVocab)
		vocabs.GET("/count", h.countVocabs)

		vocabs.POST("/archive", h.startArchive)
		vocabs.GET("/archive", h.archiveStatus)
		vocabs.DELETE("/archive", h.resetArchive)
		vocabs.GET("/archive/file", h.archiveFile)

		vocabs.GET("/:id", h.showVocab)
		vocabs.DELETE("/:id", h.deleteVocab)
		vocabs.GET("/:id/edit", h.editForm)
		vocabs.POST("/:id/edit", h.updateVocab)
		vocabs.GET("/:id/word", h.checkWord)
	}

	api := router.Group("/api/v1/vocabs")
	{
		api.GET("", h.apiList)
		api.POST("", h.apiCreate)
		api.GET("/:id", h.apiGet)
		api.PUT("/:id", h.apiUpdate)
	}

	return router
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start),
			"client_ip": c.ClientIP(),
		})
		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.String())
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request completed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
