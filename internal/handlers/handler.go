package handlers

import (
	"embed"
	"html/template"
	"net/http"

	_ "feed_csrf/docs"
	"feed_csrf/internal/logger"
	"feed_csrf/internal/service"
	"feed_csrf/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Routes served by the feed app.
const (
	routeIndex          = "/"
	routeLogin          = "/login"
	routeLogout         = "/logout"
	routeFeed           = "/feed"
	routeSettings       = "/settings"
	routeUpdateSettings = "/update-settings"
	routeDeleteAccount  = "/delete-account"
)

// Options switch between the vulnerable and the hardened build.
type Options struct {
	// Hardened enables anti-forgery tokens, POST-only deletion with password
	// re-authentication and same-origin WebSocket checks.
	Hardened       bool
	AllowedOrigins []string
}

// Handler wires HTTP layer to services, sessions and logging.
type Handler struct {
	services *service.Service
	sessions *session.Manager
	log      *logger.Logger
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, sessions *session.Manager, log *logger.Logger, opts Options) *Handler {
	h := &Handler{services: services, sessions: sessions, log: log, opts: opts}
	if !opts.Hardened {
		// nil CheckOrigin is gorilla's same-origin check; the vulnerable build accepts any page.
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAccountRoutes(router.Group("/", h.loginRequired))

	return router
}

// HTTPHandler wraps the router with the configured CORS policy. The hardened
// build serves no CORS headers at all: a credentialed allowlist would let an
// allowed origin read the anti-forgery token out of /settings.
func (h *Handler) HTTPHandler() http.Handler {
	if h.opts.Hardened {
		return h.InitRoutes()
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   h.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", csrfHeaderName},
		AllowCredentials: true,
		MaxAge:           3600,
	})
	return c.Handler(h.InitRoutes())
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET(routeIndex, h.index)
	r.GET(routeLogin, h.loginForm)
	r.POST(routeLogin, h.login)
	r.GET(routeLogout, h.logout)
}

func (h *Handler) registerAccountRoutes(protected *gin.RouterGroup) {
	protected.GET(routeFeed, h.feed)
	protected.GET(routeSettings, h.settings)

	stateChanging := protected.Group("/")
	if h.opts.Hardened {
		stateChanging.Use(h.csrfProtect)
	}
	stateChanging.POST(routeUpdateSettings, h.updateSettings)
	stateChanging.POST(routeDeleteAccount, h.deleteAccount)
	if !h.opts.Hardened {
		// A plain GET is enough to delete the account.
		protected.GET(routeDeleteAccount, h.deleteAccount)
	}

	api := protected.Group("/api/v1")
	{
		api.GET("/events", h.getEvents)
	}
	protected.GET("/ws/activity", h.wsActivity)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
