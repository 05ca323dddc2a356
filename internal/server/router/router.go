package router

import (
	"encoding/gob"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/server/handlers"
)

// Handlers groups the page handlers the router wires up.
type Handlers struct {
	Stock          *handlers.StockHandler
	Reports        *handlers.ReportsHandler
	Reconciliation *handlers.ReconciliationHandler
	Admin          *handlers.AdminHandler
}

// New wires the Gin engine with required routes and middlewares. The report
// routes sit behind the admin session gate.
func New(h Handlers, sessionSecret, templateGlob string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gob.Register(handlers.Flash{})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 12 * 60 * 60})
	r.Use(sessions.Sessions("lottostock", store))

	r.LoadHTMLGlob(templateGlob)

	r.GET("/", h.Stock.ShowForm)
	r.POST("/", h.Stock.Submit)

	r.GET("/reports", h.Reports.Show)
	r.POST("/reports", h.Reports.Mutate)

	r.GET("/admin-login", h.Admin.ShowLogin)
	r.POST("/admin-login", h.Admin.Login)
	r.GET("/admin-logout", h.Admin.Logout)

	gated := r.Group("/", requireAdmin(logger))
	gated.GET("/create-report", h.Reconciliation.ShowCreateForm)
	gated.POST("/create-report", h.Reconciliation.Create)
	gated.GET("/lottery-reports", h.Reconciliation.List)
	gated.POST("/lottery-reports", h.Reconciliation.List)
	gated.GET("/view-lottery-report/:id", h.Reconciliation.View)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// requireAdmin redirects to the passcode challenge, carrying the original
// target so the challenge can re-enter it.
func requireAdmin(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if handlers.IsAdmin(c) {
			c.Next()
			return
		}

		logger.Info("gated page requested without admin session",
			zap.String("path", c.Request.URL.Path))
		c.Redirect(http.StatusFound, "/admin-login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
