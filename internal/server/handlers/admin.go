package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the shared-passcode challenge that gates the report
// pages. This is a coarse single-secret gate, not user authentication.
type AdminHandler struct {
	passcode string
	logger   *zap.Logger
}

// NewAdminHandler constructs the challenge handler.
func NewAdminHandler(passcode string, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{passcode: passcode, logger: logger}
}

// ShowLogin renders the passcode form, preserving the originally requested
// target so a successful challenge lands back where the operator was headed.
func (h *AdminHandler) ShowLogin(c *gin.Context) {
	next := c.Query("next")
	if next == "" {
		next = "/create-report"
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{
		"Next":    next,
		"Flashes": TakeFlashes(c),
	})
}

// Login checks the submitted passcode and sets the session flag on success.
func (h *AdminHandler) Login(c *gin.Context) {
	passcode := c.PostForm("passcode")
	next := c.PostForm("next")
	if next == "" || next[0] != '/' {
		next = "/create-report"
	}

	if subtle.ConstantTimeCompare([]byte(passcode), []byte(h.passcode)) != 1 {
		h.logger.Warn("admin challenge failed", zap.String("client_ip", c.ClientIP()))
		AddFlash(c, "error", "Invalid passcode. Please try again.")
		c.HTML(http.StatusOK, "admin_login.html", gin.H{
			"Next":    next,
			"Flashes": TakeFlashes(c),
		})
		return
	}

	if err := setAdmin(c, true); err != nil {
		h.logger.Error("failed saving session", zap.Error(err))
		AddFlash(c, "error", "An unexpected error occurred. Please try again.")
		c.Redirect(http.StatusFound, "/admin-login")
		return
	}

	AddFlash(c, "success", "Admin access granted!")
	c.Redirect(http.StatusFound, next)
}

// Logout clears the session flag.
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := setAdmin(c, false); err != nil {
		h.logger.Error("failed saving session", zap.Error(err))
	}
	AddFlash(c, "info", "Admin access removed.")
	c.Redirect(http.StatusFound, "/")
}
