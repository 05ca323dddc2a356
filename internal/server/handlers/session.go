package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// adminSessionKey is the session flag set by a successful passcode challenge.
const adminSessionKey = "admin_authenticated"

// Flash is a one-shot notice shown on the next rendered page. Kind is one of
// "success", "error" or "info".
type Flash struct {
	Kind    string
	Message string
}

// AddFlash queues a notice on the session.
func AddFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(Flash{Kind: kind, Message: message})
	_ = session.Save()
}

// TakeFlashes drains and returns queued notices.
func TakeFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save()
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

// IsAdmin reports whether the session carries the admin flag.
func IsAdmin(c *gin.Context) bool {
	v := sessions.Default(c).Get(adminSessionKey)
	flag, ok := v.(bool)
	return ok && flag
}

func setAdmin(c *gin.Context, granted bool) error {
	session := sessions.Default(c)
	if granted {
		session.Set(adminSessionKey, true)
	} else {
		session.Delete(adminSessionKey)
	}
	return session.Save()
}
