package handlers

import (
	"net/http"

	"feed_csrf/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	ctxSessionKey = "session"

	csrfFieldName  = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"

	errCSRFRejected = "CSRF token missing or invalid"
)

// loginRequired redirects to the login page unless the session carries an
// email. Whether the account is still active is not re-checked here.
func (h *Handler) loginRequired(c *gin.Context) {
	sess := h.sessions.Load(c.Request)
	if !sess.Authenticated() {
		c.Redirect(http.StatusFound, routeLogin)
		c.Abort()
		return
	}
	c.Set(ctxSessionKey, sess)
	c.Next()
}

// csrfProtect rejects state-changing requests whose token does not match the
// one bound to the session. Only installed in hardened mode.
func (h *Handler) csrfProtect(c *gin.Context) {
	sess := currentSession(c)

	token := c.PostForm(csrfFieldName)
	if token == "" {
		token = c.GetHeader(csrfHeaderName)
	}
	if err := sess.VerifyCSRF(token); err != nil {
		if h.log != nil {
			h.log.Warnw("csrf_rejected",
				"email", sess.Email,
				"path", c.Request.URL.Path,
				"origin", c.GetHeader("Origin"),
				"referer", c.GetHeader("Referer"),
			)
		}
		c.String(http.StatusForbidden, errCSRFRejected)
		c.Abort()
		return
	}
	c.Next()
}

// currentSession returns the session stored by loginRequired, or an empty one.
func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return &session.Session{}
}
