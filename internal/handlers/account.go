package handlers

import (
	"errors"

	"feed_csrf/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgAccountDeleted = "Account deleted successfully"
	msgReauthFailed   = "Password confirmation failed"
)

// deleteAccount deactivates the session's account and ends the session.
//
// In the default build it answers GET and POST with nothing but the session
// cookie: no token, no password, no origin check. Any page the victim opens
// can trigger it.
func (h *Handler) deleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)
	email := sess.Email

	if h.opts.Hardened {
		err := h.services.Authorization.Reauthenticate(ctx, email, c.PostForm("password"))
		if err != nil {
			if !errors.Is(err, service.ErrReauthFailed) {
				h.internalError(c, "reauth_error", err, "email", email)
				return
			}
			if h.log != nil {
				h.log.Warnw("reauth_failed", "email", email)
			}
			sess.Flash(msgReauthFailed)
			h.redirect(c, sess, routeSettings)
			return
		}
	}

	origin := service.RequestOrigin{
		Method:    c.Request.Method,
		Referer:   c.GetHeader("Referer"),
		Origin:    c.GetHeader("Origin"),
		UserAgent: c.GetHeader("User-Agent"),
	}
	err := h.services.Account.Deactivate(ctx, email, origin)
	if !errors.Is(err, service.ErrUserNotFound) && !h.auditLost(err, "email", email) {
		h.internalError(c, "deactivate_failed", err, "email", email)
		return
	}
	if h.log != nil {
		h.log.Warnw("account_deactivated",
			"email", email,
			"method", origin.Method,
			"referer", origin.Referer,
			"origin", origin.Origin,
		)
	}

	sess.Clear()
	sess.Flash(msgAccountDeleted)
	h.redirect(c, sess, routeLogin)
}
