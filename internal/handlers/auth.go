package handlers

import (
	"errors"
	"net/http"

	"feed_csrf/internal/service"
	"feed_csrf/internal/session"

	"github.com/gin-gonic/gin"
)

const msgInvalidCredentials = "Invalid credentials or account deleted"

func (h *Handler) index(c *gin.Context) {
	if h.sessions.Load(c.Request).Authenticated() {
		c.Redirect(http.StatusFound, routeFeed)
		return
	}
	c.Redirect(http.StatusFound, routeLogin)
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, h.sessions.Load(c.Request), "login.html", gin.H{"Title": "Log in"})
}

// login authenticates the submitted form. Every rejection gets the same
// flash so callers cannot tell a wrong password from a deleted account.
func (h *Handler) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	sess := h.sessions.Load(c.Request)

	u, err := h.services.Authorization.Login(c.Request.Context(), email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.auditLost(err, "email", email)
		if h.log != nil {
			h.log.Infow("login_failed", "email", email)
		}
		sess.Flash(msgInvalidCredentials)
		h.redirect(c, sess, routeLogin)
		return
	}
	if !h.auditLost(err, "email", email) {
		h.internalError(c, "login_error", err, "email", email)
		return
	}

	sess.Email = u.Email
	sess.Username = u.Username
	if h.opts.Hardened {
		token, err := session.NewCSRFToken()
		if err != nil {
			h.internalError(c, "csrf_token_failed", err)
			return
		}
		sess.CSRFToken = token
	}
	if h.log != nil {
		h.log.Infow("login_succeeded", "email", u.Email)
	}
	h.redirect(c, sess, routeFeed)
}

func (h *Handler) logout(c *gin.Context) {
	sess := h.sessions.Load(c.Request)
	if err := h.services.Authorization.Logout(c.Request.Context(), sess.Email); err != nil && h.log != nil {
		// the session is cleared regardless
		h.log.Errorw("logout_record_failed", "err", err, "email", sess.Email)
	}
	if h.log != nil && sess.Authenticated() {
		h.log.Infow("logged_out", "email", sess.Email)
	}
	sess.Clear()
	h.redirect(c, sess, routeLogin)
}
