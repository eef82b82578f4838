package handlers

import (
	"errors"

	"feed_csrf/internal/service"

	"github.com/gin-gonic/gin"
)

const msgSettingsUpdated = "Settings updated successfully"

// settings re-reads the user record; a deactivated account still renders.
func (h *Handler) settings(c *gin.Context) {
	sess := currentSession(c)
	u, err := h.services.Account.Profile(c.Request.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			sess.Clear()
			h.redirect(c, sess, routeLogin)
			return
		}
		h.internalError(c, "settings_load_failed", err, "email", sess.Email)
		return
	}
	h.render(c, sess, "settings.html", gin.H{
		"Title":     "Settings",
		"Username":  sess.Username,
		"Email":     sess.Email,
		"User":      u,
		"CSRFToken": sess.CSRFToken,
	})
}

// updateSettings overwrites the phone when a non-empty value is posted.
func (h *Handler) updateSettings(c *gin.Context) {
	sess := currentSession(c)
	phone := c.PostForm("phone")

	err := h.services.Account.UpdatePhone(c.Request.Context(), sess.Email, phone)
	if !h.auditLost(err, "email", sess.Email) {
		h.internalError(c, "settings_update_failed", err, "email", sess.Email)
		return
	}
	if h.log != nil {
		h.log.Infow("settings_updated", "email", sess.Email, "phone_changed", phone != "")
	}
	sess.Flash(msgSettingsUpdated)
	h.redirect(c, sess, routeSettings)
}
