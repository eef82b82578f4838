package handlers

import (
	"errors"
	"net/http"

	"feed_csrf/internal/service"
	"feed_csrf/internal/session"

	"github.com/gin-gonic/gin"
)

const errInternal = "internal server error"

// render pops pending flashes into data, persists the session and renders
// the named page.
func (h *Handler) render(c *gin.Context, sess *session.Session, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = sess.PopFlashes()
	data["Hardened"] = h.opts.Hardened
	if err := h.sessions.Save(c.Writer, sess); err != nil {
		h.internalError(c, "session_save_failed", err)
		return
	}
	c.HTML(http.StatusOK, name, data)
}

// redirect persists the session and issues a 302, like Flask's redirect().
func (h *Handler) redirect(c *gin.Context, sess *session.Session, location string) {
	if err := h.sessions.Save(c.Writer, sess); err != nil {
		h.internalError(c, "session_save_failed", err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// internalError logs err under logKey and answers with a bare 500.
func (h *Handler) internalError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.String(http.StatusInternalServerError, errInternal)
	c.Abort()
}

// auditLost reports whether err is nil or only a dropped audit record, which
// is logged. Callers carry on in both cases.
func (h *Handler) auditLost(err error, kv ...interface{}) bool {
	if err == nil {
		return true
	}
	if !errors.Is(err, service.ErrAuditFailed) {
		return false
	}
	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw("audit_record_lost", fields...)
	}
	return true
}

// Centralized error logging and JSON response for the API routes.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
