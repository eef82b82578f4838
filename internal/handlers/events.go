package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"feed_csrf/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errRange       = "'from' must be <= 'to'"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// eventsQuery is the query string of GET /api/v1/events.
type eventsQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Type string `form:"type"`
}

// filter turns the raw query into a LogFilter scoped to email. The returned
// string is the client-facing reason when the query is rejected.
func (q eventsQuery) filter(email string) (service.LogFilter, string) {
	f := service.LogFilter{Email: email, Type: strings.ToUpper(strings.TrimSpace(q.Type))}
	var err error
	if q.From != "" {
		if f.From, err = parseQueryTime(q.From); err != nil {
			return f, errFromInvalid
		}
	}
	if q.To != "" {
		if f.To, err = parseQueryTime(q.To); err != nil {
			return f, errToInvalid
		}
		// a bare date includes the whole day
		if !strings.ContainsAny(q.To, "T ") {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, errRange
	}
	return f, ""
}

// @Summary      List account events
// @Description  Audit log of the signed-in account. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.
// @Tags         events
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2026-10-01)
// @Param        to    query   string  false  "End of range, date-only is end of day"  example(2026-10-31)
// @Param        type  query   string  false  "Event type"  Enums(LOGIN,LOGIN_FAILED,LOGOUT,SETTINGS_UPDATED,ACCOUNT_DEACTIVATED)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      302   "not signed in, redirected to /login"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/events [get]
func (h *Handler) getEvents(c *gin.Context) {
	email := currentSession(c).Email

	var q eventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, reason := q.filter(email)
	if reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load events", "events_list_failed", err,
			"email", email, "from", f.From, "to", f.To, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
