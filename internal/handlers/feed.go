package handlers

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// postView is a post as handed to the template. Content is trusted verbatim.
type postView struct {
	Username string
	Handle   string
	Date     string
	Content  template.HTML
}

func (h *Handler) feed(c *gin.Context) {
	sess := currentSession(c)
	posts := h.services.Feed.Posts(c.Request.Context())

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{
			Username: p.Username,
			Handle:   p.Handle,
			Date:     p.Date,
			Content:  template.HTML(p.Content), // raw markup, see the bait link post
		})
	}
	h.render(c, sess, "feed.html", gin.H{
		"Title":    "Feed",
		"Username": sess.Username,
		"Posts":    views,
	})
}
