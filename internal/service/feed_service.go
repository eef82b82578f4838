package service

import (
	"context"
	"fmt"

	"feed_csrf/internal/models"
)

// FeedService serves a hardcoded timeline. One post links to exploitURL.
type FeedService struct {
	exploitURL string
}

func NewFeedService(exploitURL string) *FeedService {
	return &FeedService{exploitURL: exploitURL}
}

func (s *FeedService) Posts(_ context.Context) []models.Post {
	return []models.Post{
		{Username: "Batman", Handle: "@Batman", Date: "Apr 1", Content: "Did someone call me?"},
		{Username: "Bemu", Handle: "@Bemu", Date: "Mar 29", Content: "Whats uppp <strong>samuirai</strong>?"},
		{Username: "Elon Musk", Handle: "@musk", Date: "Mar 28", Content: "I am going to Mars. See ya mfs"},
		{
			Username: "JohnPaul2",
			Handle:   "@JohnPaul2",
			Date:     "Mar 28",
			Content:  fmt.Sprintf(`Check out this guy <a href="%s" target="_blank">dont clik this link</a>`, s.exploitURL),
		},
	}
}
