package service

import (
	"context"

	"feed_csrf/internal/models"
	"feed_csrf/internal/repository"
)

// Authorization checks credentials and records session lifecycle events.
type Authorization interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context, email string) error
	Reauthenticate(ctx context.Context, email, password string) error
}

// Account exposes the mutable parts of a user record.
type Account interface {
	Profile(ctx context.Context, email string) (*models.User, error)
	UpdatePhone(ctx context.Context, email, phone string) error
	Deactivate(ctx context.Context, email string, origin RequestOrigin) error
}

// Feed returns the static timeline.
type Feed interface {
	Posts(ctx context.Context) []models.Post
}

// EventLog exposes the account audit log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AccountEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Account
	Feed
	EventLog
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, exploitURL string) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Events),
		Account:       NewAccountService(repos.Users, repos.Events),
		Feed:          NewFeedService(exploitURL),
		EventLog:      NewEventLogService(repos.Events),
	}
}
