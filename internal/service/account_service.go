package service

import (
	"context"
	"errors"

	"feed_csrf/internal/models"
	"feed_csrf/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// AccountService reads and mutates user records for an authenticated session.
type AccountService struct {
	users  repository.Users
	events repository.EventRepo
}

func NewAccountService(users repository.Users, events repository.EventRepo) *AccountService {
	return &AccountService{users: users, events: events}
}

// Profile returns the current record, active or not.
func (s *AccountService) Profile(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdatePhone overwrites the stored phone. An empty value keeps the old one.
// An ErrAuditFailed error means the phone was still written.
func (s *AccountService) UpdatePhone(ctx context.Context, email, phone string) error {
	if phone == "" {
		return nil
	}
	if err := s.users.SetPhone(ctx, email, phone); err != nil {
		return mapNotFound(err)
	}
	return appendEvent(ctx, s.events, models.EventSettingsUpdated, email, "phone updated", nil)
}

// Deactivate soft-deletes the account. There is no way back. An
// ErrAuditFailed error means the account is deactivated regardless.
func (s *AccountService) Deactivate(ctx context.Context, email string, origin RequestOrigin) error {
	if err := s.users.SetActive(ctx, email, false); err != nil {
		return mapNotFound(err)
	}
	return appendEvent(ctx, s.events, models.EventAccountDeactivated, email, "account deactivated", origin.metadata())
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
