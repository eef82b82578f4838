package service

import (
	"context"
	"errors"
	"fmt"

	"feed_csrf/internal/models"
	"feed_csrf/internal/repository"
)

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid credentials or account deleted")
	ErrReauthFailed       = errors.New("password confirmation failed")

	// ErrAuditFailed marks an error where the operation itself took effect
	// and only its audit record was lost.
	ErrAuditFailed = errors.New("audit record not written")
)

// login failure reasons, recorded in the audit log only
const (
	reasonUnknownUser   = "unknown_user"
	reasonWrongPassword = "wrong_password"
	reasonInactive      = "inactive"
)

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	events repository.EventRepo
}

func NewAuthService(users repository.Users, events repository.EventRepo) *AuthService {
	return &AuthService{users: users, events: events}
}

// Login succeeds only for an existing, active user whose password matches
// exactly. Every failure returns the same ErrInvalidCredentials.
//
// A lost audit record does not change the outcome: a rejection still wraps
// ErrInvalidCredentials, and a success returns the user together with an
// ErrAuditFailed error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if reason := rejectReason(u, password); reason != "" {
		if err := s.record(ctx, models.EventLoginFailed, email, "login rejected", map[string]string{"reason": reason}); err != nil {
			return nil, errors.Join(ErrInvalidCredentials, err)
		}
		return nil, ErrInvalidCredentials
	}

	return u, s.record(ctx, models.EventLogin, email, "login succeeded", nil)
}

// Logout records the end of a session. An empty email is a no-op.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	return s.record(ctx, models.EventLogout, email, "logged out", nil)
}

// Reauthenticate confirms the current password before a destructive action.
func (s *AuthService) Reauthenticate(ctx context.Context, email, password string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if rejectReason(u, password) != "" {
		return ErrReauthFailed
	}
	return nil
}

// rejectReason returns "" when u may authenticate with password.
func rejectReason(u *models.User, password string) string {
	switch {
	case u == nil:
		return reasonUnknownUser
	case u.Password != password:
		return reasonWrongPassword
	case !u.Active:
		return reasonInactive
	default:
		return ""
	}
}

func (s *AuthService) record(ctx context.Context, typ, email, msg string, meta any) error {
	return appendEvent(ctx, s.events, typ, email, msg, meta)
}

// appendEvent writes an audit record. Failures wrap ErrAuditFailed.
func appendEvent(ctx context.Context, events repository.EventRepo, typ, email, msg string, meta any) error {
	err := events.Append(ctx, models.AccountEvent{
		Type:        typ,
		Email:       email,
		Description: msg,
		Metadata:    meta,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAuditFailed, typ, err)
	}
	return nil
}
