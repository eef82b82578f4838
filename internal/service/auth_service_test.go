package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"feed_csrf/internal/models"
	"feed_csrf/internal/repository"
)

// mockUsers is a lightweight in-test mock for repository.Users.
type mockUsers struct {
	FindByEmailFn func(email string) (*models.User, error)
	SetActiveFn   func(email string, active bool) error
	SetPhoneFn    func(email, phone string) error

	findCalls []string
}

func (m *mockUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.findCalls = append(m.findCalls, email)
	return m.FindByEmailFn(email)
}

func (m *mockUsers) SetActive(_ context.Context, email string, active bool) error {
	return m.SetActiveFn(email, active)
}

func (m *mockUsers) SetPhone(_ context.Context, email, phone string) error {
	return m.SetPhoneFn(email, phone)
}

func (m *mockUsers) Create(context.Context, models.User) error { return nil }

// seededUsers returns a memory store holding the default account.
func seededUsers(t *testing.T) *repository.UserMemory {
	t.Helper()
	users := repository.NewUserMemory()
	if err := repository.Seed(context.Background(), users, repository.DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return users
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		deactivate bool
		wantErr    error
		wantEvent  string
		wantReason string
	}{
		{name: "valid credentials", email: "batman@obawim.com", password: "password123", wantEvent: models.EventLogin},
		{name: "wrong password", email: "batman@obawim.com", password: "password124", wantErr: ErrInvalidCredentials, wantEvent: models.EventLoginFailed, wantReason: reasonWrongPassword},
		{name: "password is case sensitive", email: "batman@obawim.com", password: "PASSWORD123", wantErr: ErrInvalidCredentials, wantEvent: models.EventLoginFailed, wantReason: reasonWrongPassword},
		{name: "email is exact", email: "Batman@obawim.com", password: "password123", wantErr: ErrInvalidCredentials, wantEvent: models.EventLoginFailed, wantReason: reasonUnknownUser},
		{name: "empty fields", email: "", password: "", wantErr: ErrInvalidCredentials, wantEvent: models.EventLoginFailed, wantReason: reasonUnknownUser},
		{name: "deactivated account", email: "batman@obawim.com", password: "password123", deactivate: true, wantErr: ErrInvalidCredentials, wantEvent: models.EventLoginFailed, wantReason: reasonInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := seededUsers(t)
			if tt.deactivate {
				_ = users.SetActive(context.Background(), "batman@obawim.com", false)
			}
			events := &fakeEventRepo{}
			svc := NewAuthService(users, events)

			u, err := svc.Login(context.Background(), tt.email, tt.password)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && (u == nil || u.Username != "Batman") {
				t.Fatalf("expected Batman, got %+v", u)
			}
			if tt.wantErr != nil && u != nil {
				t.Fatalf("expected nil user on failure, got %+v", u)
			}
			if got := events.types(); !reflect.DeepEqual(got, []string{tt.wantEvent}) {
				t.Fatalf("events: got %v, want [%s]", got, tt.wantEvent)
			}
			if tt.wantReason != "" {
				meta, _ := events.appended[0].Metadata.(map[string]string)
				if meta["reason"] != tt.wantReason {
					t.Fatalf("reason: got %q, want %q", meta["reason"], tt.wantReason)
				}
			}
		})
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	users := &mockUsers{FindByEmailFn: func(string) (*models.User, error) {
		return nil, errors.New("query failed")
	}}
	events := &fakeEventRepo{}
	svc := NewAuthService(users, events)

	_, err := svc.Login(context.Background(), "batman@obawim.com", "password123")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected raw repo error, got %v", err)
	}
	if len(events.appended) != 0 {
		t.Fatalf("no event expected on store failure, got %v", events.types())
	}
}

func TestAuthService_Login_AuditFailure(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantUser  bool
		wantCreds bool
	}{
		{name: "success keeps user", password: "password123", wantUser: true},
		{name: "rejection keeps credentials error", password: "nope", wantCreds: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(seededUsers(t), &fakeEventRepo{appendErr: errors.New("log full")})

			u, err := svc.Login(context.Background(), "batman@obawim.com", tt.password)
			if !errors.Is(err, ErrAuditFailed) {
				t.Fatalf("expected ErrAuditFailed, got %v", err)
			}
			if (u != nil) != tt.wantUser {
				t.Fatalf("user=%+v", u)
			}
			if errors.Is(err, ErrInvalidCredentials) != tt.wantCreds {
				t.Fatalf("ErrInvalidCredentials in %v: want %v", err, tt.wantCreds)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	events := &fakeEventRepo{}
	svc := NewAuthService(seededUsers(t), events)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("anonymous logout: %v", err)
	}
	if len(events.appended) != 0 {
		t.Fatalf("anonymous logout must not be recorded")
	}
	if err := svc.Logout(context.Background(), "batman@obawim.com"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if got := events.types(); !reflect.DeepEqual(got, []string{models.EventLogout}) {
		t.Fatalf("events: %v", got)
	}
}

func TestAuthService_Reauthenticate(t *testing.T) {
	users := seededUsers(t)
	svc := NewAuthService(users, &fakeEventRepo{})
	ctx := context.Background()

	if err := svc.Reauthenticate(ctx, "batman@obawim.com", "password123"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := svc.Reauthenticate(ctx, "batman@obawim.com", ""); !errors.Is(err, ErrReauthFailed) {
		t.Fatalf("expected ErrReauthFailed, got %v", err)
	}
	_ = users.SetActive(ctx, "batman@obawim.com", false)
	if err := svc.Reauthenticate(ctx, "batman@obawim.com", "password123"); !errors.Is(err, ErrReauthFailed) {
		t.Fatalf("deactivated user must fail re-auth, got %v", err)
	}
}
