package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"feed_csrf/internal/models"

	"github.com/redis/go-redis/v9"
)

// Store errors shared by every Users implementation.
var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("user already exists")
)

// Users is the account store. FindByEmail returns (nil, nil) when no record matches.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetActive(ctx context.Context, email string, active bool) error
	SetPhone(ctx context.Context, email, phone string) error
	Create(ctx context.Context, u models.User) error
}

// EventRepo is the append-only account audit log.
type EventRepo interface {
	Append(ctx context.Context, e models.AccountEvent) error
	List(ctx context.Context, email string, from, to time.Time, typ string) ([]models.AccountEvent, error)
}

type Repository struct {
	Users  Users
	Events EventRepo
}

// NewMemoryRepository keeps everything in process memory.
func NewMemoryRepository() *Repository {
	return &Repository{
		Users:  NewUserMemory(),
		Events: NewEventMemory(),
	}
}

func NewSQLiteRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserSQLite(db),
		Events: NewEventSQLite(db),
	}
}

// NewRedisRepository stores users in redis; the audit log stays in memory.
func NewRedisRepository(client *redis.Client) *Repository {
	return &Repository{
		Users:  NewUserRedis(client),
		Events: NewEventMemory(),
	}
}

// DefaultUsers is the account the demo starts with.
func DefaultUsers() []models.User {
	return []models.User{
		{
			Email:    "batman@obawim.com",
			Username: "Batman",
			Password: "password123",
			Phone:    "123456789",
			Active:   true,
		},
	}
}

// Seed inserts users that are not present yet. Existing records, including
// deactivated ones, are left untouched.
func Seed(ctx context.Context, users Users, seed []models.User) error {
	for _, u := range seed {
		if err := users.Create(ctx, u); err != nil && !errors.Is(err, ErrDuplicate) {
			return err
		}
	}
	return nil
}
