package repository

import (
	"context"
	"fmt"

	"feed_csrf/internal/models"

	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// UserRedis stores each user as a hash under "user:<email>".
type UserRedis struct {
	client *redis.Client
}

func NewUserRedis(client *redis.Client) *UserRedis {
	return &UserRedis{client: client}
}

var _ Users = (*UserRedis)(nil)

func userKey(email string) string {
	return userKeyPrefix + email
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (r *UserRedis) Create(ctx context.Context, u models.User) error {
	// HSETNX on the key field claims the record atomically.
	ok, err := r.client.HSetNX(ctx, userKey(u.Email), "email", u.Email).Result()
	if err != nil {
		return fmt.Errorf("claim user %q: %w", u.Email, err)
	}
	if !ok {
		return ErrDuplicate
	}
	err = r.client.HSet(ctx, userKey(u.Email),
		"username", u.Username,
		"password", u.Password,
		"phone", u.Phone,
		"active", boolField(u.Active),
	).Err()
	if err != nil {
		return fmt.Errorf("write user %q: %w", u.Email, err)
	}
	return nil
}

func (r *UserRedis) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	fields, err := r.client.HGetAll(ctx, userKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", email, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &models.User{
		Email:    email,
		Username: fields["username"],
		Password: fields["password"],
		Phone:    fields["phone"],
		Active:   fields["active"] == "1",
	}, nil
}

func (r *UserRedis) SetActive(ctx context.Context, email string, active bool) error {
	return r.setField(ctx, email, "active", boolField(active))
}

func (r *UserRedis) SetPhone(ctx context.Context, email, phone string) error {
	return r.setField(ctx, email, "phone", phone)
}

func (r *UserRedis) setField(ctx context.Context, email, field, value string) error {
	n, err := r.client.Exists(ctx, userKey(email)).Result()
	if err != nil {
		return fmt.Errorf("check user %q: %w", email, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := r.client.HSet(ctx, userKey(email), field, value).Err(); err != nil {
		return fmt.Errorf("update user %q: %w", email, err)
	}
	return nil
}
