package repository

import (
	"context"
	"sync"

	"feed_csrf/internal/models"
)

// UserMemory is a map-backed Users store. Returned records are copies.
type UserMemory struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserMemory() *UserMemory {
	return &UserMemory{users: make(map[string]models.User)}
}

var _ Users = (*UserMemory)(nil)

func (r *UserMemory) Create(_ context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return ErrDuplicate
	}
	r.users[u.Email] = u
	return nil
}

func (r *UserMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserMemory) SetActive(_ context.Context, email string, active bool) error {
	return r.modify(email, func(u *models.User) { u.Active = active })
}

func (r *UserMemory) SetPhone(_ context.Context, email, phone string) error {
	return r.modify(email, func(u *models.User) { u.Phone = phone })
}

func (r *UserMemory) modify(email string, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return ErrNotFound
	}
	fn(&u)
	r.users[email] = u
	return nil
}
