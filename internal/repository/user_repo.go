package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"feed_csrf/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL        = `INSERT OR IGNORE INTO users (email, username, password, phone, active) VALUES (?, ?, ?, ?, ?)`
	selectUserByEmailSQL = `SELECT email, username, password, phone, active FROM users WHERE email = ?`
	updateUserActiveSQL  = `UPDATE users SET active = ? WHERE email = ?`
	updateUserPhoneSQL   = `UPDATE users SET phone = ? WHERE email = ?`
)

// Create inserts a new user. Returns ErrDuplicate if the email is taken.
func (r *UserSQLite) Create(ctx context.Context, u models.User) error {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Email, u.Username, u.Password, u.Phone, u.Active)
	if err != nil {
		return fmt.Errorf("insert user %q: %w", u.Email, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %q: %w", u.Email, err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

// FindByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByEmailSQL, email).
		Scan(&u.Email, &u.Username, &u.Password, &u.Phone, &u.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return &u, nil
}

func (r *UserSQLite) SetActive(ctx context.Context, email string, active bool) error {
	return r.update(ctx, updateUserActiveSQL, email, active)
}

func (r *UserSQLite) SetPhone(ctx context.Context, email, phone string) error {
	return r.update(ctx, updateUserPhoneSQL, email, phone)
}

// update runs a single-column UPDATE and maps zero affected rows to ErrNotFound.
func (r *UserSQLite) update(ctx context.Context, query, email string, value any) error {
	res, err := r.db.ExecContext(ctx, query, value, email)
	if err != nil {
		return fmt.Errorf("update user %q: %w", email, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %q: %w", email, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
