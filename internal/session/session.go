// Package session keeps per-browser state in an HS256-signed cookie.
//
// The cookie carries the authenticated email and display name, pending
// flash messages and, when enabled, an anti-forgery token. There is no
// server-side session table: clearing the cookie ends the session.
package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultCookieName = "session"

var (
	ErrInvalidSession    = errors.New("invalid session")
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// Session is the decoded cookie payload.
type Session struct {
	ID        string
	Email     string
	Username  string
	CSRFToken string
	Flashes   []string
}

// Authenticated reports whether the session carries a user identity.
func (s *Session) Authenticated() bool {
	return s.Email != ""
}

// Flash queues a message for the next rendered page.
func (s *Session) Flash(msg string) {
	s.Flashes = append(s.Flashes, msg)
}

// PopFlashes returns and clears pending flash messages.
func (s *Session) PopFlashes() []string {
	out := s.Flashes
	s.Flashes = nil
	return out
}

// VerifyCSRF compares token with the one bound to the session in constant
// time. A session without a token never verifies.
func (s *Session) VerifyCSRF(token string) error {
	if s.CSRFToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.CSRFToken)) != 1 {
		return ErrCSRFTokenMismatch
	}
	return nil
}

// Clear drops identity and flashes, like logging out.
func (s *Session) Clear() {
	*s = Session{}
}

func (s *Session) empty() bool {
	return s.Email == "" && len(s.Flashes) == 0 && s.CSRFToken == ""
}

// Claims is the JWT body stored in the cookie. No expiry is set.
type Claims struct {
	jwt.RegisteredClaims
	Email     string   `json:"email,omitempty"`
	Username  string   `json:"username,omitempty"`
	CSRFToken string   `json:"csrf,omitempty"`
	Flashes   []string `json:"flashes,omitempty"`
}

// Options tune cookie attributes.
type Options struct {
	CookieName string
	SameSite   http.SameSite // zero value omits the attribute
	Secure     bool
}

// Manager encodes and decodes session cookies.
type Manager struct {
	key  []byte
	opts Options
}

func NewManager(secret string, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Manager{key: []byte(secret), opts: opts}
}

func (m *Manager) CookieName() string { return m.opts.CookieName }

// Encode signs s into a token string.
func (m *Manager) Encode(s Session) (string, error) {
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Email:     s.Email,
		Username:  s.Username,
		CSRFToken: s.CSRFToken,
		Flashes:   s.Flashes,
	})
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies a token produced by Encode.
func (m *Manager) Decode(raw string) (Session, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Session{}, ErrInvalidSession
	}
	return Session{
		ID:        claims.ID,
		Email:     claims.Email,
		Username:  claims.Username,
		CSRFToken: claims.CSRFToken,
		Flashes:   claims.Flashes,
	}, nil
}

// Load reads the session from r. A missing or tampered cookie yields an
// empty session.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return &Session{}
	}
	s, err := m.Decode(c.Value)
	if err != nil {
		return &Session{}
	}
	return &s
}

// Save writes s back to the browser, deleting the cookie when s is empty.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if s == nil || s.empty() {
		http.SetCookie(w, m.cookie("", -1))
		return nil
	}
	token, err := m.Encode(*s)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(token, 0))
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	}
}

// NewCSRFToken returns 32 random bytes, base64url encoded.
func NewCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
