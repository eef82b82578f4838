package models

// User is a feed account keyed by Email.
type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"-"` // plaintext, never serialized
	Phone    string `json:"phone"`
	Active   bool   `json:"active"`
}
