package domain

import "time"

// Account is a registered user. Active flips to true exactly once, when the
// activation link is followed.
type Account struct {
	ID           string
	Username     string
	Email        string // stored lower-cased
	PasswordHash string // argon2 encoded
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Activation tokens are derived from these fields, so changing any of them
// invalidates every outstanding token.

func (a Account) TokenID() string    { return a.ID }
func (a Account) TokenActive() bool  { return a.Active }
func (a Account) TokenEmail() string { return a.Email }

func (a Account) TokenLastLogin() time.Time {
	if a.LastLoginAt == nil {
		return time.Time{}
	}
	return *a.LastLoginAt
}
