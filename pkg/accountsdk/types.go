package accountsdk

import "time"

// MessageResponse is the outcome notice returned to JSON clients.
type MessageResponse struct {
	// Level is "success", "info" or "error".
	Level   string `json:"level"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ProfileResponse is the authenticated account's own view.
type ProfileResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"email_confirmed"`
	Bio            string    `json:"bio"`
	BioHTML        string    `json:"bio_html,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Flash is the notice left by the previous redirect, if any.
	Flash *MessageResponse `json:"flash,omitempty"`
}

// ProfileUpdate holds the editable fields. Avatar is optional.
type ProfileUpdate struct {
	Username string
	Email    string
	Bio      string

	AvatarName string
	Avatar     []byte
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Avatars  string `json:"avatars,omitempty"`
}

// HealthResponse is served by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
