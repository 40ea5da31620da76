package models

import "time"

// Role values stored in the users table.
const (
	RoleAdmin  = "admin"
	RoleViewer = "visualizador"
)

// Identity is a user account as reported by the gateway's auth API.
type Identity struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	BannedUntil      *time.Time     `json:"banned_until,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
}

// IsActive reports whether the account can currently sign in.
func (i Identity) IsActive(now time.Time) bool {
	return i.BannedUntil == nil || i.BannedUntil.Before(now)
}

// MetadataRole returns the role recorded in the sign-up metadata, if any.
func (i Identity) MetadataRole() string {
	if r, ok := i.UserMetadata["role"].(string); ok {
		return r
	}
	return ""
}

// Session is an authenticated gateway session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	User         *Identity `json:"user,omitempty"`
}
