package domain

import "time"

// Session is the provider-issued session for the current user.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// User is the identity-provider view of an account.
type User struct {
	ID    string
	Email string
}

// Profile is the application-level user record keyed by the
// identity provider's user id.
type Profile struct {
	ID    string
	Email string
	Name  string
	Role  string
}
