package domain

import "time"

// User is the local identity record created on first Google sign-in. Profile
// fields are captured from the provider assertion at registration time and
// are not refreshed on subsequent logins.
type User struct {
	ID            string
	Email         string
	GoogleID      int64
	Name          string
	GivenName     string
	FamilyName    string
	Locale        string
	Picture       string
	VerifiedEmail bool
	PasswordHash  string     // carried in the schema, never written by the Google flow
	CreatedAt     time.Time
	LastLogin     *time.Time // nullable; the login flow does not currently set it
}
