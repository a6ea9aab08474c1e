package domain

import "time"

// Session binds a user to an issued token. Rows are written once per
// successful login and never updated or deleted; there is no logout or
// revocation in this flow. UserID is informational only, the schema does not
// enforce referential integrity on it.
type Session struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}
