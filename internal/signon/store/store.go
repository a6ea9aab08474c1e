package store

import (
	"context"
	"errors"

	"github.com/oakheart/signon/internal/signon/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now,
// postgres later if we need it) implement this. Uniqueness violations must
// surface as ErrAlreadyExists so callers can reinterpret them as domain
// outcomes instead of server errors.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed. This
	// is the recommended way to handle transactions as it cannot leak an
	// open transaction across requests.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByEmail returns the user registered for email, or ErrNotFound.
	// Email uniquely determines at most one user.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByID returns a user by its local id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int64, error)
}

type Sessions interface {
	// CreateSession inserts a session row. A duplicate token yields
	// ErrAlreadyExists; the token column is the only uniqueness constraint.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByToken returns the session recorded for token, or
	// ErrNotFound.
	GetSessionByToken(ctx context.Context, token string) (domain.Session, error)

	// CountSessionsForUser returns the number of sessions recorded against
	// a user id.
	CountSessionsForUser(ctx context.Context, userID string) (int64, error)
}
