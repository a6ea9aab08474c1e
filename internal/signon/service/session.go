package service

import (
	"context"
	"errors"
	"time"

	"github.com/oakheart/signon/internal/signon/domain"
	"github.com/oakheart/signon/internal/signon/store"
	"github.com/oakheart/signon/pkg/idx"
)

// SessionService records issued tokens. Session rows are write-once: there
// is no logout or revocation in this flow.
type SessionService struct {
	Store store.Store
}

// Record inserts a session row binding token to userID. A duplicate token
// (a mint collision, or a retry re-submitting the same token) comes back as
// SessionDuplicateToken with a nil error; only genuinely unexpected store
// failures return an error.
func (s *SessionService) Record(ctx context.Context, userID, token string) (domain.RecordOutcome, error) {
	err := s.Store.Sessions().CreateSession(ctx, domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	})

	switch {
	case err == nil:
		return domain.SessionRecorded, nil
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.SessionDuplicateToken, nil
	default:
		return 0, err
	}
}
