package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oakheart/signon/internal/signon/domain"
	"github.com/oakheart/signon/internal/signon/google"
	"github.com/oakheart/signon/internal/signon/store"
	"github.com/oakheart/signon/pkg/idx"
	"github.com/oakheart/signon/pkg/slogx"
)

// DirectoryService owns the local user directory. Registration is
// append-only for profile data: once a user exists, later logins never
// update the stored fields (including last_login, which the flow currently
// leaves unset).
type DirectoryService struct {
	Store store.Store
}

// Upsert registers the asserted identity if its email is unknown and
// returns the user record either way. The lookup and insert run inside one
// transaction; a concurrent registration of the same email between our
// lookup miss and our insert surfaces as a store conflict, which is
// swallowed and resolved by a re-read. Callers never see the uniqueness
// violation itself.
func (s *DirectoryService) Upsert(ctx context.Context, assertion google.Assertion) (domain.User, domain.UpsertOutcome, error) {
	log := slogx.FromContext(ctx)

	var existing domain.User
	var found bool

	candidate := domain.User{
		ID:            idx.New().String(),
		Email:         assertion.Email,
		GoogleID:      assertion.ID,
		Name:          assertion.Name,
		GivenName:     assertion.GivenName,
		FamilyName:    assertion.FamilyName,
		Locale:        assertion.Locale,
		Picture:       assertion.Picture,
		VerifiedEmail: assertion.VerifiedEmail,
		CreatedAt:     time.Now().UTC(),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByEmail(ctx, assertion.Email)
		switch {
		case err == nil:
			existing = u
			found = true
			return nil
		case errors.Is(err, store.ErrNotFound):
			return tx.Users().CreateUser(ctx, candidate)
		default:
			return err
		}
	})

	switch {
	case err == nil && found:
		return existing, domain.UserAlreadyExists, nil

	case err == nil:
		log.Info("user registered", "user_id", candidate.ID)
		return candidate, domain.UserCreated, nil

	case errors.Is(err, store.ErrAlreadyExists):
		// Lost the insert race to a concurrent registration. The row is
		// there now, so re-read it and report the existing user.
		u, rerr := s.Store.Users().GetUserByEmail(ctx, assertion.Email)
		if rerr != nil {
			return domain.User{}, 0, fmt.Errorf("re-read after conflict: %w", rerr)
		}
		log.Debug("upsert conflict resolved", "user_id", u.ID)
		return u, domain.UserAlreadyExists, nil

	default:
		return domain.User{}, 0, err
	}
}
