package service

import (
	"context"
	"errors"

	"github.com/oakheart/signon/internal/signon/domain"
	"github.com/oakheart/signon/internal/signon/store"
	"github.com/oakheart/signon/pkg/jwtx"
	"github.com/oakheart/signon/pkg/slogx"
)

// VerifyService classifies presented session tokens. Signature, format and
// expiry are checked locally first; only a token that passes those cheap
// checks costs a directory lookup.
type VerifyService struct {
	Verifier jwtx.Verifier
	Store    store.Store
}

// Verify decodes and validates token, then confirms the referenced user
// still exists. A token that is cryptographically fine but points at a
// deleted user classifies as TokenUserNotFound. The returned error is
// non-nil only for store failures on the lookup; all token problems map
// into the result enum.
func (s *VerifyService) Verify(ctx context.Context, token string) (domain.VerificationResult, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(token)
	switch {
	case err == nil:
		// fall through to the directory check
	case errors.Is(err, jwtx.ErrExpired):
		return domain.TokenExpired, nil
	default:
		log.Debug("token rejected", "err", err)
		return domain.TokenInvalid, nil
	}

	if claims.Email == "" {
		// Nothing to cross-check; signature and expiry already passed.
		return domain.TokenValid, nil
	}

	_, err = s.Store.Users().GetUserByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		return domain.TokenValid, nil
	case errors.Is(err, store.ErrNotFound):
		return domain.TokenUserNotFound, nil
	default:
		return 0, err
	}
}
