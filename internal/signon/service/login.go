package service

import (
	"context"

	"github.com/oakheart/signon/internal/signon/domain"
	"github.com/oakheart/signon/internal/signon/google"
	"github.com/oakheart/signon/pkg/slogx"
)

// IdentityExchanger is the provider-facing dependency of the login flow.
// *google.Client satisfies it; tests substitute their own.
type IdentityExchanger interface {
	Exchange(ctx context.Context, code string) (google.Assertion, error)
}

// LoginMetrics receives the terminal outcome of each login run. A nil
// recorder disables instrumentation.
type LoginMetrics interface {
	RecordLoginOutcome(outcome domain.LoginOutcome)
}

// LoginResult is the orchestrator's answer for one callback run. Token is
// empty exactly when Outcome is LoginFailed.
type LoginResult struct {
	Outcome domain.LoginOutcome
	Token   string
	UserID  string
}

// LoginService drives the callback flow: identity exchange, user upsert,
// token mint, session record, in that strict order. Each request runs the
// whole sequence synchronously; nothing resumable is persisted between
// requests.
type LoginService struct {
	Provider  IdentityExchanger
	Directory *DirectoryService
	Tokens    *TokenService
	Sessions  *SessionService
	Metrics   LoginMetrics
}

// Login runs the authentication state machine for an authorization code.
//
// Outcome precedence: a user who already existed is always reported as
// LoginAuthenticated, even when the session row afterwards fails to
// persist. The token is signed and verifiable on its own, so a returning
// user still walks away with a usable credential while the failure is
// logged. This asymmetry (a session-store error only fails the flow for a
// newly created user) is a deliberate trade-off, not an oversight.
func (s *LoginService) Login(ctx context.Context, code string) LoginResult {
	log := slogx.FromContext(ctx)

	assertion, err := s.Provider.Exchange(ctx, code)
	if err != nil {
		log.Warn("identity exchange failed", "err", err)
		return s.finish(LoginResult{Outcome: domain.LoginFailed})
	}

	user, upsert, err := s.Directory.Upsert(ctx, assertion)
	if err != nil {
		log.Error("user upsert failed", "err", err)
		return s.finish(LoginResult{Outcome: domain.LoginFailed})
	}

	token, err := s.Tokens.Issue(user.ID, user.GoogleID, user.Email)
	if err != nil {
		log.Error("token mint failed", "user_id", user.ID, "err", err)
		return s.finish(LoginResult{Outcome: domain.LoginFailed})
	}

	record, err := s.Sessions.Record(ctx, user.ID, token)
	if err != nil {
		if upsert == domain.UserAlreadyExists {
			log.Warn("session record failed for returning user", "user_id", user.ID, "err", err)
			return s.finish(LoginResult{Outcome: domain.LoginAuthenticated, Token: token, UserID: user.ID})
		}

		log.Error("session record failed", "user_id", user.ID, "err", err)
		return s.finish(LoginResult{Outcome: domain.LoginFailed})
	}

	if record == domain.SessionDuplicateToken {
		// Should not happen for a fresh mint; worth a trace either way.
		log.Warn("duplicate session token", "user_id", user.ID)
	}

	outcome := domain.LoginCreated
	if upsert == domain.UserAlreadyExists {
		outcome = domain.LoginAuthenticated
	}

	log.Info("login complete", "user_id", user.ID, "outcome", outcome.String())
	return s.finish(LoginResult{Outcome: outcome, Token: token, UserID: user.ID})
}

func (s *LoginService) finish(res LoginResult) LoginResult {
	if s.Metrics != nil {
		s.Metrics.RecordLoginOutcome(res.Outcome)
	}
	return res
}
