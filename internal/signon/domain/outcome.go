package domain

// UpsertOutcome reports whether a directory upsert created a new user or
// found an existing registration for the same email.
type UpsertOutcome int

const (
	UserCreated UpsertOutcome = iota
	UserAlreadyExists
)

func (o UpsertOutcome) String() string {
	switch o {
	case UserCreated:
		return "created"
	case UserAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// RecordOutcome classifies a session insert. DuplicateToken is the only
// conflict expected under legitimate retry conditions and is kept distinct
// from generic store failures.
type RecordOutcome int

const (
	SessionRecorded RecordOutcome = iota
	SessionDuplicateToken
)

func (o RecordOutcome) String() string {
	switch o {
	case SessionRecorded:
		return "recorded"
	case SessionDuplicateToken:
		return "duplicate_token"
	default:
		return "unknown"
	}
}

// LoginOutcome is the orchestrator's terminal classification for one
// callback run. It is what the response layer renders into a deeplink.
type LoginOutcome int

const (
	LoginCreated LoginOutcome = iota
	LoginAuthenticated
	LoginFailed
)

func (o LoginOutcome) String() string {
	switch o {
	case LoginCreated:
		return "created"
	case LoginAuthenticated:
		return "authenticated"
	case LoginFailed:
		return "login_failed"
	default:
		return "unknown"
	}
}

// VerificationResult is the closed set of token verification answers. The
// labels are part of the verify-token response contract, so String must not
// change lightly.
type VerificationResult int

const (
	TokenValid VerificationResult = iota
	TokenExpired
	TokenInvalid
	TokenUserNotFound
)

func (r VerificationResult) String() string {
	switch r {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	case TokenInvalid:
		return "invalid"
	case TokenUserNotFound:
		return "user not found"
	default:
		return "unknown"
	}
}
