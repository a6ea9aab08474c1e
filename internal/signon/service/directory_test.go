package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oakheart/signon/internal/signon/domain"
	"github.com/oakheart/signon/internal/signon/google"
	"github.com/oakheart/signon/internal/signon/store"
)

func testAssertion() google.Assertion {
	return google.Assertion{
		ID:            103456789012345678,
		Email:         "ada@example.com",
		Name:          "Ada Lovelace",
		GivenName:     "Ada",
		FamilyName:    "Lovelace",
		Locale:        "en",
		Picture:       "https://lh3.example.com/photo.jpg",
		VerifiedEmail: true,
	}
}

func TestDirectoryUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)
	dir := &DirectoryService{Store: st}

	var firstID string

	t.Run("first login registers the user", func(t *testing.T) {
		user, outcome, err := dir.Upsert(ctx, testAssertion())
		require.NoError(t, err)
		require.Equal(t, domain.UserCreated, outcome)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "ada@example.com", user.Email)
		require.Equal(t, int64(103456789012345678), user.GoogleID)
		require.True(t, user.VerifiedEmail)

		firstID = user.ID

		stored, err := st.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, firstID, stored.ID)
	})

	t.Run("repeat login returns the existing record unchanged", func(t *testing.T) {
		changed := testAssertion()
		changed.Name = "Ada K. Lovelace"
		changed.Picture = "https://lh3.example.com/new.jpg"

		user, outcome, err := dir.Upsert(ctx, changed)
		require.NoError(t, err)
		require.Equal(t, domain.UserAlreadyExists, outcome)
		require.Equal(t, firstID, user.ID)

		// Profile fields from the later assertion must not overwrite the
		// original registration.
		require.Equal(t, "Ada Lovelace", user.Name)
		require.Equal(t, "https://lh3.example.com/photo.jpg", user.Picture)

		count, err := st.Users().CountUsers(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})
}

// raceStore simulates losing the insert race: inside the transaction the
// email lookup misses and the insert hits the uniqueness constraint, while
// the re-read outside the transaction sees the winner's row.
type raceStore struct {
	store.Store
	winner domain.User
}

func (r *raceStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(&raceTx{})
}

func (r *raceStore) Users() store.Users {
	return winnerUsers{winner: r.winner}
}

type raceTx struct {
	store.Store
}

func (raceTx) Commit() error   { return nil }
func (raceTx) Rollback() error { return nil }

func (raceTx) Users() store.Users { return raceUsers{} }

type raceUsers struct {
	store.Users
}

func (raceUsers) GetUserByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, store.ErrNotFound
}

func (raceUsers) CreateUser(context.Context, domain.User) error {
	return store.ErrAlreadyExists
}

type winnerUsers struct {
	store.Users
	winner domain.User
}

func (w winnerUsers) GetUserByEmail(context.Context, string) (domain.User, error) {
	return w.winner, nil
}

func TestDirectoryUpsertLosesInsertRace(t *testing.T) {
	t.Parallel()

	winner := domain.User{ID: "01K6ZYXWVUTSRQPONMLKJIHGFE", Email: "ada@example.com"}
	dir := &DirectoryService{Store: &raceStore{winner: winner}}

	user, outcome, err := dir.Upsert(context.Background(), testAssertion())
	require.NoError(t, err)
	require.Equal(t, domain.UserAlreadyExists, outcome)
	require.Equal(t, winner.ID, user.ID)
}
