package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/foodcodes/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedAccount(t *testing.T, st store.Store, username, email string, created time.Time) domain.Account {
	t.Helper()
	a := domain.Account{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$dummy",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	err := st.WithTx(context.Background(), func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(context.Background(), a); err != nil {
			return err
		}
		return tx.Profiles().CreateProfile(context.Background(), domain.Profile{AccountID: a.ID, UpdatedAt: created})
	})
	require.NoError(t, err)
	return a
}

func TestMigrationsAreIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestAccountRoundTrip(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 123456000, time.UTC)
	a := seedAccount(t, st, "alice", "alice@example.com", created)

	got, err := st.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.False(t, got.Active)
	require.Nil(t, got.LastLoginAt)
	require.True(t, created.Equal(got.CreatedAt))

	byName, err := st.Accounts().GetAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, a.ID, byName.ID)

	byEmail, err := st.Accounts().GetAccountByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, byEmail.ID)

	_, err = st.Accounts().GetAccountByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAccountDuplicates(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	seedAccount(t, st, "alice", "alice@example.com", time.Now())

	dup := domain.Account{ID: idx.New().String(), Username: "alice", Email: "other@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.ErrorIs(t, st.Accounts().CreateAccount(ctx, dup), store.ErrAlreadyExists)

	dup = domain.Account{ID: idx.New().String(), Username: "other", Email: "alice@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.ErrorIs(t, st.Accounts().CreateAccount(ctx, dup), store.ErrAlreadyExists)
}

func TestTakenChecksIgnoreSelf(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a := seedAccount(t, st, "alice", "alice@example.com", time.Now())

	taken, err := st.Accounts().UsernameTaken(ctx, "alice", "")
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = st.Accounts().UsernameTaken(ctx, "alice", a.ID)
	require.NoError(t, err)
	require.False(t, taken)

	taken, err = st.Accounts().EmailTaken(ctx, "bob@example.com", "")
	require.NoError(t, err)
	require.False(t, taken)
}

func TestActivateIsCompareAndSet(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a := seedAccount(t, st, "alice", "alice@example.com", time.Now())

	require.NoError(t, st.Accounts().Activate(ctx, a.ID))
	require.ErrorIs(t, st.Accounts().Activate(ctx, a.ID), store.ErrConflict)
	require.ErrorIs(t, st.Accounts().Activate(ctx, idx.New().String()), store.ErrConflict)

	got, err := st.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.Active)
}

func TestConcurrentActivateSucceedsOnce(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a := seedAccount(t, st, "alice", "alice@example.com", time.Now())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.WithTx(ctx, func(tx store.Tx) error {
				return tx.Accounts().Activate(ctx, a.ID)
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			if !errors.Is(err, store.ErrConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestTransactionRollsBack(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a := seedAccount(t, st, "alice", "alice@example.com", time.Now())

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().Activate(ctx, a.ID); err != nil {
			return err
		}
		if err := tx.Profiles().ConfirmEmail(ctx, a.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	p, err := st.Profiles().GetProfile(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, p.EmailConfirmed)
}

func TestProfileUpdates(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a := seedAccount(t, st, "alice", "alice@example.com", time.Now())

	require.NoError(t, st.Profiles().ConfirmEmail(ctx, a.ID))
	require.NoError(t, st.Profiles().UpdateBio(ctx, a.ID, "*hello*"))
	require.NoError(t, st.Profiles().UpdateAvatar(ctx, a.ID, "avatars/x.png"))

	p, err := st.Profiles().GetProfile(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, p.EmailConfirmed)
	require.Equal(t, "*hello*", p.Bio)
	require.Equal(t, "avatars/x.png", p.AvatarKey)

	require.ErrorIs(t, st.Profiles().UpdateBio(ctx, idx.New().String(), "x"), store.ErrNotFound)
}

func TestUpdateIdentityAndLastLogin(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a := seedAccount(t, st, "alice", "alice@example.com", time.Now())
	seedAccount(t, st, "bob", "bob@example.com", time.Now())

	require.NoError(t, st.Accounts().UpdateIdentity(ctx, a.ID, "alicia", "alicia@example.com"))
	require.ErrorIs(t, st.Accounts().UpdateIdentity(ctx, a.ID, "bob", "alicia@example.com"), store.ErrAlreadyExists)

	at := time.Date(2026, 5, 1, 8, 30, 0, 987654000, time.UTC)
	require.NoError(t, st.Accounts().TouchLastLogin(ctx, a.ID, at))

	got, err := st.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "alicia", got.Username)
	require.NotNil(t, got.LastLoginAt)
	require.True(t, at.Equal(*got.LastLoginAt))
}

func TestDeleteInactiveBeforeUsesLatestActivationMail(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	resent := seedAccount(t, st, "resent", "resent@example.com", now.Add(-72*time.Hour))
	require.NoError(t, st.Accounts().MarkActivationSent(ctx, resent.ID, now.Add(-time.Hour)))
	require.ErrorIs(t, st.Accounts().MarkActivationSent(ctx, "missing", now), store.ErrNotFound)

	n, err := st.Accounts().DeleteInactiveBefore(ctx, now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = st.Accounts().DeleteInactiveBefore(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestDeleteInactiveBefore(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := seedAccount(t, st, "stale", "stale@example.com", now.Add(-72*time.Hour))
	fresh := seedAccount(t, st, "fresh", "fresh@example.com", now)
	active := seedAccount(t, st, "active", "active@example.com", now.Add(-72*time.Hour))
	require.NoError(t, st.Accounts().Activate(ctx, active.ID))

	n, err := st.Accounts().DeleteInactiveBefore(ctx, now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = st.Accounts().GetAccountByID(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Profiles().GetProfile(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Accounts().GetAccountByID(ctx, fresh.ID)
	require.NoError(t, err)
	_, err = st.Accounts().GetAccountByID(ctx, active.ID)
	require.NoError(t, err)
}
