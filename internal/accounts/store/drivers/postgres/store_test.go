package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store/drivers/postgres"
	"github.com/aussiebroadwan/foodcodes/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres driver tests need docker")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("accounts"),
		tcpostgres.WithUsername("accounts"),
		tcpostgres.WithPassword("accounts"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestPostgresStore(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	a := domain.Account{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$dummy",
		CreatedAt:    now.Add(-72 * time.Hour),
		UpdatedAt:    now,
	}
	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, a); err != nil {
			return err
		}
		return tx.Profiles().CreateProfile(ctx, domain.Profile{AccountID: a.ID, UpdatedAt: now})
	}))

	t.Run("duplicate", func(t *testing.T) {
		dup := a
		dup.ID = idx.New().String()
		require.ErrorIs(t, st.Accounts().CreateAccount(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("last login round trips to the microsecond", func(t *testing.T) {
		require.NoError(t, st.Accounts().TouchLastLogin(ctx, a.ID, now))
		got, err := st.Accounts().GetAccountByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got.LastLoginAt)
		require.True(t, now.Equal(*got.LastLoginAt))
	})

	t.Run("activate once", func(t *testing.T) {
		require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Accounts().Activate(ctx, a.ID); err != nil {
				return err
			}
			return tx.Profiles().ConfirmEmail(ctx, a.ID)
		}))
		require.ErrorIs(t, st.Accounts().Activate(ctx, a.ID), store.ErrConflict)

		p, err := st.Profiles().GetProfile(ctx, a.ID)
		require.NoError(t, err)
		require.True(t, p.EmailConfirmed)
	})

	t.Run("purge counts from the latest activation mail", func(t *testing.T) {
		pending := domain.Account{
			ID:           idx.New().String(),
			Username:     "pending",
			Email:        "pending@example.com",
			PasswordHash: "$argon2id$dummy",
			CreatedAt:    now.Add(-72 * time.Hour),
			UpdatedAt:    now,
		}
		require.NoError(t, st.Accounts().CreateAccount(ctx, pending))
		require.NoError(t, st.Accounts().MarkActivationSent(ctx, pending.ID, now))

		n, err := st.Accounts().DeleteInactiveBefore(ctx, now.Add(-time.Hour))
		require.NoError(t, err)
		require.Zero(t, n)

		n, err = st.Accounts().DeleteInactiveBefore(ctx, now.Add(time.Second))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})

	t.Run("purge skips active accounts", func(t *testing.T) {
		n, err := st.Accounts().DeleteInactiveBefore(ctx, now)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := st.Accounts().GetAccountByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
