package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict is returned when a conditional update matched no row
	// because the record is no longer in the expected state.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so a Tx exposes the same ones.
type Store interface {
	Accounts() Accounts
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account. Username and email collisions
	// return ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// UsernameTaken and EmailTaken ignore the account exceptID, so a profile
	// edit can keep its own values.
	UsernameTaken(ctx context.Context, username, exceptID string) (bool, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)

	// Activate sets active=true only if the account is still inactive.
	// Returns ErrConflict when no inactive account with that id exists.
	Activate(ctx context.Context, id string) error

	// UpdateIdentity changes username and email and bumps updated_at.
	UpdateIdentity(ctx context.Context, id, username, email string) error

	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// MarkActivationSent records when the latest activation link was
	// issued. CreateAccount sets it to the creation time.
	MarkActivationSent(ctx context.Context, id string, at time.Time) error

	// DeleteInactiveBefore removes never-activated accounts whose latest
	// activation link was issued before cutoff (profiles cascade) and
	// returns how many were removed.
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Profiles interface {
	CreateProfile(ctx context.Context, p domain.Profile) error
	GetProfile(ctx context.Context, accountID string) (domain.Profile, error)

	// ConfirmEmail sets email_confirmed for the account's profile.
	ConfirmEmail(ctx context.Context, accountID string) error

	UpdateBio(ctx context.Context, accountID, bio string) error
	UpdateAvatar(ctx context.Context, accountID, avatarKey string) error
}
