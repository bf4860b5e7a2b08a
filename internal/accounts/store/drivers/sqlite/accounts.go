package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
)

type accountsRepo struct {
	q *queries
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	var lastLogin sql.NullInt64
	if a.LastLoginAt != nil {
		lastLogin = sql.NullInt64{Int64: toMicros(*a.LastLoginAt), Valid: true}
	}

	_, err := r.q.db.ExecContext(ctx, insertAccount,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Active, lastLogin,
		toMicros(a.CreatedAt), toMicros(a.UpdatedAt), toMicros(a.CreatedAt),
	)
	return mapUnique(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.get(ctx, selectAccountByID, id)
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.get(ctx, selectAccountByUsername, username)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.get(ctx, selectAccountByEmail, email)
}

func (r *accountsRepo) get(ctx context.Context, query string, arg string) (domain.Account, error) {
	var (
		a                  domain.Account
		lastLogin          sql.NullInt64
		createdAt, updated int64
	)
	err := r.q.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Active, &lastLogin, &createdAt, &updated,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.LastLoginAt = fromNullMicros(lastLogin)
	a.CreatedAt = fromMicros(createdAt)
	a.UpdatedAt = fromMicros(updated)
	return a, nil
}

func (r *accountsRepo) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	var taken bool
	err := r.q.db.QueryRowContext(ctx, usernameTaken, username, exceptID).Scan(&taken)
	return taken, err
}

func (r *accountsRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var taken bool
	err := r.q.db.QueryRowContext(ctx, emailTaken, email, exceptID).Scan(&taken)
	return taken, err
}

func (r *accountsRepo) Activate(ctx context.Context, id string) error {
	ok, err := r.q.execOne(ctx, activateAccount, toMicros(time.Now()), id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrConflict
	}
	return nil
}

func (r *accountsRepo) UpdateIdentity(ctx context.Context, id, username, email string) error {
	ok, err := r.q.execOne(ctx, updateIdentity, username, email, toMicros(time.Now()), id)
	if err != nil {
		return mapUnique(err)
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	ok, err := r.q.execOne(ctx, touchLastLogin, toMicros(at), id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) MarkActivationSent(ctx context.Context, id string, at time.Time) error {
	ok, err := r.q.execOne(ctx, markActivationSent, toMicros(at), id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.db.ExecContext(ctx, deleteInactive, toMicros(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
