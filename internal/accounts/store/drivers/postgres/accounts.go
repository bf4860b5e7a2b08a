package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
)

const accountColumns = `id, username, email, password_hash, active, last_login_at, created_at, updated_at`

type accountsRepo struct {
	q querier
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO accounts (`+accountColumns+`, activation_sent_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $7)`,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Active, a.LastLoginAt, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return mapUnique(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *accountsRepo) get(ctx context.Context, query, arg string) (domain.Account, error) {
	var a domain.Account
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Active, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	if a.LastLoginAt != nil {
		t := a.LastLoginAt.UTC()
		a.LastLoginAt = &t
	}
	return a, nil
}

func (r *accountsRepo) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	var taken bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1 AND id <> $2)`, username, exceptID,
	).Scan(&taken)
	return taken, err
}

func (r *accountsRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	var taken bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1 AND id <> $2)`, email, exceptID,
	).Scan(&taken)
	return taken, err
}

func (r *accountsRepo) Activate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE accounts SET active = TRUE, updated_at = now() WHERE id = $1 AND active = FALSE`, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return store.ErrConflict
	}
	return nil
}

func (r *accountsRepo) UpdateIdentity(ctx context.Context, id, username, email string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE accounts SET username = $1, email = $2, updated_at = now() WHERE id = $3`, username, email, id,
	)
	if err != nil {
		return mapUnique(err)
	}
	if tag.RowsAffected() != 1 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE accounts SET last_login_at = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) MarkActivationSent(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE accounts SET activation_sent_at = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE NOT active AND activation_sent_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
