package postgres

import (
	"context"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
)

type profilesRepo struct {
	q querier
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO profiles (account_id, email_confirmed, bio, avatar_key, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		p.AccountID, p.EmailConfirmed, p.Bio, p.AvatarKey, p.UpdatedAt.UTC(),
	)
	return mapUnique(err)
}

func (r *profilesRepo) GetProfile(ctx context.Context, accountID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.q.QueryRow(ctx,
		`SELECT account_id, email_confirmed, bio, avatar_key, updated_at FROM profiles WHERE account_id = $1`,
		accountID,
	).Scan(&p.AccountID, &p.EmailConfirmed, &p.Bio, &p.AvatarKey, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *profilesRepo) ConfirmEmail(ctx context.Context, accountID string) error {
	return r.update(ctx, `UPDATE profiles SET email_confirmed = TRUE, updated_at = now() WHERE account_id = $1`, accountID)
}

func (r *profilesRepo) UpdateBio(ctx context.Context, accountID, bio string) error {
	return r.update(ctx, `UPDATE profiles SET bio = $1, updated_at = now() WHERE account_id = $2`, bio, accountID)
}

func (r *profilesRepo) UpdateAvatar(ctx context.Context, accountID, avatarKey string) error {
	return r.update(ctx, `UPDATE profiles SET avatar_key = $1, updated_at = now() WHERE account_id = $2`, avatarKey, accountID)
}

func (r *profilesRepo) update(ctx context.Context, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return store.ErrNotFound
	}
	return nil
}
