package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
)

type profilesRepo struct {
	q *queries
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.q.db.ExecContext(ctx, insertProfile,
		p.AccountID, p.EmailConfirmed, p.Bio, p.AvatarKey, toMicros(p.UpdatedAt),
	)
	return mapUnique(err)
}

func (r *profilesRepo) GetProfile(ctx context.Context, accountID string) (domain.Profile, error) {
	var (
		p       domain.Profile
		updated int64
	)
	err := r.q.db.QueryRowContext(ctx, selectProfile, accountID).Scan(
		&p.AccountID, &p.EmailConfirmed, &p.Bio, &p.AvatarKey, &updated,
	)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.UpdatedAt = fromMicros(updated)
	return p, nil
}

func (r *profilesRepo) ConfirmEmail(ctx context.Context, accountID string) error {
	return r.update(ctx, confirmEmail, toMicros(time.Now()), accountID)
}

func (r *profilesRepo) UpdateBio(ctx context.Context, accountID, bio string) error {
	return r.update(ctx, updateBio, bio, toMicros(time.Now()), accountID)
}

func (r *profilesRepo) UpdateAvatar(ctx context.Context, accountID, avatarKey string) error {
	return r.update(ctx, updateAvatar, avatarKey, toMicros(time.Now()), accountID)
}

func (r *profilesRepo) update(ctx context.Context, query string, args ...any) error {
	ok, err := r.q.execOne(ctx, query, args...)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}
