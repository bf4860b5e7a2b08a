package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/markup"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/media"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

// AvatarPathPrefix is where avatars are served from. The "avatars/" prefix
// of the storage key is dropped from the URL.
const AvatarPathPrefix = "/v1/avatars/"

// ProfileView is an account joined with its profile, ready to display.
type ProfileView struct {
	Account domain.Account
	Profile domain.Profile
	BioHTML string
}

func (v ProfileView) AvatarURL() string {
	if v.Profile.AvatarKey == "" {
		return ""
	}
	return AvatarPathPrefix + strings.TrimPrefix(v.Profile.AvatarKey, "avatars/")
}

// UpdatedAt is the later of the account and profile change times.
func (v ProfileView) UpdatedAt() time.Time {
	if v.Account.UpdatedAt.After(v.Profile.UpdatedAt) {
		return v.Account.UpdatedAt
	}
	return v.Profile.UpdatedAt
}

type ProfileInput struct {
	Username string `form:"username" validate:"required,min=3,max=150,username"`
	Email    string `form:"email" validate:"required,max=254,email"`
	Bio      string `form:"bio" validate:"max=2000"`

	// Avatar is nil when no new picture was uploaded.
	Avatar io.Reader `form:"-" validate:"-"`
}

type ProfileService struct {
	Store     store.Store
	Validator *Validator
	Markup    *markup.Renderer
	Avatars   media.Store
	Images    media.Processor
}

func (s *ProfileService) Get(ctx context.Context, accountID string) (ProfileView, error) {
	acc, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ProfileView{}, ErrAccountNotFound
	}
	if err != nil {
		return ProfileView{}, err
	}

	prof, err := s.Store.Profiles().GetProfile(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return ProfileView{}, ErrAccountNotFound
	}
	if err != nil {
		return ProfileView{}, err
	}

	html, err := s.Markup.Render(prof.Bio)
	if err != nil {
		return ProfileView{}, err
	}

	return ProfileView{Account: acc, Profile: prof, BioHTML: html}, nil
}

// Update edits username, email, bio and optionally the avatar in one go.
// Invalid input yields a *ValidationError and leaves everything untouched.
// Changing the email does not reset the profile's email_confirmed flag.
func (s *ProfileService) Update(ctx context.Context, accountID string, in ProfileInput) (ProfileView, error) {
	log := slogx.FromContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	// 1. Form fields
	if err := s.Validator.Struct(in); err != nil {
		return ProfileView{}, err
	}

	current, err := s.Get(ctx, accountID)
	if err != nil {
		return ProfileView{}, err
	}

	if err := checkUnique(ctx, s.Store, in.Username, in.Email, accountID); err != nil {
		return ProfileView{}, err
	}

	// 2. New avatar, stored before the rows point at it
	var newKey string
	if in.Avatar != nil {
		data, err := s.Images.Normalize(in.Avatar)
		switch {
		case errors.Is(err, media.ErrTooLarge):
			return ProfileView{}, ErrAvatarTooLarge
		case errors.Is(err, media.ErrUnsupportedFormat):
			return ProfileView{}, ErrAvatarFormat
		case err != nil:
			return ProfileView{}, err
		}

		newKey = media.NewAvatarKey(accountID)
		if err := s.Avatars.Put(ctx, newKey, data, media.ContentTypePNG); err != nil {
			log.Error("failed to store avatar", slog.String("account_id", accountID), slog.Any("error", err))
			return ProfileView{}, err
		}
	}

	// 3. Rows
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if in.Username != current.Account.Username || in.Email != current.Account.Email {
			if err := tx.Accounts().UpdateIdentity(ctx, accountID, in.Username, in.Email); err != nil {
				return err
			}
		}
		if err := tx.Profiles().UpdateBio(ctx, accountID, in.Bio); err != nil {
			return err
		}
		if newKey != "" {
			return tx.Profiles().UpdateAvatar(ctx, accountID, newKey)
		}
		return nil
	})
	if err != nil {
		if newKey != "" {
			s.deleteAvatar(ctx, newKey)
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			// Someone took the name between the check and the write.
			if uerr := checkUnique(ctx, s.Store, in.Username, in.Email, accountID); uerr != nil {
				return ProfileView{}, uerr
			}
			return ProfileView{}, &ValidationError{Fields: map[string]string{"username": msgUsernameTaken}}
		}
		log.Error("failed to update profile", slog.String("account_id", accountID), slog.Any("error", err))
		return ProfileView{}, err
	}

	// 4. Old avatar is unreferenced now
	if newKey != "" && current.Profile.AvatarKey != "" {
		s.deleteAvatar(ctx, current.Profile.AvatarKey)
	}

	log.Info("profile updated", slog.String("account_id", accountID))
	return s.Get(ctx, accountID)
}

func (s *ProfileService) deleteAvatar(ctx context.Context, key string) {
	if err := s.Avatars.Delete(ctx, key); err != nil && !errors.Is(err, media.ErrNotFound) {
		slogx.FromContext(ctx).Warn("failed to delete avatar", slog.String("key", key), slog.Any("error", err))
	}
}

// Avatar opens a stored avatar for reading. name is the part of the avatar
// URL after AvatarPathPrefix.
func (s *ProfileService) Avatar(ctx context.Context, name string) (io.ReadCloser, error) {
	key := "avatars/" + name
	if !media.ValidKey(key) {
		return nil, media.ErrNotFound
	}
	return s.Avatars.Get(ctx, key)
}
