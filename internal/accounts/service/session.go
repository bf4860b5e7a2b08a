package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/pkg/cryptox"
	"github.com/aussiebroadwan/foodcodes/pkg/jwtx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

// Session is a signed access token for one logged-in account.
type Session struct {
	Token     string
	ExpiresIn time.Duration
	Account   domain.Account
}

type SessionService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Login checks the credentials and issues a session token. Accounts that
// have not been activated are refused exactly like a wrong password.
//
// A successful login moves last_login_at, which invalidates any activation
// link still in flight for the account.
func (s *SessionService) Login(ctx context.Context, username, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	acc, err := s.Store.Accounts().GetAccountByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		// Keep the timing of unknown users in line with known ones.
		_ = s.Hasher.VerifyDummy(password)
		loginsTotal.WithLabelValues("rejected").Inc()
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("failed to load account for login", slog.Any("error", err))
		return Session{}, err
	}

	if err := s.Hasher.Verify(password, acc.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("failed to verify password",
				slog.String("account_id", acc.ID),
				slog.Any("error", err),
			)
		}
		loginsTotal.WithLabelValues("rejected").Inc()
		return Session{}, ErrInvalidCredentials
	}

	if !acc.Active {
		log.Info("login refused for inactive account", slog.String("account_id", acc.ID))
		loginsTotal.WithLabelValues("inactive").Inc()
		return Session{}, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.Store.Accounts().TouchLastLogin(ctx, acc.ID, now); err != nil {
		log.Error("failed to record login", slog.String("account_id", acc.ID), slog.Any("error", err))
		return Session{}, err
	}
	acc.LastLoginAt = &now

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	token, err := s.Signer.Sign(jwtx.NewSessionClaims(acc.ID, acc.Username, s.Issuer, ttl, now))
	if err != nil {
		log.Error("failed to sign session", slog.Any("error", err))
		return Session{}, err
	}

	log.Info("login succeeded", slog.String("account_id", acc.ID))
	loginsTotal.WithLabelValues("ok").Inc()

	return Session{Token: token, ExpiresIn: ttl, Account: acc}, nil
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
