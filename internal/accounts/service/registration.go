package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/domain"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/notify"
	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/pkg/cryptox"
	"github.com/aussiebroadwan/foodcodes/pkg/idx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
	"github.com/aussiebroadwan/foodcodes/pkg/tokenx"
)

// ActivationMailer delivers activation links.
type ActivationMailer interface {
	SendActivation(ctx context.Context, to string, d notify.ActivationData) error
}

// Site is where activation links point.
type Site struct {
	Domain string
	Scheme string
}

type RegisterInput struct {
	Username        string `form:"username" validate:"required,min=3,max=150,username"`
	Email           string `form:"email" validate:"required,max=254,email"`
	Password        string `form:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

type RegistrationService struct {
	Store     store.Store
	Hasher    *cryptox.PasswordHasher
	Tokens    *tokenx.Generator
	Mailer    ActivationMailer
	Validator *Validator
	Site      Site

	// Now defaults to time.Now.
	Now func() time.Time
}

// Register creates an inactive account with an unconfirmed profile and sends
// its activation link. Invalid input yields a *ValidationError. A failed
// send yields ErrMailDelivery and the account is kept; the user can ask for
// the link again.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	// 1. Shape of the input
	if err := s.Validator.Struct(in); err != nil {
		registrationsTotal.WithLabelValues("invalid").Inc()
		return domain.Account{}, err
	}

	// 2. Uniqueness
	if err := checkUnique(ctx, s.Store, in.Username, in.Email, ""); err != nil {
		registrationsTotal.WithLabelValues("invalid").Inc()
		return domain.Account{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, err
	}

	// 3. Account and profile together
	now := s.now()
	acc := domain.Account{
		ID:           idx.NewAt(now).String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Active:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, acc); err != nil {
			return err
		}
		return tx.Profiles().CreateProfile(ctx, domain.Profile{AccountID: acc.ID, UpdatedAt: now})
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent registration.
		registrationsTotal.WithLabelValues("invalid").Inc()
		if uerr := checkUnique(ctx, s.Store, in.Username, in.Email, ""); uerr != nil {
			return domain.Account{}, uerr
		}
		return domain.Account{}, &ValidationError{Fields: map[string]string{"username": msgUsernameTaken}}
	}
	if err != nil {
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, err
	}

	log.Info("account registered",
		slog.String("account_id", acc.ID),
		slog.String("email", slogx.Redact(acc.Email)),
	)
	registrationsTotal.WithLabelValues("created").Inc()

	// 4. Activation link
	if err := s.sendActivation(ctx, acc); err != nil {
		return acc, err
	}
	return acc, nil
}

// ResendActivation sends a fresh link when email belongs to an account that
// is still inactive. Any other address is silently ignored.
func (s *RegistrationService) ResendActivation(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	acc, err := s.Store.Accounts().GetAccountByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("activation resend for unknown email")
		return nil
	}
	if err != nil {
		log.Error("failed to look up account for resend", slog.Any("error", err))
		return err
	}
	if acc.Active {
		log.Debug("activation resend for active account", slog.String("account_id", acc.ID))
		return nil
	}

	return s.sendActivation(ctx, acc)
}

func (s *RegistrationService) sendActivation(ctx context.Context, acc domain.Account) error {
	// The purge age of a pending account counts from its latest link.
	if err := s.Store.Accounts().MarkActivationSent(ctx, acc.ID, s.now()); err != nil {
		slogx.FromContext(ctx).Error("failed to record activation link",
			slog.String("account_id", acc.ID),
			slog.Any("error", err),
		)
		return err
	}

	data := notify.ActivationData{
		User:   acc.Username,
		Domain: s.Site.Domain,
		Scheme: s.Site.Scheme,
		UID:    tokenx.EncodeUID(acc.ID),
		Token:  s.Tokens.MakeToken(acc),
	}

	if err := s.Mailer.SendActivation(ctx, acc.Email, data); err != nil {
		activationMailsTotal.WithLabelValues("failed").Inc()
		slogx.FromContext(ctx).Error("failed to send activation email",
			slog.String("account_id", acc.ID),
			slog.Any("error", err),
		)
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	activationMailsTotal.WithLabelValues("sent").Inc()
	return nil
}

func (s *RegistrationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// checkUnique reports taken usernames and emails, ignoring exceptID.
func checkUnique(ctx context.Context, st store.Store, username, email, exceptID string) error {
	verr := &ValidationError{}

	taken, err := st.Accounts().UsernameTaken(ctx, username, exceptID)
	if err != nil {
		return err
	}
	if taken {
		verr.add("username", msgUsernameTaken)
	}

	taken, err = st.Accounts().EmailTaken(ctx, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		verr.add("email", msgEmailTaken)
	}

	if verr.empty() {
		return nil
	}
	return verr
}
