package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/store"
	"github.com/aussiebroadwan/foodcodes/pkg/idx"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
	"github.com/aussiebroadwan/foodcodes/pkg/tokenx"
)

// ActivationOutcome is all a caller learns from an activation attempt.
type ActivationOutcome int

const (
	ActivationInvalid ActivationOutcome = iota
	ActivationSucceeded
)

func (o ActivationOutcome) String() string {
	if o == ActivationSucceeded {
		return "succeeded"
	}
	return "invalid"
}

type ActivationService struct {
	Store  store.Store
	Tokens *tokenx.Generator
}

// Activate turns an inactive account active and confirms its email when the
// link is genuine. Unknown ids, bad or expired tokens, accounts that are
// already active and storage failures all come back as ActivationInvalid.
//
// The account flips inside a conditional update, so of two concurrent
// requests with the same link only one succeeds.
func (s *ActivationService) Activate(ctx context.Context, uidb64, token string) ActivationOutcome {
	log := slogx.FromContext(ctx)

	outcome, reason := s.activate(ctx, uidb64, token)
	activationsTotal.WithLabelValues(outcome.String()).Inc()

	if outcome == ActivationInvalid {
		log.Info("activation rejected", slog.String("reason", reason))
	}
	return outcome
}

func (s *ActivationService) activate(ctx context.Context, uidb64, token string) (ActivationOutcome, string) {
	log := slogx.FromContext(ctx)

	// 1. Identifier
	raw, err := tokenx.DecodeUID(uidb64)
	if err != nil {
		return ActivationInvalid, "malformed uid"
	}
	id, err := idx.Parse(raw)
	if err != nil {
		return ActivationInvalid, "malformed uid"
	}

	// 2. Account
	acc, err := s.Store.Accounts().GetAccountByID(ctx, id.String())
	if errors.Is(err, store.ErrNotFound) {
		return ActivationInvalid, "unknown account"
	}
	if err != nil {
		log.Error("failed to load account for activation", slog.Any("error", err))
		return ActivationInvalid, "store error"
	}

	// 3. Token, bound to the account's current state
	if !s.Tokens.CheckToken(acc, token) {
		return ActivationInvalid, "token mismatch"
	}

	// 4. Inactive -> active, exactly once
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().Activate(ctx, acc.ID); err != nil {
			return err
		}
		return tx.Profiles().ConfirmEmail(ctx, acc.ID)
	})
	if errors.Is(err, store.ErrConflict) {
		return ActivationInvalid, "already active"
	}
	if err != nil {
		log.Error("failed to activate account",
			slog.String("account_id", acc.ID),
			slog.Any("error", err),
		)
		return ActivationInvalid, "store error"
	}

	log.Info("account activated", slog.String("account_id", acc.ID))
	return ActivationSucceeded, ""
}
