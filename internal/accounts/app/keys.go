package app

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/foodcodes/pkg/cryptox"
	"github.com/aussiebroadwan/foodcodes/pkg/jwtx"
)

// SessionKeys holds the session signer and everything needed to verify it.
type SessionKeys struct {
	KeySet   *jwtx.KeySet
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
}

// InitSessionKeys loads the Ed25519 session key from cfg.SessionKeyFile, or
// generates an ephemeral one. With an ephemeral key every session ends when
// the process restarts.
func InitSessionKeys(cfg Config, issuer string, logger *slog.Logger) (*SessionKeys, error) {
	var (
		pemKey []byte
		err    error
	)

	if cfg.SessionKeyFile != "" {
		pemKey, err = cryptox.LoadEd25519Key(cfg.SessionKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load session key: %w", err)
		}
		logger.Info("session key loaded", "path", cfg.SessionKeyFile)
	} else {
		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		logger.Warn("using an ephemeral session key, sessions will not survive a restart")
	}

	// A throwaway signer yields the public key the stable kid is derived from.
	first, err := jwtx.NewSignerEdDSA("tmp", pemKey)
	if err != nil {
		return nil, err
	}
	signer, err := jwtx.NewSignerEdDSA(keyID(first.PublicKey()), pemKey)
	if err != nil {
		return nil, err
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	logger.Info("session signer ready", "kid", signer.KID())

	return &SessionKeys{
		KeySet:   keys,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, issuer),
	}, nil
}

// keyID is a short hash of the public key.
func keyID(pub []byte) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}

// activationSecrets returns the primary and fallback token keys. In dev a
// missing primary secret is replaced by a random one, which invalidates
// outstanding links on restart.
func activationSecrets(cfg Config, logger *slog.Logger) ([]byte, [][]byte, error) {
	primary := cfg.ActivationSecret
	if primary == "" {
		if !cfg.IsDev() {
			return nil, nil, fmt.Errorf("ACTIVATION_SECRET is required when ENV=%s", cfg.Env)
		}
		primary = cryptox.MustGenerateToken(cryptox.TokenSize256)
		logger.Warn("ACTIVATION_SECRET not set, using a random secret for this process")
	}

	fallbacks := make([][]byte, 0, len(cfg.ActivationSecretFallbacks))
	for _, s := range cfg.ActivationSecretFallbacks {
		fallbacks = append(fallbacks, []byte(s))
	}

	return []byte(primary), fallbacks, nil
}
