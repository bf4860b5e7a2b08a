// Package tokenx implements the activation link primitives: a reversible
// encoding for account identifiers and a stateless, state-bound token
// generator.
//
// Tokens are never stored. A token is an HMAC over the account's identity,
// its active flag and a coarse time bucket, so flipping the account to active
// invalidates every token ever issued for it without a revocation list.
package tokenx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash"
	"strconv"
	"time"
)

const (
	// DefaultWindow is the width of one time bucket.
	DefaultWindow = 24 * time.Hour

	macSize = 20

	// TokenLength is the length of every token MakeToken returns.
	TokenLength = (macSize*8 + 5) / 6

	domainTag = "foodcodes/account-activation/v1"
)

// ErrNoSecret is returned when a Generator is built without a key.
var ErrNoSecret = errors.New("tokenx: generator secret is required")

// Subject is the account state a token is bound to.
type Subject interface {
	TokenID() string
	TokenActive() bool
	TokenEmail() string
	// TokenLastLogin is the zero time when the account never logged in.
	TokenLastLogin() time.Time
}

type GeneratorConfig struct {
	// Secret signs new tokens and is required.
	Secret []byte

	// FallbackSecrets are accepted by CheckToken only, so a rotated secret
	// does not break links that are already in someone's inbox.
	FallbackSecrets [][]byte

	// Window is the bucket width (default: DefaultWindow). A token is
	// accepted in the bucket it was minted in and the one after it, so its
	// lifetime lands somewhere between Window and 2*Window.
	Window time.Duration

	// Now is the clock (default: time.Now).
	Now func() time.Time
}

// Generator mints and checks activation tokens. It holds no mutable state and
// is safe for concurrent use.
type Generator struct {
	secrets [][]byte
	window  int64
	now     func() time.Time
}

func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}

	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}
	if window < time.Second {
		window = time.Second
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	secrets := make([][]byte, 0, 1+len(cfg.FallbackSecrets))
	secrets = append(secrets, cfg.Secret)
	for _, s := range cfg.FallbackSecrets {
		if len(s) > 0 {
			secrets = append(secrets, s)
		}
	}

	return &Generator{
		secrets: secrets,
		window:  int64(window / time.Second),
		now:     now,
	}, nil
}

// MakeToken derives the token for s in the current bucket. Calling it again
// for the same unchanged account inside the bucket gives the same value.
func (g *Generator) MakeToken(s Subject) string {
	mac := g.sum(g.secrets[0], s, g.bucket())
	return base64.RawURLEncoding.EncodeToString(mac)
}

// CheckToken reports whether token is valid for s right now. It never fails
// loudly: malformed, expired, foreign and replayed tokens are all just false.
func (g *Generator) CheckToken(s Subject, token string) bool {
	if s == nil || s.TokenActive() {
		return false
	}
	if len(token) != TokenLength {
		return false
	}

	got, err := base64.RawURLEncoding.Strict().DecodeString(token)
	if err != nil || len(got) != macSize {
		return false
	}

	current := g.bucket()
	ok := false
	for _, secret := range g.secrets {
		for _, b := range []int64{current, current - 1} {
			// Keep going after a match so the work done does not depend on
			// which candidate matched.
			if hmac.Equal(got, g.sum(secret, s, b)) {
				ok = true
			}
		}
	}
	return ok
}

func (g *Generator) bucket() int64 {
	return g.now().Unix() / g.window
}

func (g *Generator) sum(secret []byte, s Subject, bucket int64) []byte {
	m := hmac.New(sha256.New, secret)
	writeField(m, domainTag)
	writeField(m, s.TokenID())
	writeField(m, strconv.FormatBool(s.TokenActive()))
	writeField(m, s.TokenEmail())

	lastLogin := ""
	if t := s.TokenLastLogin(); !t.IsZero() {
		lastLogin = strconv.FormatInt(t.UTC().Truncate(time.Microsecond).UnixMicro(), 10)
	}
	writeField(m, lastLogin)
	writeField(m, strconv.FormatInt(bucket, 10))

	return m.Sum(nil)[:macSize]
}

// writeField length-prefixes v so adjacent fields cannot be shifted into
// each other.
func writeField(h hash.Hash, v string) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(v))) // #nosec G115 -- field values are far below 4GiB
	_, _ = h.Write(n[:])
	_, _ = h.Write([]byte(v))
}
