package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/cryptox"
	"github.com/aussiebroadwan/foodcodes/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "foodcodes-accounts"

func newSigner(t *testing.T, kid string) (*jwtx.EdDSASigner, *jwtx.KeySet) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.False(t, keys.IsReady())
	keys.AddSigner(signer)
	require.True(t, keys.IsReady())

	return signer, keys
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer, keys := newSigner(t, "session-1")

	claims := jwtx.NewSessionClaims("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "alice", testIssuer, 5*time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, got.Subject)
	require.Equal(t, "alice", got.Username)
	require.NotEmpty(t, got.ID)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer, keys := newSigner(t, "session-1")
	now := time.Now().UTC()

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("acc", "alice", "someone-else", time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(jwtx.NewSessionClaims("acc", "alice", testIssuer, time.Minute, now.Add(-time.Hour)))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
		require.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		other, _ := newSigner(t, "session-2")
		token, err := other.Sign(jwtx.NewSessionClaims("acc", "alice", testIssuer, time.Minute, now))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(keys, testIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrNoKey)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keys, testIssuer).Verify("not.a.jwt")
		require.Error(t, err)
	})
}

func TestNewSignerEdDSARejectsBadPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("kid", []byte("nope"))
	require.Error(t, err)
}
