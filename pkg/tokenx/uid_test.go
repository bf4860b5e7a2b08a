package tokenx_test

import (
	"testing"

	"github.com/aussiebroadwan/foodcodes/pkg/idx"
	"github.com/aussiebroadwan/foodcodes/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

func TestUIDRoundTrip(t *testing.T) {
	ids := []string{
		idx.New().String(),
		"1",
		"42",
		"ünïcode-id",
		"a/b+c=d",
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			encoded := tokenx.EncodeUID(id)
			require.NotContains(t, encoded, "=")
			require.NotContains(t, encoded, "+")
			require.NotContains(t, encoded, "/")

			decoded, err := tokenx.DecodeUID(encoded)
			require.NoError(t, err)
			require.Equal(t, id, decoded)
		})
	}
}

func TestDecodeUIDRejectsMalformed(t *testing.T) {
	valid := tokenx.EncodeUID("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"padding", tokenx.EncodeUID("1") + "=="},
		{"std alphabet plus", "ab+c"},
		{"std alphabet slash", "ab/c"},
		{"invalid character", valid[:4] + "*" + valid[5:]},
		{"embedded newline", valid[:4] + "\n" + valid[4:]},
		{"impossible length", "A"},
		{"non-canonical trailing bits", "MR"},
		{"not utf8", tokenx.EncodeUID(string([]byte{0xff, 0xfe}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := tokenx.DecodeUID(tt.input)
				require.ErrorIs(t, err, tokenx.ErrDecode)
			})
		})
	}
}
