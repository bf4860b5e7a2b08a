package tokenx

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrDecode reports an encoded identifier that is not canonical unpadded
// base64url. It carries no information about whether the identifier exists.
var ErrDecode = errors.New("tokenx: malformed encoded identifier")

var uidEncoding = base64.RawURLEncoding.Strict()

// EncodeUID turns an account identifier into the URL-safe form embedded in
// activation links. The encoding is not secret.
func EncodeUID(id string) string {
	return uidEncoding.EncodeToString([]byte(id))
}

// DecodeUID reverses EncodeUID. Padding, characters outside the base64url
// alphabet (including line breaks, which the stdlib decoder would skip),
// non-zero trailing bits and non UTF-8 payloads are all ErrDecode.
func DecodeUID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrDecode)
	}
	for i := 0; i < len(s); i++ {
		if !isURLAlphabet(s[i]) {
			return "", fmt.Errorf("%w: invalid character at offset %d", ErrDecode, i)
		}
	}

	raw, err := uidEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(raw) == 0 || !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: invalid payload", ErrDecode)
	}

	return string(raw), nil
}

func isURLAlphabet(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
