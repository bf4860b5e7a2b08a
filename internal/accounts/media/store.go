package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aussiebroadwan/foodcodes/pkg/idx"
)

var ErrNotFound = errors.New("media: object not found")

// Store keeps avatar objects by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// NewAvatarKey returns a fresh key under the account's prefix. Keys are never
// reused, so cached copies of an old avatar stay stale-safe.
func NewAvatarKey(accountID string) string {
	return path.Join("avatars", accountID, idx.New().String()+".png")
}

// ValidKey reports whether key has the shape NewAvatarKey produces.
func ValidKey(key string) bool {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != "avatars" {
		return false
	}
	if _, err := idx.Parse(parts[1]); err != nil {
		return false
	}
	name, ok := strings.CutSuffix(parts[2], ".png")
	if !ok {
		return false
	}
	_, err := idx.Parse(name)
	return err == nil
}
