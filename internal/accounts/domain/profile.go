package domain

import "time"

type Profile struct {
	AccountID      string
	EmailConfirmed bool
	Bio            string // markdown source
	AvatarKey      string // empty when unset
	UpdatedAt      time.Time
}
