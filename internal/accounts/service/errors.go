package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrMailDelivery wraps a transport failure while sending an email. The
	// account that triggered it has already been stored.
	ErrMailDelivery = errors.New("mail delivery failed")

	// ErrInvalidCredentials covers unknown usernames, wrong passwords and
	// accounts that were never activated.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAccountNotFound = errors.New("account not found")
	ErrAvatarTooLarge  = errors.New("avatar too large")
	ErrAvatarFormat    = errors.New("unsupported avatar format")
)

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }
