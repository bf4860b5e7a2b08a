package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/foodcodes/internal/accounts/service"
	"github.com/aussiebroadwan/foodcodes/pkg/accountsdk"
	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
)

// writeServiceError maps service errors onto API errors. Anything
// unrecognised is logged and reported as a bare server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		accountsdk.NewValidationError(verr.Fields).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		accountsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrAccountNotFound):
		accountsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrAvatarTooLarge):
		accountsdk.ErrAvatarTooLarge.WriteError(w)
	case errors.Is(err, service.ErrAvatarFormat):
		accountsdk.ErrAvatarFormat.WriteError(w)
	case errors.Is(err, service.ErrMailDelivery):
		accountsdk.ErrMailDelivery.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
	}
}
