package accountsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeTooLarge           = "payload_too_large"
	ErrorCodeUnsupportedMedia   = "unsupported_media_type"
	ErrorCodeMailDelivery       = "mail_delivery_failed"
	ErrorCodeServerError        = "server_error"
)

// ErrActivationInvalid is returned by Client.Activate for any rejected link.
var ErrActivationInvalid = errors.New("accountsdk: activation link invalid or already used")

// APIError is the JSON error body written by the service.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string            `json:"error"`
	Description string            `json:"error_description,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Code, e.Description, e.Fields)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as a no-store JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidFormBody = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "invalid form body",
	}

	// ErrInvalidCredentials covers unknown users, wrong passwords and
	// accounts that were never activated.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "a valid session is required",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrAvatarTooLarge = &APIError{
		StatusCode:  http.StatusRequestEntityTooLarge,
		Code:        ErrorCodeTooLarge,
		Description: "avatar exceeds the size limit",
	}

	ErrAvatarFormat = &APIError{
		StatusCode:  http.StatusUnsupportedMediaType,
		Code:        ErrorCodeUnsupportedMedia,
		Description: "avatar must be a JPEG, PNG, GIF or WebP image",
	}

	// ErrMailDelivery means the account exists but its activation email
	// could not be sent. The client may ask for it again.
	ErrMailDelivery = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeMailDelivery,
		Description: "account created but the confirmation email could not be sent, request a new one",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewValidationError returns a 400 carrying per-field messages.
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "one or more fields are invalid",
		Fields:      fields,
	}
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
