package accountsdk_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/foodcodes/pkg/accountsdk"
	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestRegisterSendsFormAndDecodesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/accounts/register", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "alice", r.PostForm.Get("username"))
		require.Equal(t, "pw", r.PostForm.Get("password_confirm"))

		httpx.WriteJSON(w, http.StatusCreated, accountsdk.MessageResponse{Level: "info", Message: "ok"})
	}))
	defer srv.Close()

	msg, err := accountsdk.NewClient(srv.URL).Register(context.Background(), accountsdk.RegisterRequest{
		Username: "alice", Email: "a@example.com", Password: "pw", PasswordConfirm: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "ok", msg.Message)
}

func TestValidationErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountsdk.NewValidationError(map[string]string{"email": "already registered"}).WriteError(w)
	}))
	defer srv.Close()

	_, err := accountsdk.NewClient(srv.URL).Register(context.Background(), accountsdk.RegisterRequest{})

	var apiErr *accountsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, accountsdk.ErrorCodeInvalidRequest, apiErr.Code)
	require.Equal(t, "already registered", apiErr.Fields["email"])
}

func TestActivateMapsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
	}))
	defer srv.Close()

	_, err := accountsdk.NewClient(srv.URL).Activate(context.Background(), "uid", "token")
	require.ErrorIs(t, err, accountsdk.ErrActivationInvalid)
}

func TestNonJSONErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := accountsdk.NewClient(srv.URL).Livez(context.Background())

	var apiErr *accountsdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, accountsdk.ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
