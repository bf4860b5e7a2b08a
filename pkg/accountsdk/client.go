package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the public endpoints of the accounts service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			// Outcome redirects are for browsers; the client asks for JSON.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

// Register submits the registration form.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	form := url.Values{
		"username":         {req.Username},
		"email":            {req.Email},
		"password":         {req.Password},
		"password_confirm": {req.PasswordConfirm},
	}
	resp, err := c.postForm(ctx, "/v1/accounts/register", form)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusCreated); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Activate follows an activation link.
func (c *Client) Activate(ctx context.Context, uidb64, token string) (*MessageResponse, error) {
	path := "/v1/accounts/activate/" + url.PathEscape(uidb64) + "/" + url.PathEscape(token)
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusBadRequest {
			return nil, ErrActivationInvalid
		}
		return nil, err
	}
	return &msg, nil
}

// ResendActivation asks for a fresh activation email. The reply is the same
// whether or not the address belongs to a pending account.
func (c *Client) ResendActivation(ctx context.Context, email string) (*MessageResponse, error) {
	resp, err := c.postForm(ctx, "/v1/accounts/activation/resend", url.Values{"email": {email}})
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := c.postForm(ctx, "/v1/sessions", form)
	if err != nil {
		return nil, err
	}

	var lr LoginResponse
	if err := decodeJSON(resp, &lr, http.StatusOK); err != nil {
		return nil, err
	}
	return &Session{client: c, token: lr.AccessToken}, nil
}

func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// Session is an authenticated client holding a bearer token.
type Session struct {
	client *Client
	token  string
}

func (s *Session) Token() string { return s.token }

func (s *Session) Profile(ctx context.Context) (*ProfileResponse, error) {
	resp, err := s.client.do(ctx, http.MethodGet, "/v1/profile", nil, s.authHeaders())
	if err != nil {
		return nil, err
	}

	var p ProfileResponse
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile submits the profile form as multipart, attaching the avatar
// when one is set.
func (s *Session) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*MessageResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("username", upd.Username)
	_ = mw.WriteField("email", upd.Email)
	_ = mw.WriteField("bio", upd.Bio)
	if len(upd.Avatar) > 0 {
		name := upd.AvatarName
		if name == "" {
			name = "avatar"
		}
		fw, err := mw.CreateFormFile("avatar", name)
		if err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
		if _, err := fw.Write(upd.Avatar); err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	headers := s.authHeaders()
	headers["Content-Type"] = mw.FormDataContentType()
	resp, err := s.client.do(ctx, http.MethodPost, "/v1/profile", &body, headers)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.do(ctx, http.MethodPost, "/v1/sessions/logout", nil, s.authHeaders())
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + s.token}
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), headers)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}
