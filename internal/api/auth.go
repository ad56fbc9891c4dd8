package api

import (
	"context"
	"net/http"

	"dermalink/mobile/internal/models"
)

// AuthResponse is what the backend hands out on login and QR exchange:
// a bearer token, the user record, and the role as a separate legacy field.
// The role inside User is authoritative; Type must agree or be ignored.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
	Type  string      `json:"type"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/sessions", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

// ExchangeQR trades a scanned QR code for a full session, same shape as a
// password login.
func (c *Client) ExchangeQR(ctx context.Context, code string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/sessions/qr", "", map[string]string{
		"code": code,
	}, &out)
	return out, err
}

// Verify asks the backend whether the stored token is still good. On success
// the returned user carries the role in its "type" field.
func (c *Client) Verify(ctx context.Context, token string) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, "/api/mobile/verify", token, nil, &out)
	return out, err
}

// SignOut invalidates the token server-side. Best effort: local logout never
// waits on a flaky backend, so callers ignore transport failures here.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/sign_out", token, nil, nil)
}

type RegisterInput struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Location  string `json:"location"`
	Role      string `json:"type"`
}

func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/api/mobile/registrations", "", input, nil)
}

func (c *Client) ConfirmEmail(ctx context.Context, email, code string) error {
	return c.do(ctx, http.MethodPost, "/api/mobile/registrations/confirm_email", "", map[string]string{
		"email":             email,
		"confirmation_code": code,
	}, nil)
}
