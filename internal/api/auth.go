package api

import (
	"context"
	"net/http"

	"fbrportal/pkg/models"
)

// Credentials is the body of POST /authn/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPVerification is the body of POST /authn/login/verify.
type OTPVerification struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// PasswordResetRequest is the body of POST /authn/password/reset/request.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm is the body of POST /authn/password/reset/confirm.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Login submits email/password. The response either carries a token or asks
// for a one-time passcode.
func (c *Client) Login(ctx context.Context, creds Credentials) (*models.LoginResponse, error) {
	return sendJSON[*models.LoginResponse](ctx, c, http.MethodPost, "/authn/login", creds)
}

// LoginVerify exchanges a one-time passcode for a token.
func (c *Client) LoginVerify(ctx context.Context, body OTPVerification) (*models.TokenResponse, error) {
	return sendJSON[*models.TokenResponse](ctx, c, http.MethodPost, "/authn/login/verify", body)
}

// RequestPasswordReset starts the password reset flow.
func (c *Client) RequestPasswordReset(ctx context.Context, body PasswordResetRequest) error {
	_, err := c.Post(ctx, "/authn/password/reset/request", body)
	return err
}

// ConfirmPasswordReset completes the password reset flow.
func (c *Client) ConfirmPasswordReset(ctx context.Context, body PasswordResetConfirm) error {
	_, err := c.Post(ctx, "/authn/password/reset/confirm", body)
	return err
}
