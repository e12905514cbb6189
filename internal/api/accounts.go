package api

import (
	"context"
	"net/http"

	"fbrportal/pkg/models"
)

// ProfileUpdate is the body of PUT /accounts/me.
type ProfileUpdate struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// AdminPayload is the body for creating or updating a platform admin.
type AdminPayload struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Scope    string `json:"scope,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	return getJSON[*models.User](ctx, c, "/accounts/me", nil)
}

// UpdateMe updates the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, body ProfileUpdate) (*models.User, error) {
	return sendJSON[*models.User](ctx, c, http.MethodPut, "/accounts/me", body)
}

// ListAdmins lists platform administrators.
func (c *Client) ListAdmins(ctx context.Context) ([]models.User, error) {
	return getList[models.User](ctx, c, Request{Path: "/accounts/admins"})
}

// GetAdmin fetches one platform administrator.
func (c *Client) GetAdmin(ctx context.Context, id models.ID) (*models.User, error) {
	return getJSON[*models.User](ctx, c, "/accounts/admins/"+id.String(), nil)
}

// CreateAdmin creates a platform administrator.
func (c *Client) CreateAdmin(ctx context.Context, body AdminPayload) (*models.User, error) {
	return sendJSON[*models.User](ctx, c, http.MethodPost, "/accounts/admins", body)
}

// UpdateAdmin updates a platform administrator.
func (c *Client) UpdateAdmin(ctx context.Context, id models.ID, body AdminPayload) (*models.User, error) {
	return sendJSON[*models.User](ctx, c, http.MethodPut, "/accounts/admins/"+id.String(), body)
}

// DeleteAdmin removes a platform administrator.
func (c *Client) DeleteAdmin(ctx context.Context, id models.ID) error {
	_, err := c.Delete(ctx, "/accounts/admins/"+id.String(), nil)
	return err
}
