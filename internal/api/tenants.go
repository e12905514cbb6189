package api

import (
	"context"
	"net/http"
	"time"

	"fbrportal/pkg/models"
)

// TenantPayload is the body for creating or updating a tenant. Empty optional
// fields are omitted so an update leaves them untouched.
type TenantPayload struct {
	Name                   string     `json:"name"`
	ContactEmail           string     `json:"contact_email"`
	NTN                    string     `json:"ntn,omitempty"`
	AddressLine            string     `json:"address_line,omitempty"`
	City                   string     `json:"city,omitempty"`
	Province               string     `json:"province,omitempty"`
	FBRClientSecret        string     `json:"fbr_client_secret,omitempty"`
	FBRClientSecretSandbox string     `json:"fbr_client_secret_sandbox,omitempty"`
	IsActive               *bool      `json:"is_active,omitempty"`
	LastPaymentAt          *time.Time `json:"last_payment_at,omitempty"`
}

// InvitePayload is the body of POST /tenants/:id/invites.
type InvitePayload struct {
	Email          string `json:"email"`
	Role           string `json:"role,omitempty"`
	ExpiresInHours int    `json:"expires_in_hours,omitempty"`
}

// AcceptInvitationPayload is the body of POST /tenants/invitations/accept.
type AcceptInvitationPayload struct {
	Token    string `json:"token"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password,omitempty"`
}

// MemberPayload is the body for creating or updating a tenant member. Role
// and IsActive are only sent on create; updates keep the stored values.
type MemberPayload struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// CreateTenant registers a tenant.
func (c *Client) CreateTenant(ctx context.Context, body TenantPayload) (*models.Tenant, error) {
	return sendJSON[*models.Tenant](ctx, c, http.MethodPost, "/tenants", body)
}

// ListTenants lists every tenant visible to the caller.
func (c *Client) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return getList[models.Tenant](ctx, c, Request{Path: "/tenants"})
}

// GetTenant fetches one tenant.
func (c *Client) GetTenant(ctx context.Context, id models.ID) (*models.Tenant, error) {
	return getJSON[*models.Tenant](ctx, c, "/tenants/"+id.String(), nil)
}

// UpdateTenant replaces a tenant's editable fields.
func (c *Client) UpdateTenant(ctx context.Context, id models.ID, body TenantPayload) (*models.Tenant, error) {
	return sendJSON[*models.Tenant](ctx, c, http.MethodPut, "/tenants/"+id.String(), body)
}

// DeleteTenant removes a tenant.
func (c *Client) DeleteTenant(ctx context.Context, id models.ID) error {
	_, err := c.Delete(ctx, "/tenants/"+id.String(), nil)
	return err
}

// InviteUser sends an invitation to join a tenant.
func (c *Client) InviteUser(ctx context.Context, tenantID models.ID, body InvitePayload) (*models.Invitation, error) {
	return sendJSON[*models.Invitation](ctx, c, http.MethodPost, "/tenants/"+tenantID.String()+"/invites", body)
}

// AcceptInvitation redeems an invitation token.
func (c *Client) AcceptInvitation(ctx context.Context, body AcceptInvitationPayload) error {
	_, err := c.Post(ctx, "/tenants/invitations/accept", body)
	return err
}

// ListMembers lists the users of a tenant.
func (c *Client) ListMembers(ctx context.Context, tenantID models.ID) ([]models.User, error) {
	return getList[models.User](ctx, c, Request{Path: "/tenants/" + tenantID.String() + "/users"})
}

// GetMember fetches one tenant member.
func (c *Client) GetMember(ctx context.Context, tenantID, userID models.ID) (*models.User, error) {
	return getJSON[*models.User](ctx, c, memberPath(tenantID, userID), nil)
}

// CreateMember adds a user to a tenant.
func (c *Client) CreateMember(ctx context.Context, tenantID models.ID, body MemberPayload) (*models.User, error) {
	return sendJSON[*models.User](ctx, c, http.MethodPost, "/tenants/"+tenantID.String()+"/users", body)
}

// UpdateMember updates a tenant member.
func (c *Client) UpdateMember(ctx context.Context, tenantID, userID models.ID, body MemberPayload) (*models.User, error) {
	return sendJSON[*models.User](ctx, c, http.MethodPut, memberPath(tenantID, userID), body)
}

// DeleteMember removes a user from a tenant.
func (c *Client) DeleteMember(ctx context.Context, tenantID, userID models.ID) error {
	_, err := c.Delete(ctx, memberPath(tenantID, userID), nil)
	return err
}

func memberPath(tenantID, userID models.ID) string {
	return "/tenants/" + tenantID.String() + "/users/" + userID.String()
}
