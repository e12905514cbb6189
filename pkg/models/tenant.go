package models

import "time"

// Tenant is a company account registered on the portal.
type Tenant struct {
	ID                     ID         `json:"id"`
	Name                   string     `json:"name"`
	ContactEmail           string     `json:"contact_email"`
	NTN                    string     `json:"ntn"`
	AddressLine            string     `json:"address_line,omitempty"`
	City                   string     `json:"city,omitempty"`
	Province               string     `json:"province,omitempty"`
	FBRClientSecret        string     `json:"fbr_client_secret,omitempty"`
	FBRClientSecretSandbox string     `json:"fbr_client_secret_sandbox,omitempty"`
	IsActive               bool       `json:"is_active"`
	LastPaymentAt          *time.Time `json:"last_payment_at,omitempty"`
	CreatedAt              *time.Time `json:"created_at,omitempty"`
}

// Invitation is returned by POST /tenants/:id/invites.
type Invitation struct {
	ID       ID     `json:"id,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Token    string `json:"token,omitempty"`
	TenantID ID     `json:"tenant,omitempty"`
}
