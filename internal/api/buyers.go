package api

import (
	"context"
	"net/http"
	"net/url"

	"fbrportal/pkg/models"
)

// BuyerPayload is the body for creating or updating a buyer. Tenant is nil for
// tenant users; the backend assigns their own tenant.
type BuyerPayload struct {
	BusinessName     string     `json:"business_name"`
	NTNCNIC          *string    `json:"ntn_cnic"`
	Province         *string    `json:"province"`
	Address          *string    `json:"address"`
	RegistrationType *string    `json:"registration_type"`
	Tenant           *models.ID `json:"tenant"`
}

// ListBuyers lists buyers. A non-empty tenantID restricts the list to that
// tenant.
func (c *Client) ListBuyers(ctx context.Context, tenantID models.ID) ([]models.Buyer, error) {
	var query url.Values
	if !tenantID.IsZero() {
		query = url.Values{"tenant_id": {tenantID.String()}}
	}
	return getList[models.Buyer](ctx, c, Request{Path: "/invoices/buyers", Query: query})
}

// GetBuyer fetches one buyer.
func (c *Client) GetBuyer(ctx context.Context, id models.ID) (*models.Buyer, error) {
	return getJSON[*models.Buyer](ctx, c, "/invoices/buyers/"+id.String(), nil)
}

// CreateBuyer adds a buyer.
func (c *Client) CreateBuyer(ctx context.Context, body BuyerPayload) (*models.Buyer, error) {
	return sendJSON[*models.Buyer](ctx, c, http.MethodPost, "/invoices/buyers", body)
}

// UpdateBuyer patches a buyer.
func (c *Client) UpdateBuyer(ctx context.Context, id models.ID, body BuyerPayload) (*models.Buyer, error) {
	return sendJSON[*models.Buyer](ctx, c, http.MethodPatch, "/invoices/buyers/"+id.String(), body)
}

// DeleteBuyer removes a buyer.
func (c *Client) DeleteBuyer(ctx context.Context, id models.ID) error {
	_, err := c.Delete(ctx, "/invoices/buyers/"+id.String(), nil)
	return err
}
