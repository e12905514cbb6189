package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"fbrportal/pkg/models"
)

// ProductPayload is the body for creating or updating a product. The product
// code is generated by the backend. Numeric references are sent as numbers,
// zero when unset.
type ProductPayload struct {
	ProductName        string  `json:"product_name"`
	TransactionTypeID  int64   `json:"transaction_type_id,omitempty"`
	TransactionType    string  `json:"transaction_type"`
	RateID             int64   `json:"rate_id"`
	RateDescription    string  `json:"rate_description"`
	RateValue          float64 `json:"rate_value"`
	SROID              int64   `json:"sro_id"`
	SROSerNo           int64   `json:"sro_ser_no"`
	SRODescription     string  `json:"sro_description"`
	SROItemDescription string  `json:"sro_item_description"`
	HSCode             string  `json:"hs_code"`
	HSDescription      string  `json:"hs_description"`
	UOMID              int64   `json:"uom_id"`
	UOMDescription     string  `json:"uom_description"`
	IsActive           bool    `json:"is_active"`
}

// ListProducts lists the whole catalog.
func (c *Client) ListProducts(ctx context.Context, query url.Values) ([]models.Product, error) {
	return getList[models.Product](ctx, c, Request{Path: "/products/all", Query: query})
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id models.ID) (*models.Product, error) {
	return getJSON[*models.Product](ctx, c, "/products/"+id.String(), nil)
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, body ProductPayload) (*models.Product, error) {
	return sendJSON[*models.Product](ctx, c, http.MethodPost, "/products", body)
}

// UpdateProduct replaces a product.
func (c *Client) UpdateProduct(ctx context.Context, id models.ID, body ProductPayload) (*models.Product, error) {
	return sendJSON[*models.Product](ctx, c, http.MethodPut, "/products/"+id.String(), body)
}

// DeleteProduct removes a product. The backend soft-deletes unless hard is set.
func (c *Client) DeleteProduct(ctx context.Context, id models.ID, hard bool) error {
	_, err := c.Delete(ctx, "/products/"+id.String(), url.Values{"hard_delete": {strconv.FormatBool(hard)}})
	return err
}
