package api

import (
	"context"
	"net/http"
	"net/url"

	"fbrportal/pkg/models"
)

// InvoiceItemPayload is one line of an invoice create/update body.
type InvoiceItemPayload struct {
	Product                         models.ID `json:"product"`
	HSDescription                   *string   `json:"hs_description"`
	Quantity                        float64   `json:"quantity"`
	IsFixedNotifiedRetailPrice      bool      `json:"is_fixed_notifed_retail_price"`
	Rate                            float64   `json:"rate"`
	Amount                          float64   `json:"amount"`
	Discount                        float64   `json:"discount"`
	DiscountAmount                  float64   `json:"discount_amount"`
	TaxPercentage                   float64   `json:"tax_percentage"`
	SalesTaxAmount                  float64   `json:"sales_tax_amt"`
	ValueInclSalesTax               float64   `json:"val_incl_sales_tax"`
	FixedNotifiedValueOrRetailPrice float64   `json:"fixed_notified_value_or_retail_price"`
	SalesTaxWithheldAtSource        float64   `json:"sales_tax_withheld_at_source"`
	ExtraTax                        float64   `json:"extra_tax"`
	FurtherTax                      float64   `json:"further_tax"`
	FEDPayable                      float64   `json:"fed_payable"`
	ProductNotes                    *string   `json:"product_notes"`
}

// InvoicePayload is the body of POST /invoices and PATCH /invoices/:id.
// Nullable fields are pointers so that cleared values are sent as null.
type InvoicePayload struct {
	InvoiceStatus          models.InvoiceStatus `json:"invoice_status,omitempty"`
	InvoiceCustomer        models.ID            `json:"invoice_customer"`
	Buyer                  *models.ID           `json:"buyer"`
	InvoiceScenario        *models.ID           `json:"invoice_scenario"`
	FBRInvoiceNo           *string              `json:"fbr_invoice_no"`
	InvType                *string              `json:"inv_type"`
	InvoiceReferenceNumber *string              `json:"invoice_reference_number"`
	PayMode                *string              `json:"pay_mode"`
	CashierName            *string              `json:"cashier_name"`
	Notes                  *string              `json:"notes"`
	IsRegisteredBuyer      *bool                `json:"is_registered_buyer"`
	CNICBuyer              *string              `json:"cnic_buyer"`
	ProvinceBuyer          *string              `json:"province_buyer"`
	AddressBuyer           *string              `json:"address_buyer"`
	DescriptionBuyer       *string              `json:"description_buyer"`
	DescriptionSeller      *string              `json:"description_seller"`
	InvoiceFilename        *string              `json:"invoice_filename"`
	InvoiceFileURL         *string              `json:"invoice_fileurl"`
	InvoiceDate            *string              `json:"invoice_date"`
	Items                  []InvoiceItemPayload `json:"items"`
}

// StatusPatch updates only the status of an invoice.
type StatusPatch struct {
	InvoiceStatus models.InvoiceStatus `json:"invoice_status"`
}

// FBRResponse is the envelope returned by /invoices/:id/validate and
// /invoices/:id/post.
type FBRResponse struct {
	OK           bool                   `json:"ok"`
	FBRInvoiceNo string                 `json:"fbr_invoice_no,omitempty"`
	Result       *FBRResult             `json:"result,omitempty"`
	Debug        map[string]interface{} `json:"debug,omitempty"`
}

// FBRResult is the upstream tax-authority payload relayed by the backend.
type FBRResult struct {
	ValidationResponse *ValidationResponse `json:"validationResponse,omitempty"`
	Error              string              `json:"error,omitempty"`
	Message            string              `json:"message,omitempty"`
	Detail             string              `json:"detail,omitempty"`
}

// ValidationResponse is the FBR verdict on an invoice.
type ValidationResponse struct {
	StatusCode      string       `json:"statusCode,omitempty"`
	Status          string       `json:"status,omitempty"`
	Error           string       `json:"error,omitempty"`
	InvoiceStatuses []ItemStatus `json:"invoiceStatuses,omitempty"`
}

// ItemStatus is the FBR verdict on a single line.
type ItemStatus struct {
	ItemSNo    models.ID `json:"itemSNo"`
	StatusCode string    `json:"statusCode,omitempty"`
	Status     string    `json:"status,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ListInvoices lists invoices.
func (c *Client) ListInvoices(ctx context.Context, query url.Values) ([]models.Invoice, error) {
	return getList[models.Invoice](ctx, c, Request{Path: "/invoices", Query: query})
}

// ListInvoicesExpanded is the dashboard feed. Cancel ctx to abandon a
// superseded fetch.
func (c *Client) ListInvoicesExpanded(ctx context.Context, query url.Values) ([]models.Invoice, error) {
	return getList[models.Invoice](ctx, c, Request{Path: "/invoices/expanded", Query: query})
}

// GetInvoice fetches one invoice with its items.
func (c *Client) GetInvoice(ctx context.Context, id models.ID) (*models.Invoice, error) {
	return getJSON[*models.Invoice](ctx, c, "/invoices/"+id.String(), nil)
}

// CreateInvoice stores a new invoice.
func (c *Client) CreateInvoice(ctx context.Context, body InvoicePayload) (*models.Invoice, error) {
	return sendJSON[*models.Invoice](ctx, c, http.MethodPost, "/invoices", body)
}

// UpdateInvoice patches an invoice. body is usually an InvoicePayload or a
// StatusPatch.
func (c *Client) UpdateInvoice(ctx context.Context, id models.ID, body interface{}) (*models.Invoice, error) {
	return sendJSON[*models.Invoice](ctx, c, http.MethodPatch, "/invoices/"+id.String(), body)
}

// DeleteInvoice hard-deletes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id models.ID) error {
	_, err := c.Delete(ctx, "/invoices/"+id.String(), nil)
	return err
}

// ListScenarios lists FBR sale scenarios.
func (c *Client) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	return getList[models.Scenario](ctx, c, Request{Path: "/invoices/scenarios"})
}

// ValidateInvoice asks the backend to validate an invoice with FBR.
func (c *Client) ValidateInvoice(ctx context.Context, id models.ID) (*FBRResponse, error) {
	return sendJSON[*FBRResponse](ctx, c, http.MethodPost, "/invoices/"+id.String()+"/validate", struct{}{})
}

// PostInvoice submits an invoice to FBR.
func (c *Client) PostInvoice(ctx context.Context, id models.ID) (*FBRResponse, error) {
	return sendJSON[*FBRResponse](ctx, c, http.MethodPost, "/invoices/"+id.String()+"/post", struct{}{})
}
