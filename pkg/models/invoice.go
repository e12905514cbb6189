package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle label of an invoice.
type InvoiceStatus string

const (
	StatusCreated       InvoiceStatus = "CREATED"
	StatusValidated     InvoiceStatus = "VALIDATED"
	StatusPosting       InvoiceStatus = "POSTING"
	StatusPosted        InvoiceStatus = "POSTED"
	StatusPostingFailed InvoiceStatus = "POSTING_FAILED"
)

// InvoiceType is the FBR document type.
type InvoiceType string

const (
	SaleInvoice  InvoiceType = "Sale Invoice"
	DebitInvoice InvoiceType = "Debit Invoice"
)

type Invoice struct {
	// Core identifiers
	ID           ID            `json:"id"`
	FBRInvoiceNo string        `json:"fbr_invoice_no,omitempty"` // assigned by FBR after posting
	USINNo       string        `json:"usin_no,omitempty"`
	InvType      InvoiceType   `json:"inv_type"`
	PayMode      string        `json:"pay_mode,omitempty"`
	InvoiceDate  string        `json:"invoice_date"` // YYYY-MM-DD
	Status       InvoiceStatus `json:"invoice_status"`

	// Parties
	Customer     ID        `json:"invoice_customer,omitempty"` // seller tenant
	CustomerName string    `json:"customer_name,omitempty"`
	Scenario     ID        `json:"invoice_scenario,omitempty"`
	Buyer        *BuyerRef `json:"buyer,omitempty"`
	BuyerID      ID        `json:"buyer_id,omitempty"`
	BuyerName    string    `json:"buyer_name,omitempty"`

	// Buyer snapshot captured when the invoice was written
	DescriptionBuyer  string `json:"description_buyer,omitempty"`
	CNICBuyer         string `json:"cnic_buyer,omitempty"`
	ProvinceBuyer     string `json:"province_buyer,omitempty"`
	AddressBuyer      string `json:"address_buyer,omitempty"`
	IsRegisteredBuyer *bool  `json:"is_registered_buyer,omitempty"`

	DescriptionSeller      string `json:"description_seller,omitempty"`
	CashierName            string `json:"cashier_name,omitempty"`
	Notes                  string `json:"notes,omitempty"`
	InvoiceReferenceNumber string `json:"invoice_reference_number,omitempty"`
	InvoiceFileURL         string `json:"invoice_fileurl,omitempty"`

	// InvoiceAmount is the stored grand total, present on list feeds.
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`

	Items     []InvoiceItem `json:"items,omitempty"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// InvoiceItem is a stored invoice line as returned by the backend.
type InvoiceItem struct {
	Product                         ID              `json:"product"`
	ProductCode                     string          `json:"product_code,omitempty"`
	ProductName                     string          `json:"product_name,omitempty"`
	HSCode                          string          `json:"hs_code,omitempty"`
	HSDescription                   string          `json:"hs_description,omitempty"`
	SROSerNo                        ID              `json:"sro_ser_no,omitempty"`
	SRODescription                  string          `json:"sro_description,omitempty"`
	UOMDescription                  string          `json:"uom_description,omitempty"`
	TransactionType                 string          `json:"transaction_type,omitempty"`
	Quantity                        decimal.Decimal `json:"quantity"`
	Rate                            decimal.Decimal `json:"rate"`
	Discount                        decimal.Decimal `json:"discount"`
	TaxPercentage                   decimal.Decimal `json:"tax_percentage"`
	ExtraTax                        decimal.Decimal `json:"extra_tax"`
	FurtherTax                      decimal.Decimal `json:"further_tax"`
	FEDPayable                      decimal.Decimal `json:"fed_payable"`
	SalesTaxWithheldAtSource        decimal.Decimal `json:"sales_tax_withheld_at_source"`
	IsFixedNotifiedRetailPrice      bool            `json:"is_fixed_notifed_retail_price"`
	FixedNotifiedValueOrRetailPrice decimal.Decimal `json:"fixed_notified_value_or_retail_price"`
	ProductNotes                    string          `json:"product_notes,omitempty"`
}

// Scenario is an entry of /invoices/scenarios.
type Scenario struct {
	ID          ID     `json:"id"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// BuyerRef is the buyer as embedded in an invoice response. The backend sends
// either the bare buyer id or the expanded buyer object.
type BuyerRef struct {
	ID           ID     `json:"id"`
	BusinessName string `json:"business_name,omitempty"`
	Name         string `json:"name,omitempty"`
	NTNCNIC      string `json:"ntn_cnic,omitempty"`
	Province     string `json:"province,omitempty"`
	Address      string `json:"address,omitempty"`
}

// UnmarshalJSON accepts an id scalar or a buyer object.
func (b *BuyerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain BuyerRef
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*b = BuyerRef(p)
		return nil
	}
	*b = BuyerRef{}
	return b.ID.UnmarshalJSON(data)
}

// BuyerIdentity resolves the buyer id and display name from whichever of the
// expanded object, the flat id and the stored snapshot is present.
func (inv *Invoice) BuyerIdentity() (ID, string) {
	id := inv.BuyerID
	name := inv.BuyerName
	if inv.Buyer != nil {
		if !inv.Buyer.ID.IsZero() {
			id = inv.Buyer.ID
		}
		if inv.Buyer.BusinessName != "" {
			name = inv.Buyer.BusinessName
		} else if inv.Buyer.Name != "" && name == "" {
			name = inv.Buyer.Name
		}
	}
	if name == "" {
		name = inv.DescriptionBuyer
	}
	return id, name
}

// EffectiveStatus treats a missing status as CREATED.
func (inv *Invoice) EffectiveStatus() InvoiceStatus {
	if inv.Status == "" {
		return StatusCreated
	}
	return inv.Status
}
