package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry carrying the tax classification that invoice
// lines inherit.
type Product struct {
	ID                 ID              `json:"id"`
	ProductCode        string          `json:"product_code,omitempty"`
	ProductName        string          `json:"product_name"`
	TransactionType    string          `json:"transaction_type"`
	TransactionTypeID  ID              `json:"transaction_type_id,omitempty"`
	RateID             ID              `json:"rate_id,omitempty"`
	RateDescription    string          `json:"rate_description,omitempty"`
	RateValue          decimal.Decimal `json:"rate_value"`
	SROID              ID              `json:"sro_id,omitempty"`
	SROSerNo           ID              `json:"sro_ser_no,omitempty"`
	SRODescription     string          `json:"sro_description,omitempty"`
	SROItemDescription string          `json:"sro_item_description,omitempty"`
	HSCode             string          `json:"hs_code"`
	HSDescription      string          `json:"hs_description,omitempty"`
	UOMID              ID              `json:"uom_id,omitempty"`
	UOMDescription     string          `json:"uom_description,omitempty"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          *time.Time      `json:"created_at,omitempty"`
}

// TransactionType is an entry of /transaction_types.
type TransactionType struct {
	ID          ID     `json:"transaction_id"`
	Description string `json:"transaction_desc"`
}

// Province is an entry of /provinces.
type Province struct {
	Code        ID     `json:"province_code,omitempty"`
	Description string `json:"province_desc"`
}

// HSCode is an entry of /hs_codes.
type HSCode struct {
	Code        string `json:"hs_code"`
	Description string `json:"hs_desc"`
}
