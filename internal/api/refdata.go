package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"fbrportal/pkg/models"
)

// LookupTimeout bounds the reference-data calls that are relayed to the slow
// upstream tax-authority API.
const LookupTimeout = 45 * time.Second

// Record is a reference-data row as sent by the upstream source. Key casing
// is inconsistent, so rows stay untyped until the catalog normalizer reads
// them.
type Record = map[string]interface{}

// HSCodes lists harmonized system codes.
func (c *Client) HSCodes(ctx context.Context) ([]models.HSCode, error) {
	return getList[models.HSCode](ctx, c, Request{Path: "/hs_codes"})
}

// HSCode fetches a single HS code with its description.
func (c *Client) HSCode(ctx context.Context, code string) (*models.HSCode, error) {
	return getJSON[*models.HSCode](ctx, c, "/hs_codes/"+url.PathEscape(code), nil)
}

// HSUOM fetches the units of measure applicable to an HS code.
func (c *Client) HSUOM(ctx context.Context, hsCode string, annexureID int) ([]Record, error) {
	return getList[Record](ctx, c, Request{
		Path:    "/hs_uom",
		Query:   url.Values{"hs_code": {hsCode}, "annexure_id": {strconv.Itoa(annexureID)}},
		Timeout: LookupTimeout,
	})
}

// Provinces lists provinces.
func (c *Client) Provinces(ctx context.Context) ([]models.Province, error) {
	return getList[models.Province](ctx, c, Request{Path: "/provinces"})
}

// TransactionTypes lists FBR transaction types.
func (c *Client) TransactionTypes(ctx context.Context) ([]models.TransactionType, error) {
	return getList[models.TransactionType](ctx, c, Request{Path: "/transaction_types"})
}

// Rates lists the sales-tax rates applicable to a transaction type on date
// (formatted 02-Jan-2006).
func (c *Client) Rates(ctx context.Context, date string, transTypeID models.ID) ([]Record, error) {
	return getList[Record](ctx, c, Request{
		Path:    "/rate",
		Query:   url.Values{"date": {date}, "transTypeId": {transTypeID.String()}},
		Timeout: LookupTimeout,
	})
}

// SROs lists statutory regulatory orders for a rate on date (02-Jan-2006).
func (c *Client) SROs(ctx context.Context, date string, rateID models.ID) ([]Record, error) {
	return getList[Record](ctx, c, Request{
		Path:    "/sro",
		Query:   url.Values{"date": {date}, "rate_id": {rateID.String()}},
		Timeout: LookupTimeout,
	})
}

// SROItems lists the items of an SRO on date (2006-01-02).
func (c *Client) SROItems(ctx context.Context, date string, sroID models.ID) ([]Record, error) {
	return getList[Record](ctx, c, Request{
		Path:    "/sro_item",
		Query:   url.Values{"date": {date}, "sro_id": {sroID.String()}},
		Timeout: LookupTimeout,
	})
}
