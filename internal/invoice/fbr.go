package invoice

import (
	"fmt"

	"fbrportal/internal/api"
)

const (
	validStatusCode = "00"
	validStatus     = "Valid"

	validationFailedFallback = "Validation failed"
	invalidInvoiceFallback   = "Invoice validation failed"
	postFailedFallback       = "Failed to post invoice to FBR"
)

// ValidationOutcome is the interpreted result of /invoices/:id/validate.
type ValidationOutcome struct {
	Valid    bool
	Messages []string
	Response *api.FBRResponse
}

// Err returns nil for a valid outcome and an *FBRError otherwise.
func (o ValidationOutcome) Err() error {
	if o.Valid {
		return nil
	}
	return &FBRError{Kind: ErrValidationRejected, Messages: o.Messages}
}

// ParseValidation interprets a validation response. The invoice is valid when
// the backend call succeeded and FBR answered status code "00" or status
// "Valid". Otherwise the invoice-level error and every per-item error are
// collected.
func ParseValidation(resp *api.FBRResponse) ValidationOutcome {
	out := ValidationOutcome{Response: resp}
	if resp == nil {
		out.Messages = []string{validationFailedFallback}
		return out
	}

	if !resp.OK {
		msg := validationFailedFallback
		if resp.Result != nil && resp.Result.Message != "" {
			msg = resp.Result.Message
		}
		out.Messages = []string{msg}
		return out
	}

	var vr *api.ValidationResponse
	if resp.Result != nil {
		vr = resp.Result.ValidationResponse
	}
	if vr != nil && (vr.StatusCode == validStatusCode || vr.Status == validStatus) {
		out.Valid = true
		return out
	}

	if vr != nil {
		if vr.Error != "" {
			out.Messages = append(out.Messages, vr.Error)
		}
		for _, item := range vr.InvoiceStatuses {
			if item.Error != "" {
				out.Messages = append(out.Messages, fmt.Sprintf("Item %s: %s", item.ItemSNo, item.Error))
			}
		}
	}
	if len(out.Messages) == 0 {
		out.Messages = []string{invalidInvoiceFallback}
	}
	return out
}

// PostOutcome is the interpreted result of /invoices/:id/post.
type PostOutcome struct {
	Posted       bool
	FBRInvoiceNo string
	Messages     []string
	Response     *api.FBRResponse
}

// Err returns nil for a successful post and an *FBRError otherwise.
func (o PostOutcome) Err() error {
	if o.Posted {
		return nil
	}
	return &FBRError{Kind: ErrPostRejected, Messages: o.Messages}
}

// ParsePost interprets a post response. A post succeeded only when the call
// was ok and FBR assigned an invoice number.
func ParsePost(resp *api.FBRResponse) PostOutcome {
	out := PostOutcome{Response: resp}
	if resp != nil && resp.OK && resp.FBRInvoiceNo != "" {
		out.Posted = true
		out.FBRInvoiceNo = resp.FBRInvoiceNo
		return out
	}

	if resp != nil && resp.Result != nil {
		for _, msg := range []string{resp.Result.Error, resp.Result.Message, resp.Result.Detail} {
			if msg != "" {
				out.Messages = append(out.Messages, msg)
			}
		}
	}
	if len(out.Messages) == 0 {
		out.Messages = []string{postFailedFallback}
	}
	return out
}

// failedPost builds the outcome of a post request that never produced an FBR
// response.
func failedPost(err error) PostOutcome {
	msg := postFailedFallback
	if detail := api.ErrorDetail(err); detail != "" {
		msg = detail
	}
	return PostOutcome{Messages: []string{msg}}
}
