package invoice

import "fbrportal/pkg/models"

// CanValidate reports whether the validate action is available. Only freshly
// created invoices are sent for validation.
func CanValidate(inv *models.Invoice) bool {
	return inv.EffectiveStatus() == models.StatusCreated
}

// CanPost reports whether the post action is available. Only validated
// invoices may be posted.
func CanPost(inv *models.Invoice) bool {
	return inv.EffectiveStatus() == models.StatusValidated
}

// IsEditable reports whether lines and most header fields may change. New
// invoices (nil) are always editable.
func IsEditable(inv *models.Invoice) bool {
	if inv == nil {
		return true
	}
	switch inv.EffectiveStatus() {
	case models.StatusCreated, models.StatusValidated:
		return true
	}
	return false
}

// withStatus returns a copy of inv carrying status. Items are copied so the
// snapshot shares nothing mutable with its source.
func withStatus(inv *models.Invoice, status models.InvoiceStatus) *models.Invoice {
	next := *inv
	if inv.Items != nil {
		next.Items = append([]models.InvoiceItem(nil), inv.Items...)
	}
	next.Status = status
	return &next
}

// ApplyValidation returns the snapshot after a validation outcome. A valid
// outcome moves the invoice to VALIDATED; a rejection leaves the status
// unchanged. Validation never reaches POSTED.
func ApplyValidation(inv *models.Invoice, out ValidationOutcome) *models.Invoice {
	if !out.Valid {
		return withStatus(inv, inv.EffectiveStatus())
	}
	return withStatus(inv, models.StatusValidated)
}

// BeginPosting returns the optimistic POSTING snapshot shown while the post
// request is in flight.
func BeginPosting(inv *models.Invoice) *models.Invoice {
	return withStatus(inv, models.StatusPosting)
}

// ApplyPostOutcome returns the snapshot after a post attempt: POSTED with the
// FBR invoice number on success, POSTING_FAILED otherwise.
func ApplyPostOutcome(inv *models.Invoice, out PostOutcome) *models.Invoice {
	if !out.Posted {
		return withStatus(inv, models.StatusPostingFailed)
	}
	next := withStatus(inv, models.StatusPosted)
	next.FBRInvoiceNo = out.FBRInvoiceNo
	return next
}
