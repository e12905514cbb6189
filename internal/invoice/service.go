// Package invoice implements the invoice side of the portal.
//
// It covers line-item tax arithmetic (ComputeLine, ComputeTotals), the
// create/edit form (Form), the FBR lifecycle (Workflow) and the dashboard
// aggregates (Summarize).
//
// Status lifecycle:
//
//	CREATED -> VALIDATED -> POSTING -> POSTED
//	                              \-> POSTING_FAILED
//
// POSTING is an optimistic marker set before the post request resolves. Only
// CREATED and VALIDATED invoices are editable; the backend remains the
// authority on every transition.
package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"fbrportal/internal/api"
	"fbrportal/internal/logger"
	"fbrportal/pkg/models"
)

// Store persists invoices.
type Store interface {
	CreateInvoice(ctx context.Context, body api.InvoicePayload) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id models.ID, body interface{}) (*models.Invoice, error)
}

// Failure notices shown when a save is rejected by the backend.
var (
	ErrCreateFailed = errors.New("failed to create invoice")
	ErrUpdateFailed = errors.New("failed to update invoice")
)

// Service saves invoice forms.
type Service struct {
	store Store
	log   zerolog.Logger
}

// NewService creates a service writing to store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		log:   logger.WithComponent("invoice"),
	}
}

// Save validates f and creates or updates the invoice. Field errors are
// returned as forms.FieldErrors without touching the backend.
func (s *Service) Save(ctx context.Context, f *Form) (*models.Invoice, error) {
	const op = "invoice.Save"

	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if !f.Editable() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotEditable)
	}

	payload := f.Payload()
	if f.Creating() {
		inv, err := s.store.CreateInvoice(ctx, payload)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to create invoice")
			return nil, fmt.Errorf("%s: %w: %w", op, ErrCreateFailed, err)
		}
		event := s.log.Info().Int("items", len(payload.Items))
		if inv != nil {
			event = event.Str("invoice_id", inv.ID.String())
		}
		event.Msg("Invoice created")
		return inv, nil
	}

	inv, err := s.store.UpdateInvoice(ctx, f.Existing.ID, payload)
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", f.Existing.ID.String()).Msg("Failed to update invoice")
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUpdateFailed, err)
	}
	s.log.Info().
		Str("invoice_id", f.Existing.ID.String()).
		Int("items", len(payload.Items)).
		Msg("Invoice updated")
	return inv, nil
}
