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

// Backend is the subset of the API client the lifecycle actions need.
type Backend interface {
	GetInvoice(ctx context.Context, id models.ID) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id models.ID, body interface{}) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id models.ID) error
	ValidateInvoice(ctx context.Context, id models.ID) (*api.FBRResponse, error)
	PostInvoice(ctx context.Context, id models.ID) (*api.FBRResponse, error)
}

// SnapshotFunc receives every intermediate invoice snapshot, including the
// optimistic POSTING one emitted before the post request resolves.
type SnapshotFunc func(*models.Invoice)

// Workflow drives validation, posting and deletion of invoices against the
// backend. Each action returns a new snapshot and never mutates its input.
type Workflow struct {
	backend  Backend
	onChange SnapshotFunc
	log      zerolog.Logger
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithSnapshots registers a snapshot listener.
func WithSnapshots(fn SnapshotFunc) WorkflowOption {
	return func(w *Workflow) { w.onChange = fn }
}

// NewWorkflow creates a workflow bound to backend.
func NewWorkflow(backend Backend, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		backend: backend,
		log:     logger.WithComponent("invoice-workflow"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) emit(inv *models.Invoice) {
	if w.onChange != nil {
		w.onChange(inv)
	}
}

// reconcile reloads the invoice so the server state replaces any optimistic
// status. On failure the snapshot is kept.
func (w *Workflow) reconcile(ctx context.Context, snapshot *models.Invoice) *models.Invoice {
	fresh, err := w.backend.GetInvoice(ctx, snapshot.ID)
	if err != nil || fresh == nil {
		w.log.Warn().
			Err(err).
			Str("invoice_id", snapshot.ID.String()).
			Msg("Failed to refresh invoice, keeping local status")
		return snapshot
	}
	w.emit(fresh)
	return fresh
}

// Validate sends a CREATED invoice to FBR for validation. On a valid verdict
// the stored status is patched to VALIDATED and the invoice refreshed. A
// rejection returns the unchanged snapshot and an error wrapping *FBRError.
//
// A valid verdict whose status patch fails is still a success: the input
// snapshot comes back with a nil error and its status left at CREATED, so
// callers compare the returned status to tell the two apart.
func (w *Workflow) Validate(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	const op = "Validate"
	if !CanValidate(inv) {
		return inv, wrapWorkflow(op, inv.ID, fmt.Errorf("%w (status %s)", ErrNotValidatable, inv.EffectiveStatus()))
	}

	log := w.log.With().Str("invoice_id", inv.ID.String()).Logger()
	log.Info().Msg("Validating invoice with FBR")

	resp, err := w.backend.ValidateInvoice(ctx, inv.ID)
	if err != nil {
		log.Error().Err(err).Msg("Validation request failed")
		return inv, wrapWorkflow(op, inv.ID, err)
	}
	logDebug(log, resp)

	outcome := ParseValidation(resp)
	if !outcome.Valid {
		log.Warn().Strs("messages", outcome.Messages).Msg("FBR rejected invoice")
		return ApplyValidation(inv, outcome), wrapWorkflow(op, inv.ID, outcome.Err())
	}

	if _, err := w.backend.UpdateInvoice(ctx, inv.ID, api.StatusPatch{InvoiceStatus: models.StatusValidated}); err != nil {
		log.Error().Err(err).Msg("Failed to save VALIDATED status")
		return inv, nil
	}

	next := ApplyValidation(inv, outcome)
	w.emit(next)
	log.Info().Msg("Invoice validated")
	return w.reconcile(ctx, next), nil
}

// Post submits a VALIDATED invoice to FBR. The POSTING snapshot is emitted
// before the request; the final status comes from the response and is then
// reconciled with the server. There is no rollback: a failed refresh leaves
// the local status in place.
func (w *Workflow) Post(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	const op = "Post"
	if !CanPost(inv) {
		return inv, wrapWorkflow(op, inv.ID, fmt.Errorf("%w (status %s)", ErrNotPostable, inv.EffectiveStatus()))
	}

	log := w.log.With().Str("invoice_id", inv.ID.String()).Logger()

	posting := BeginPosting(inv)
	w.emit(posting)
	log.Info().Msg("Posting invoice to FBR")

	var outcome PostOutcome
	resp, err := w.backend.PostInvoice(ctx, inv.ID)
	if err != nil {
		log.Error().Err(err).Msg("Post request failed")
		outcome = failedPost(err)
	} else {
		logDebug(log, resp)
		outcome = ParsePost(resp)
	}

	next := ApplyPostOutcome(posting, outcome)
	w.emit(next)
	if outcome.Posted {
		log.Info().Str("fbr_invoice_no", outcome.FBRInvoiceNo).Msg("Invoice posted")
	} else {
		log.Warn().Strs("messages", outcome.Messages).Msg("Invoice posting failed")
	}

	final := w.reconcile(ctx, next)
	if err != nil {
		return final, wrapWorkflow(op, inv.ID, fmt.Errorf("%w: %w", outcome.Err(), err))
	}
	return final, wrapWorkflow(op, inv.ID, outcome.Err())
}

// Delete removes an invoice. A 403 is reported as ErrDeleteForbidden.
func (w *Workflow) Delete(ctx context.Context, id models.ID) error {
	const op = "Delete"
	err := w.backend.DeleteInvoice(ctx, id)
	if err == nil {
		w.log.Info().Str("invoice_id", id.String()).Msg("Invoice deleted")
		return nil
	}
	if errors.Is(err, api.ErrForbidden) {
		return wrapWorkflow(op, id, fmt.Errorf("%w: %w", ErrDeleteForbidden, err))
	}
	return wrapWorkflow(op, id, err)
}

func logDebug(log zerolog.Logger, resp *api.FBRResponse) {
	if resp == nil || len(resp.Debug) == 0 {
		return
	}
	log.Debug().Interface("debug", resp.Debug).Msg("FBR request debug info")
}
