package invoice

import (
	"errors"
	"fmt"
	"strings"

	"fbrportal/pkg/models"
)

// Common invoice lifecycle errors
var (
	// ErrNotValidatable is returned when validation is requested for an
	// invoice that is no longer in the CREATED state.
	ErrNotValidatable = errors.New("invoice cannot be validated in its current status")

	// ErrNotPostable is returned when posting is requested for an invoice that
	// has not been validated.
	ErrNotPostable = errors.New("only validated invoices can be posted")

	// ErrNotEditable is returned when an invoice's lines are changed after it
	// left the CREATED/VALIDATED states.
	ErrNotEditable = errors.New("invoice can no longer be edited")

	// ErrValidationRejected is returned when FBR judged the invoice invalid.
	ErrValidationRejected = errors.New("invoice validation failed")

	// ErrPostRejected is returned when FBR did not accept the invoice.
	ErrPostRejected = errors.New("failed to post invoice to FBR")

	// ErrDeleteForbidden is returned when the backend refuses a delete with 403.
	ErrDeleteForbidden = errors.New("not authorized to delete this invoice")
)

// FBRError carries the messages the tax authority returned for a rejected
// validation or post.
type FBRError struct {
	// Kind is ErrValidationRejected or ErrPostRejected.
	Kind error

	// Messages are the individual upstream messages in display order.
	Messages []string
}

// Error implements the error interface.
func (e *FBRError) Error() string {
	return e.Message()
}

// Message joins the upstream messages for display.
func (e *FBRError) Message() string {
	if len(e.Messages) == 0 {
		return e.Kind.Error()
	}
	return strings.Join(e.Messages, " | ")
}

// Unwrap returns the error kind for errors.Is matching.
func (e *FBRError) Unwrap() error {
	return e.Kind
}

// WorkflowError wraps a failed lifecycle operation with the invoice it
// concerned.
type WorkflowError struct {
	// Op is the operation that failed (e.g. "Validate", "Post").
	Op string

	// InvoiceID is the invoice the operation targeted.
	InvoiceID models.ID

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	return fmt.Sprintf("invoice: %s %s failed: %v", e.Op, e.InvoiceID, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func wrapWorkflow(op string, id models.ID, err error) error {
	if err == nil {
		return nil
	}
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return err
	}
	return &WorkflowError{Op: op, InvoiceID: id, Err: err}
}
