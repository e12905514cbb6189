package invoice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbrportal/internal/api"
	"fbrportal/pkg/models"
)

type fakeBackend struct {
	stored      *models.Invoice
	getErr      error
	validate    *api.FBRResponse
	validateErr error
	post        *api.FBRResponse
	postErr     error
	deleteErr   error
	updateErr   error

	patches []interface{}
	deleted []models.ID
}

func (b *fakeBackend) GetInvoice(_ context.Context, _ models.ID) (*models.Invoice, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.stored, nil
}

func (b *fakeBackend) UpdateInvoice(_ context.Context, _ models.ID, body interface{}) (*models.Invoice, error) {
	b.patches = append(b.patches, body)
	if b.updateErr != nil {
		return nil, b.updateErr
	}
	return b.stored, nil
}

func (b *fakeBackend) DeleteInvoice(_ context.Context, id models.ID) error {
	b.deleted = append(b.deleted, id)
	return b.deleteErr
}

func (b *fakeBackend) ValidateInvoice(_ context.Context, _ models.ID) (*api.FBRResponse, error) {
	return b.validate, b.validateErr
}

func (b *fakeBackend) PostInvoice(_ context.Context, _ models.ID) (*api.FBRResponse, error) {
	return b.post, b.postErr
}

func validResponse() *api.FBRResponse {
	return &api.FBRResponse{OK: true, Result: &api.FBRResult{ValidationResponse: &api.ValidationResponse{StatusCode: "00", Status: "Valid"}}}
}

func recordStatuses(got *[]models.InvoiceStatus) WorkflowOption {
	return WithSnapshots(func(inv *models.Invoice) { *got = append(*got, inv.Status) })
}

func TestWorkflowValidate(t *testing.T) {
	inv := &models.Invoice{ID: "7", Status: models.StatusCreated}
	backend := &fakeBackend{
		validate: validResponse(),
		stored:   &models.Invoice{ID: "7", Status: models.StatusValidated, USINNo: "U-1"},
	}
	var statuses []models.InvoiceStatus

	got, err := NewWorkflow(backend, recordStatuses(&statuses)).Validate(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, "U-1", got.USINNo, "the server copy replaces the local snapshot")
	assert.Equal(t, []models.InvoiceStatus{models.StatusValidated, models.StatusValidated}, statuses)
	require.Len(t, backend.patches, 1)
	assert.Equal(t, api.StatusPatch{InvoiceStatus: models.StatusValidated}, backend.patches[0])
	assert.Equal(t, models.StatusCreated, inv.Status, "the input is never mutated")
}

func TestWorkflowValidateStatusNotSaved(t *testing.T) {
	inv := &models.Invoice{ID: "7", Status: models.StatusCreated}
	backend := &fakeBackend{
		validate:  validResponse(),
		updateErr: &api.Error{StatusCode: 500, Message: api.GenericMessage},
		stored:    &models.Invoice{ID: "7", Status: models.StatusValidated},
	}
	var statuses []models.InvoiceStatus

	got, err := NewWorkflow(backend, recordStatuses(&statuses)).Validate(context.Background(), inv)
	require.NoError(t, err, "FBR accepted the invoice")
	assert.Equal(t, models.StatusCreated, got.EffectiveStatus())
	assert.Same(t, inv, got)
	assert.Len(t, backend.patches, 1)
	assert.Empty(t, statuses, "no VALIDATED snapshot is emitted for an unsaved status")
}

func TestWorkflowValidateRejected(t *testing.T) {
	inv := &models.Invoice{ID: "7", Status: models.StatusCreated}
	backend := &fakeBackend{validate: &api.FBRResponse{OK: true, Result: &api.FBRResult{
		ValidationResponse: &api.ValidationResponse{StatusCode: "01", Error: "Invalid buyer NTN"},
	}}}

	got, err := NewWorkflow(backend).Validate(context.Background(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationRejected)

	var fbrErr *FBRError
	require.True(t, errors.As(err, &fbrErr))
	assert.Contains(t, fbrErr.Message(), "Invalid buyer NTN")
	assert.Equal(t, models.StatusCreated, got.Status)
	assert.Empty(t, backend.patches)
}

func TestWorkflowValidateGuards(t *testing.T) {
	backend := &fakeBackend{}
	for _, status := range []models.InvoiceStatus{models.StatusValidated, models.StatusPosting, models.StatusPosted, models.StatusPostingFailed} {
		_, err := NewWorkflow(backend).Validate(context.Background(), &models.Invoice{ID: "1", Status: status})
		assert.ErrorIs(t, err, ErrNotValidatable, status)
	}
	assert.True(t, CanValidate(&models.Invoice{}), "a missing status counts as CREATED")
}

func TestWorkflowPost(t *testing.T) {
	inv := &models.Invoice{ID: "8", Status: models.StatusValidated}
	backend := &fakeBackend{
		post:   &api.FBRResponse{OK: true, FBRInvoiceNo: "FBR-123"},
		stored: &models.Invoice{ID: "8", Status: models.StatusPosted, FBRInvoiceNo: "FBR-123"},
	}
	var statuses []models.InvoiceStatus

	got, err := NewWorkflow(backend, recordStatuses(&statuses)).Post(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, "FBR-123", got.FBRInvoiceNo)
	assert.Equal(t, []models.InvoiceStatus{models.StatusPosting, models.StatusPosted, models.StatusPosted}, statuses)
}

func TestWorkflowPostFailureKeepsLocalStatusWhenRefreshFails(t *testing.T) {
	inv := &models.Invoice{ID: "8", Status: models.StatusValidated}
	backend := &fakeBackend{
		postErr: &api.Error{StatusCode: 400, Message: "Token expired"},
		getErr:  errors.New("offline"),
	}
	var statuses []models.InvoiceStatus

	got, err := NewWorkflow(backend, recordStatuses(&statuses)).Post(context.Background(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPostRejected)
	assert.Equal(t, models.StatusPostingFailed, got.Status)
	assert.Equal(t, []models.InvoiceStatus{models.StatusPosting, models.StatusPostingFailed}, statuses)
}

func TestWorkflowPostRequiresValidation(t *testing.T) {
	_, err := NewWorkflow(&fakeBackend{}).Post(context.Background(), &models.Invoice{ID: "1", Status: models.StatusCreated})
	assert.ErrorIs(t, err, ErrNotPostable)

	var wfErr *WorkflowError
	require.True(t, errors.As(err, &wfErr))
	assert.Equal(t, "Post", wfErr.Op)
	assert.Equal(t, models.ID("1"), wfErr.InvoiceID)
}

func TestWorkflowDelete(t *testing.T) {
	backend := &fakeBackend{}
	require.NoError(t, NewWorkflow(backend).Delete(context.Background(), "3"))
	assert.Equal(t, []models.ID{"3"}, backend.deleted)

	backend.deleteErr = &api.Error{StatusCode: 403, Message: "Forbidden"}
	err := NewWorkflow(backend).Delete(context.Background(), "4")
	assert.ErrorIs(t, err, ErrDeleteForbidden)
}
