package invoice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"fbrportal/internal/api"
)

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name     string
		resp     *api.FBRResponse
		valid    bool
		messages []string
	}{
		{"nil response", nil, false, []string{"Validation failed"}},
		{"status code 00", &api.FBRResponse{OK: true, Result: &api.FBRResult{ValidationResponse: &api.ValidationResponse{StatusCode: "00"}}}, true, nil},
		{"status Valid", &api.FBRResponse{OK: true, Result: &api.FBRResult{ValidationResponse: &api.ValidationResponse{Status: "Valid"}}}, true, nil},
		{"backend not ok", &api.FBRResponse{OK: false, Result: &api.FBRResult{Message: "Token expired"}}, false, []string{"Token expired"}},
		{
			"invoice and item errors",
			&api.FBRResponse{OK: true, Result: &api.FBRResult{ValidationResponse: &api.ValidationResponse{
				StatusCode: "01",
				Error:      "Invalid buyer",
				InvoiceStatuses: []api.ItemStatus{
					{ItemSNo: "1", Error: "Bad HS code"},
					{ItemSNo: "2"},
				},
			}}},
			false,
			[]string{"Invalid buyer", "Item 1: Bad HS code"},
		},
		{"invalid without messages", &api.FBRResponse{OK: true, Result: &api.FBRResult{ValidationResponse: &api.ValidationResponse{StatusCode: "01"}}}, false, []string{"Invoice validation failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseValidation(tt.resp)
			assert.Equal(t, tt.valid, out.Valid)
			assert.Equal(t, tt.messages, out.Messages)
			if tt.valid {
				assert.NoError(t, out.Err())
			} else {
				assert.ErrorIs(t, out.Err(), ErrValidationRejected)
			}
		})
	}
}

func TestParsePost(t *testing.T) {
	out := ParsePost(&api.FBRResponse{OK: true, FBRInvoiceNo: "FBR-9"})
	assert.True(t, out.Posted)
	assert.Equal(t, "FBR-9", out.FBRInvoiceNo)

	out = ParsePost(&api.FBRResponse{OK: true})
	assert.False(t, out.Posted, "ok without an FBR number is not posted")
	assert.Equal(t, []string{"Failed to post invoice to FBR"}, out.Messages)

	out = ParsePost(&api.FBRResponse{Result: &api.FBRResult{Error: "Duplicate", Detail: "USIN exists"}})
	assert.Equal(t, []string{"Duplicate", "USIN exists"}, out.Messages)

	var fbrErr *FBRError
	assert.True(t, errors.As(out.Err(), &fbrErr))
	assert.Equal(t, "Duplicate | USIN exists", fbrErr.Message())
	assert.ErrorIs(t, out.Err(), ErrPostRejected)
}
