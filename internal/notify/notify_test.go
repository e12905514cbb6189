package notify

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"fbrportal/internal/api"
	"fbrportal/internal/forms"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Success("Invoice created")
	c.Error("Failed")
	c.Info("Loading")

	assert.Equal(t, "✓ Invoice created\n✗ Failed\n• Loading\n", buf.String())
}

func TestFromError(t *testing.T) {
	forbidden := &api.Error{StatusCode: http.StatusForbidden, Message: "nope"}
	badRequest := &api.Error{StatusCode: http.StatusBadRequest, Message: "NTN already registered"}
	empty := &api.Error{StatusCode: http.StatusBadRequest, Message: api.GenericMessage}
	server := &api.Error{StatusCode: http.StatusBadGateway, Message: "upstream"}

	tests := []struct {
		name     string
		err      error
		action   string
		fallback string
		want     string
	}{
		{"nil", nil, "", "", ""},
		{"forbidden", fmt.Errorf("delete: %w", forbidden), "delete this invoice", "", "You are not authorized to delete this invoice"},
		{"forbidden without action", forbidden, "", "", "nope"},
		{"backend message", badRequest, "", "Failed to save", "NTN already registered"},
		{"no message uses fallback", empty, "", "Failed to save", "Failed to save"},
		{"server error stays generic", server, "", "Failed to save", api.GenericMessage},
		{"transport uses fallback", &api.TransportError{Err: errors.New("dial")}, "", "Failed to load invoices", "Failed to load invoices"},
		{"transport without fallback", &api.TransportError{Err: errors.New("dial")}, "", "", api.GenericMessage},
		{"field errors", forms.FieldErrors{"email": "Email is required"}, "", "", "email: Email is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromError(tt.err, tt.action, tt.fallback))
		})
	}
}
