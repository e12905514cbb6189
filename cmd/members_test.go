package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbrportal/internal/api"
	"fbrportal/internal/forms"
	"fbrportal/pkg/models"
)

const companyProfile = `{"id":"u-2","full_name":"Bilal","email":"bilal@acme.pk","user_type":"tenant_user","is_active":true}`

const tenantMembers = `[{"id":"u-5","full_name":"Hina","email":"hina@acme.pk","user_type":"tenant_user","is_active":true}]`

// scopedBackend serves profile as the signed-in user and records the member
// lists and buyer payloads it receives.
type scopedBackend struct {
	t        *testing.T
	profile  string
	listed   []string
	payloads []api.BuyerPayload
}

func (b *scopedBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, b.profile)
	})
	mux.HandleFunc("/api/tenants/", func(w http.ResponseWriter, r *http.Request) {
		b.listed = append(b.listed, r.URL.Path)
		_, _ = io.WriteString(w, tenantMembers)
	})
	mux.HandleFunc("/api/invoices/buyers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(b.t, http.MethodPost, r.Method)
		var body api.BuyerPayload
		assert.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.payloads = append(b.payloads, body)
		_, _ = io.WriteString(w, `{"id":11,"business_name":"Acme Traders"}`)
	})
	return mux
}

func TestMembersListAdminNeedsTenant(t *testing.T) {
	backend := &scopedBackend{t: t, profile: adminProfile}
	signedIn(t, backend.handler())

	_, _, err := executeCommand(t, "members", "list")
	assert.ErrorIs(t, err, errNoTenantFlag)
	assert.Empty(t, backend.listed)

	out, _, err := executeCommand(t, "members", "list", "--tenant", "t-9", "--json")
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/tenants/t-9/users"}, backend.listed)
	assert.Contains(t, out, "hina@acme.pk")
}

func TestMembersListTenantUserUsesSessionTenant(t *testing.T) {
	backend := &scopedBackend{t: t, profile: companyProfile}
	signedIn(t, backend.handler())

	out, _, err := executeCommand(t, "members", "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/tenants/t-1/users"}, backend.listed)
	assert.Contains(t, out, "Hina")

	_, _, err = executeCommand(t, "members", "list", "--tenant", "t-1")
	require.NoError(t, err, "naming the own tenant is allowed")

	_, _, err = executeCommand(t, "members", "list", "--tenant", "t-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own tenant")
	assert.Len(t, backend.listed, 2)
}

var buyerArgs = []string{"buyers", "create",
	"--business-name", "Acme Traders",
	"--ntn-cnic", "1234567",
	"--province", "Punjab",
	"--registration-type", "registered",
}

func TestBuyersCreateAdminNeedsTenant(t *testing.T) {
	backend := &scopedBackend{t: t, profile: adminProfile}
	signedIn(t, backend.handler())

	_, _, err := executeCommand(t, buyerArgs...)
	require.Error(t, err)
	var fe forms.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"tenant"}, fe.Fields())
	assert.Empty(t, backend.payloads, "nothing is sent for an invalid form")

	_, stderr, err := executeCommand(t, append(buyerArgs, "--tenant", "t-9")...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Buyer created")
	require.Len(t, backend.payloads, 1)
	require.NotNil(t, backend.payloads[0].Tenant)
	assert.Equal(t, models.ID("t-9"), *backend.payloads[0].Tenant)
}

func TestBuyersCreateTenantUserOmitsTenant(t *testing.T) {
	backend := &scopedBackend{t: t, profile: companyProfile}
	signedIn(t, backend.handler())

	_, _, err := executeCommand(t, append(buyerArgs, "--tenant", "t-9")...)
	require.NoError(t, err)
	require.Len(t, backend.payloads, 1)
	assert.Nil(t, backend.payloads[0].Tenant, "the backend assigns the caller's tenant")
	assert.Equal(t, "Acme Traders", backend.payloads[0].BusinessName)
}
