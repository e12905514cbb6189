package session

import (
	"errors"

	"fbrportal/pkg/models"
)

// Guard errors, returned before a command touches the backend.
var (
	ErrNotAuthenticated  = errors.New("not signed in; run `fbrportal login` first")
	ErrPlatformAdminOnly = errors.New("access restricted: this page is not available to company users")
	ErrTenantUserOnly    = errors.New("access restricted: this page is only available to company users")
	ErrNoTenant          = errors.New("the session is not scoped to a tenant")
)

// RequireAuth fails unless the session is authenticated.
func RequireAuth(st State) error {
	if !st.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// RequirePlatformAdmin fails for tenant users.
func RequirePlatformAdmin(st State) error {
	if err := RequireAuth(st); err != nil {
		return err
	}
	if st.User != nil && st.User.UserType == models.UserTypeTenantUser {
		return ErrPlatformAdminOnly
	}
	return nil
}

// RequireTenantUser fails unless the user belongs to a tenant and the session
// carries its id.
func RequireTenantUser(st State) error {
	if err := RequireAuth(st); err != nil {
		return err
	}
	if !st.User.IsTenantUser() {
		return ErrTenantUserOnly
	}
	if st.TenantID.IsZero() {
		return ErrNoTenant
	}
	return nil
}

// IsTenantUser reports whether the signed-in user is scoped to a tenant.
func (s State) IsTenantUser() bool {
	return s.User != nil && s.User.IsTenantUser()
}
