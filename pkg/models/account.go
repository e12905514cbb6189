package models

import "time"

// UserType distinguishes platform administrators from tenant-scoped members.
type UserType string

const (
	UserTypePlatformAdmin UserType = "platform_admin"
	UserTypeTenantUser    UserType = "tenant_user"
)

// User is the authenticated profile returned by /accounts/me and the shape of
// platform admins and tenant members.
type User struct {
	ID            ID         `json:"id"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	UserType      UserType   `json:"user_type,omitempty"`
	Role          string     `json:"role,omitempty"`
	IsActive      bool       `json:"is_active"`
	LastPaymentAt *time.Time `json:"last_payment_at,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// IsPlatformAdmin reports whether the user administers the whole platform.
func (u *User) IsPlatformAdmin() bool {
	return u != nil && u.UserType == UserTypePlatformAdmin
}

// IsTenantUser reports whether the user is scoped to a single tenant. A profile
// without a user type is treated as a tenant user.
func (u *User) IsTenantUser() bool {
	return u != nil && (u.UserType == UserTypeTenantUser || u.UserType == "")
}

// LoginResponse is returned by POST /authn/login.
type LoginResponse struct {
	OTPRequired bool   `json:"otp_required"`
	Token       string `json:"token,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// TokenResponse is returned by POST /authn/login/verify.
type TokenResponse struct {
	Token string `json:"token"`
}
