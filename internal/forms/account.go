package forms

import "fbrportal/internal/api"

const (
	defaultMemberRole = "member"
	adminScope        = "platform"

	// InviteExpiryHours is how long an invitation link stays valid.
	InviteExpiryHours = 72
)

var personMessages = Messages{
	"full_name.required":   "Full name is required",
	"email.required":       "Email is required",
	"email.portal_email":   "Enter a valid email address",
	"password.required":    "Password is required",
	"password.required_if": "Password is required",
}

// ProfileForm edits the signed-in user's own profile.
type ProfileForm struct {
	FullName string `form:"fullName" validate:"required"`
	Email    string `form:"email" validate:"required,portal_email"`
}

var profileMessages = Messages{
	"fullName.required":  "Full name is required",
	"email.required":     "Email is required",
	"email.portal_email": "Enter a valid email address",
}

// Validate checks name and email.
func (f ProfileForm) Validate() FieldErrors {
	f.FullName = trim(f.FullName)
	f.Email = trim(f.Email)
	return Check(f, profileMessages)
}

// Payload builds the profile update body.
func (f ProfileForm) Payload() api.ProfileUpdate {
	return api.ProfileUpdate{FullName: trim(f.FullName), Email: normalizeEmail(f.Email)}
}

// MemberForm creates or edits a tenant member.
type MemberForm struct {
	FullName string `form:"full_name" validate:"required"`
	Email    string `form:"email" validate:"required,portal_email"`
}

// Validate checks name and email.
func (f MemberForm) Validate() FieldErrors {
	f.FullName = trim(f.FullName)
	f.Email = trim(f.Email)
	return Check(f, personMessages)
}

// CreatePayload builds the create body; new members are active with the
// default role.
func (f MemberForm) CreatePayload() api.MemberPayload {
	active := true
	return api.MemberPayload{
		FullName: trim(f.FullName),
		Email:    normalizeEmail(f.Email),
		Role:     defaultMemberRole,
		IsActive: &active,
	}
}

// UpdatePayload builds the update body; role and status are left to the
// backend.
func (f MemberForm) UpdatePayload() api.MemberPayload {
	return api.MemberPayload{FullName: trim(f.FullName), Email: normalizeEmail(f.Email)}
}

// AdminForm creates or edits a platform administrator. A password is only
// required when creating.
type AdminForm struct {
	Creating bool   `form:"-"`
	FullName string `form:"full_name" validate:"required"`
	Email    string `form:"email" validate:"required,portal_email"`
	Password string `form:"password" validate:"required_if=Creating true"`
	IsActive bool   `form:"is_active"`
}

// Validate checks name, email and, on create, the password.
func (f AdminForm) Validate() FieldErrors {
	f.FullName = trim(f.FullName)
	f.Email = trim(f.Email)
	return Check(f, personMessages)
}

// Payload builds the admin body. Creation pins the platform scope; updates
// carry the active flag instead.
func (f AdminForm) Payload() api.AdminPayload {
	p := api.AdminPayload{FullName: trim(f.FullName), Email: normalizeEmail(f.Email)}
	if f.Creating {
		p.Password = f.Password
		p.Scope = adminScope
		return p
	}
	active := f.IsActive
	p.IsActive = &active
	return p
}

// InviteForm invites someone to a tenant.
type InviteForm struct {
	Email string `form:"email" validate:"required,portal_email"`
	Role  string `form:"role"`
}

// Validate checks the email.
func (f InviteForm) Validate() FieldErrors {
	f.Email = trim(f.Email)
	return Check(f, personMessages)
}

// Payload builds the invitation body.
func (f InviteForm) Payload() api.InvitePayload {
	role := trim(f.Role)
	if role == "" {
		role = defaultMemberRole
	}
	return api.InvitePayload{Email: normalizeEmail(f.Email), Role: role, ExpiresInHours: InviteExpiryHours}
}
