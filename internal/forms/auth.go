package forms

import "fbrportal/internal/api"

const minPasswordLength = 8

// LoginForm is the password step of the sign-in flow.
type LoginForm struct {
	Email    string `form:"email" validate:"required,portal_email"`
	Password string `form:"password" validate:"required"`
}

var loginMessages = Messages{
	"email.required":     "Email is required",
	"email.portal_email": "Enter a valid email address",
	"password.required":  "Password is required",
}

// Validate checks the trimmed email and the password.
func (f LoginForm) Validate() FieldErrors {
	f.Email = trim(f.Email)
	return Check(f, loginMessages)
}

// Credentials builds the login body with a lower-cased email.
func (f LoginForm) Credentials() api.Credentials {
	return api.Credentials{Email: normalizeEmail(f.Email), Password: f.Password}
}

// OTPForm is the passcode step of the sign-in flow.
type OTPForm struct {
	Email string `form:"email" validate:"required,portal_email"`
	Code  string `form:"code" validate:"required,otp"`
}

var otpMessages = Messages{
	"email.required":     "Email is required",
	"email.portal_email": "Enter a valid email address",
	"code.required":      "Code is required",
	"code.otp":           "Enter a valid 6-digit code",
}

// Validate checks the pending email and the 6-digit code.
func (f OTPForm) Validate() FieldErrors {
	f.Email = trim(f.Email)
	f.Code = trim(f.Code)
	return Check(f, otpMessages)
}

// Verification builds the verify body.
func (f OTPForm) Verification() api.OTPVerification {
	return api.OTPVerification{Email: normalizeEmail(f.Email), Code: trim(f.Code)}
}

// PasswordResetRequestForm asks for a reset link.
type PasswordResetRequestForm struct {
	Email string `form:"email" validate:"required,portal_email"`
}

// Validate checks the email.
func (f PasswordResetRequestForm) Validate() FieldErrors {
	f.Email = trim(f.Email)
	return Check(f, loginMessages)
}

// Payload builds the reset request body.
func (f PasswordResetRequestForm) Payload() api.PasswordResetRequest {
	return api.PasswordResetRequest{Email: normalizeEmail(f.Email)}
}

// PasswordResetConfirmForm sets a new password from a reset token.
type PasswordResetConfirmForm struct {
	Token    string `form:"token" validate:"required"`
	Password string `form:"password" validate:"required,min=8"`
}

var resetConfirmMessages = Messages{
	"token.required":    "Missing reset token",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
}

// Validate checks the token and the password length.
func (f PasswordResetConfirmForm) Validate() FieldErrors {
	f.Token = trim(f.Token)
	return Check(f, resetConfirmMessages)
}

// Payload builds the reset confirmation body.
func (f PasswordResetConfirmForm) Payload() api.PasswordResetConfirm {
	return api.PasswordResetConfirm{Token: trim(f.Token), NewPassword: f.Password}
}

// AcceptInviteForm completes an invitation.
type AcceptInviteForm struct {
	Token    string `form:"token" validate:"required"`
	FullName string `form:"fullName" validate:"required"`
	Password string `form:"password" validate:"required"`
}

var acceptInviteMessages = Messages{
	"token.required":    "Missing invitation token.",
	"fullName.required": "Full name is required",
	"password.required": "Password is required",
}

// Validate checks the token, name and password.
func (f AcceptInviteForm) Validate() FieldErrors {
	f.Token = trim(f.Token)
	f.FullName = trim(f.FullName)
	return Check(f, acceptInviteMessages)
}

// Payload builds the accept body.
func (f AcceptInviteForm) Payload() api.AcceptInvitationPayload {
	return api.AcceptInvitationPayload{
		Token:    trim(f.Token),
		FullName: trim(f.FullName),
		Password: f.Password,
	}
}
