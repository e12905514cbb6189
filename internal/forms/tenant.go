package forms

import (
	"time"

	"fbrportal/internal/api"
)

// TenantForm creates or edits a tenant.
type TenantForm struct {
	Name                   string `form:"name" validate:"required"`
	ContactEmail           string `form:"contact_email" validate:"required,portal_email"`
	NTN                    string `form:"ntn" validate:"required,ntn"`
	AddressLine            string `form:"address_line"`
	City                   string `form:"city" validate:"required"`
	Province               string `form:"province" validate:"required"`
	FBRClientSecret        string `form:"fbr_client_secret" validate:"required"`
	FBRClientSecretSandbox string `form:"fbr_client_secret_sandbox"`

	// Only meaningful on update.
	IsActive      *bool      `form:"is_active"`
	LastPaymentAt *time.Time `form:"last_payment_at"`
}

var tenantMessages = Messages{
	"name.required":              "Company name is required",
	"contact_email.required":     "Contact email is required",
	"contact_email.portal_email": "Enter a valid email address",
	"ntn.required":               "NTN/CNIC is required",
	"ntn.ntn":                    "Enter a valid 7-digit NTN or 13-digit CNIC",
	"city.required":              "City is required",
	"province.required":          "Province is required",
	"fbr_client_secret.required": "FBR Client Secret is required",
}

func (f TenantForm) trimmed() TenantForm {
	f.Name = trim(f.Name)
	f.ContactEmail = trim(f.ContactEmail)
	f.NTN = trim(f.NTN)
	f.AddressLine = trim(f.AddressLine)
	f.City = trim(f.City)
	f.Province = trim(f.Province)
	f.FBRClientSecret = trim(f.FBRClientSecret)
	f.FBRClientSecretSandbox = trim(f.FBRClientSecretSandbox)
	return f
}

// Validate checks the required company fields and the NTN format.
func (f TenantForm) Validate() FieldErrors {
	return Check(f.trimmed(), tenantMessages)
}

// Payload builds the tenant body. The last payment time is sent in UTC.
func (f TenantForm) Payload() api.TenantPayload {
	t := f.trimmed()
	p := api.TenantPayload{
		Name:                   t.Name,
		ContactEmail:           normalizeEmail(t.ContactEmail),
		NTN:                    t.NTN,
		AddressLine:            t.AddressLine,
		City:                   t.City,
		Province:               t.Province,
		FBRClientSecret:        t.FBRClientSecret,
		FBRClientSecretSandbox: t.FBRClientSecretSandbox,
		IsActive:               t.IsActive,
	}
	if t.LastPaymentAt != nil {
		utc := t.LastPaymentAt.UTC()
		p.LastPaymentAt = &utc
	}
	return p
}
