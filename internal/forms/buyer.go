package forms

import (
	"fbrportal/internal/api"
	"fbrportal/pkg/models"
)

// BuyerForm creates or edits a buyer. Platform admins must pick the owning
// tenant; tenant users always write to their own tenant.
type BuyerForm struct {
	TenantUser       bool   `form:"-"`
	Tenant           string `form:"tenant" validate:"required_if=TenantUser false"`
	BusinessName     string `form:"business_name" validate:"required"`
	NTNCNIC          string `form:"ntn_cnic" validate:"required,ntn"`
	Province         string `form:"province" validate:"required"`
	Address          string `form:"address"`
	RegistrationType string `form:"registration_type" validate:"required,oneof=registered unregistered Registered Unregistered"`
}

var buyerMessages = Messages{
	"tenant.required_if":         "Tenant is required",
	"business_name.required":     "Business name is required",
	"ntn_cnic.required":          "NTN/CNIC is required",
	"ntn_cnic.ntn":               "NTN must be 7 digits or CNIC must be 13 digits",
	"province.required":          "Province is required",
	"registration_type.required": "Registration type is required",
	"registration_type.oneof":    "Registration type must be registered or unregistered",
}

func (f BuyerForm) trimmed() BuyerForm {
	f.Tenant = trim(f.Tenant)
	f.BusinessName = trim(f.BusinessName)
	f.NTNCNIC = trim(f.NTNCNIC)
	f.Province = trim(f.Province)
	f.Address = trim(f.Address)
	f.RegistrationType = trim(f.RegistrationType)
	return f
}

// Validate checks the buyer fields.
func (f BuyerForm) Validate() FieldErrors {
	return Check(f.trimmed(), buyerMessages)
}

// Payload builds the buyer body. Cleared optional fields are sent as null.
func (f BuyerForm) Payload() api.BuyerPayload {
	t := f.trimmed()
	p := api.BuyerPayload{
		BusinessName:     t.BusinessName,
		NTNCNIC:          optional(t.NTNCNIC),
		Province:         optional(t.Province),
		Address:          optional(t.Address),
		RegistrationType: optional(t.RegistrationType),
	}
	if !t.TenantUser && t.Tenant != "" {
		id := models.ID(t.Tenant)
		p.Tenant = &id
	}
	return p
}

// BuyerFormFrom prefills an edit form from a stored buyer.
func BuyerFormFrom(b models.Buyer, tenantUser bool) BuyerForm {
	return BuyerForm{
		TenantUser:       tenantUser,
		Tenant:           b.Tenant.String(),
		BusinessName:     b.BusinessName,
		NTNCNIC:          b.NTNCNIC,
		Province:         b.Province,
		Address:          b.Address,
		RegistrationType: string(b.RegistrationType),
	}
}
