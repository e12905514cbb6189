package models

import "strings"

// RegistrationType tells whether a buyer is registered with the tax authority.
type RegistrationType string

const (
	Registered   RegistrationType = "registered"
	Unregistered RegistrationType = "unregistered"
)

// Buyer is a counterparty an invoice can be issued to.
type Buyer struct {
	ID               ID               `json:"id"`
	BusinessName     string           `json:"business_name"`
	NTNCNIC          string           `json:"ntn_cnic"`
	Province         string           `json:"province"`
	Address          string           `json:"address,omitempty"`
	RegistrationType RegistrationType `json:"registration_type"`
	Tenant           ID               `json:"tenant,omitempty"`
}

// IsRegistered compares the registration type case-insensitively.
func (b Buyer) IsRegistered() bool {
	return strings.EqualFold(string(b.RegistrationType), string(Registered))
}
