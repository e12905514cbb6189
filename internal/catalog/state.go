package catalog

import (
	"strings"

	"fbrportal/internal/api"
	"fbrportal/internal/forms"
	"fbrportal/pkg/models"
)

// Field identifies a classification field of the product form.
type Field int

const (
	FieldTransactionType Field = iota
	FieldRate
	FieldSRO
	FieldSROItem
	FieldHSCode
	FieldHSDescription
	FieldUOM
)

var fieldNames = map[Field]string{
	FieldTransactionType: "transaction_type",
	FieldRate:            "rate",
	FieldSRO:             "sro",
	FieldSROItem:         "sro_item",
	FieldHSCode:          "hs_code",
	FieldHSDescription:   "hs_description",
	FieldUOM:             "uom",
}

func (f Field) String() string { return fieldNames[f] }

// dependents lists, for each field, the downstream fields that become stale
// when it changes.
var dependents = map[Field][]Field{
	FieldTransactionType: {FieldRate, FieldSRO, FieldSROItem},
	FieldRate:            {FieldSRO, FieldSROItem},
	FieldSRO:             {FieldSROItem},
	FieldHSCode:          {FieldHSDescription, FieldUOM},
}

// Dependents returns the fields cleared when f changes.
func Dependents(f Field) []Field {
	return append([]Field(nil), dependents[f]...)
}

// ProductState is the product form.
type ProductState struct {
	ProductName        string
	TransactionTypeID  models.ID
	TransactionType    string
	Rate               Rate
	SRO                SRO
	SROItemDescription string
	HSCode             string
	HSDescription      string
	UOM                UOM
	IsActive           bool
}

// NewProductState returns an empty, active product form.
func NewProductState() ProductState {
	return ProductState{IsActive: true}
}

// StateFromProduct prefills the form from a stored product.
func StateFromProduct(p models.Product) ProductState {
	return ProductState{
		ProductName:       p.ProductName,
		TransactionTypeID: p.TransactionTypeID,
		TransactionType:   p.TransactionType,
		Rate: Rate{
			ID:          p.RateID,
			Description: p.RateDescription,
			Value:       p.RateValue,
		},
		SRO: SRO{
			ID:          p.SROID,
			SerNo:       p.SROSerNo.String(),
			Description: p.SRODescription,
		},
		SROItemDescription: p.SROItemDescription,
		HSCode:             p.HSCode,
		HSDescription:      p.HSDescription,
		UOM:                UOM{ID: p.UOMID, Description: p.UOMDescription},
		IsActive:           p.IsActive,
	}
}

func (s *ProductState) clear(f Field) {
	switch f {
	case FieldTransactionType:
		s.TransactionTypeID = ""
		s.TransactionType = ""
	case FieldRate:
		s.Rate = Rate{}
	case FieldSRO:
		s.SRO = SRO{}
	case FieldSROItem:
		s.SROItemDescription = ""
	case FieldHSCode:
		s.HSCode = ""
	case FieldHSDescription:
		s.HSDescription = ""
	case FieldUOM:
		s.UOM = UOM{}
	}
}

// Event is a change to one classification field.
type Event interface {
	Field() Field
	apply(*ProductState)
}

// TransactionTypeSelected sets the transaction type.
type TransactionTypeSelected struct {
	ID          models.ID
	Description string
}

func (TransactionTypeSelected) Field() Field { return FieldTransactionType }
func (e TransactionTypeSelected) apply(s *ProductState) {
	s.TransactionTypeID = e.ID
	s.TransactionType = e.Description
}

// RateSelected sets the rate.
type RateSelected struct{ Rate Rate }

func (RateSelected) Field() Field            { return FieldRate }
func (e RateSelected) apply(s *ProductState) { s.Rate = e.Rate }

// SROSelected sets the SRO.
type SROSelected struct{ SRO SRO }

func (SROSelected) Field() Field            { return FieldSRO }
func (e SROSelected) apply(s *ProductState) { s.SRO = e.SRO }

// SROItemSelected sets the SRO item description.
type SROItemSelected struct{ Item SROItem }

func (SROItemSelected) Field() Field { return FieldSROItem }
func (e SROItemSelected) apply(s *ProductState) {
	s.SROItemDescription = e.Item.Description
}

// HSCodeSelected sets the HS code.
type HSCodeSelected struct{ Code string }

func (HSCodeSelected) Field() Field            { return FieldHSCode }
func (e HSCodeSelected) apply(s *ProductState) { s.HSCode = e.Code }

// HSDescriptionLoaded sets the HS code description.
type HSDescriptionLoaded struct{ Description string }

func (HSDescriptionLoaded) Field() Field { return FieldHSDescription }
func (e HSDescriptionLoaded) apply(s *ProductState) {
	s.HSDescription = e.Description
}

// UOMLoaded sets the unit of measure.
type UOMLoaded struct{ UOM UOM }

func (UOMLoaded) Field() Field            { return FieldUOM }
func (e UOMLoaded) apply(s *ProductState) { s.UOM = e.UOM }

// Reduce returns the state after e: every field downstream of the changed one
// is cleared, then the new value is set. s is not modified.
func Reduce(s ProductState, e Event) ProductState {
	for _, f := range dependents[e.Field()] {
		s.clear(f)
	}
	e.apply(&s)
	return s
}

var productMessages = map[string]string{
	"productName":       "Product name is required",
	"transactionTypeId": "Transaction type is required",
	"rateId":            "Rate is required (select a transaction type)",
	"hsCode":            "HS Code is required",
	"uomId":             "UOM is required (select an HS Code)",
}

// Validate checks the fields a product cannot be saved without.
func (s ProductState) Validate() forms.FieldErrors {
	errs := forms.FieldErrors{}
	if strings.TrimSpace(s.ProductName) == "" {
		errs.Add("productName", productMessages["productName"])
	}
	if s.TransactionTypeID.IsZero() {
		errs.Add("transactionTypeId", productMessages["transactionTypeId"])
	}
	if s.Rate.ID.IsZero() {
		errs.Add("rateId", productMessages["rateId"])
	}
	if s.HSCode == "" {
		errs.Add("hsCode", productMessages["hsCode"])
	}
	if s.UOM.ID.IsZero() {
		errs.Add("uomId", productMessages["uomId"])
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Payload builds the product body.
func (s ProductState) Payload() api.ProductPayload {
	return api.ProductPayload{
		ProductName:        s.ProductName,
		TransactionTypeID:  leadingInt(s.TransactionTypeID.String()),
		TransactionType:    s.TransactionType,
		RateID:             leadingInt(s.Rate.ID.String()),
		RateDescription:    s.Rate.Description,
		RateValue:          s.Rate.Value.InexactFloat64(),
		SROID:              leadingInt(s.SRO.ID.String()),
		SROSerNo:           leadingInt(s.SRO.SerNo),
		SRODescription:     s.SRO.Description,
		SROItemDescription: s.SROItemDescription,
		HSCode:             s.HSCode,
		HSDescription:      s.HSDescription,
		UOMID:              leadingInt(s.UOM.ID.String()),
		UOMDescription:     s.UOM.Description,
		IsActive:           s.IsActive,
	}
}
