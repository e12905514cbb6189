package invoice

import (
	"fmt"
	"strings"

	"fbrportal/internal/api"
	"fbrportal/internal/forms"
	"fbrportal/pkg/models"
)

const (
	defaultPayMode = "Cash"
	yes            = "yes"
	no             = "no"
)

// Header holds the invoice-level fields of the invoice form.
type Header struct {
	FBRInvoiceNo           string
	USIN                   string
	InvType                string
	PayMode                string
	InvoiceDate            string // YYYY-MM-DD
	Cashier                string
	Notes                  string
	ScenarioID             string
	InvoiceReferenceNumber string

	// Seller (tenant) and its snapshot.
	SellerID          string
	SellerName        string
	SellerNTN         string
	SellerCity        string
	SellerAddress     string
	SellerProvince    string
	SellerDescription string

	// Buyer and the snapshot stored with the invoice.
	BuyerID           string
	BuyerDescription  string
	BuyerCNICNTN      string
	BuyerProvince     string
	BuyerAddress      string
	IsRegisteredBuyer string // "yes", "no" or "" when unknown
}

// Line is one invoice line as typed by the user. Numeric fields stay text
// until computation so partial input is never rejected.
type Line struct {
	ProductID       string
	ProductCode     string
	ProductName     string
	SROSerNo        string
	SROSchedule     string
	UOM             string
	HSCode          string
	HSDescription   string
	TransactionType string

	Quantity                        string
	Rate                            string
	Discount                        string
	TaxPercent                      string
	FixedNotifiedRetailPrice        bool
	FixedNotifiedValueOrRetailPrice string
	SalesTaxWithheldAtSource        string
	ExtraTax                        string
	FurtherTax                      string
	FEDPayable                      string
	ProductNotes                    string
}

// Input converts the typed values for computation.
func (l Line) Input() LineInput {
	return LineInput{
		Quantity:         ParseNumber(l.Quantity),
		Rate:             ParseNumber(l.Rate),
		Discount:         ParseNumber(l.Discount),
		TaxPercent:       ParseNumber(l.TaxPercent),
		ExtraTax:         ParseNumber(l.ExtraTax),
		FurtherTax:       ParseNumber(l.FurtherTax),
		WithheldAtSource: ParseNumber(l.SalesTaxWithheldAtSource),
		FEDPayable:       ParseNumber(l.FEDPayable),
	}
}

// Compute returns the tax breakdown of the line.
func (l Line) Compute() LineResult {
	return ComputeLine(l.Input())
}

// Form is the create/edit invoice form.
type Form struct {
	Header Header
	Lines  []Line

	// Existing is the stored invoice being edited, nil when creating.
	Existing *models.Invoice

	// TenantUser locks the seller to the user's own tenant.
	TenantUser bool
}

// NewForm returns an empty create form with one blank line.
func NewForm(tenantUser bool) *Form {
	return &Form{
		Header: Header{
			InvType: string(models.SaleInvoice),
			PayMode: defaultPayMode,
		},
		Lines:      []Line{{}},
		TenantUser: tenantUser,
	}
}

// FormFromInvoice prefills an edit form from a stored invoice.
func FormFromInvoice(inv *models.Invoice, tenantUser bool) *Form {
	buyerID, buyerName := inv.BuyerIdentity()
	h := Header{
		FBRInvoiceNo:           inv.FBRInvoiceNo,
		USIN:                   inv.USINNo,
		InvType:                firstNonEmpty(string(inv.InvType), string(models.SaleInvoice)),
		PayMode:                firstNonEmpty(inv.PayMode, defaultPayMode),
		InvoiceDate:            inv.InvoiceDate,
		Cashier:                inv.CashierName,
		Notes:                  inv.Notes,
		ScenarioID:             inv.Scenario.String(),
		InvoiceReferenceNumber: inv.InvoiceReferenceNumber,
		SellerID:               inv.Customer.String(),
		SellerName:             inv.CustomerName,
		SellerDescription:      inv.DescriptionSeller,
		BuyerID:                buyerID.String(),
		BuyerDescription:       buyerName,
		BuyerCNICNTN:           inv.CNICBuyer,
		BuyerProvince:          inv.ProvinceBuyer,
		BuyerAddress:           inv.AddressBuyer,
	}
	if inv.Buyer != nil {
		h.BuyerCNICNTN = firstNonEmpty(inv.Buyer.NTNCNIC, h.BuyerCNICNTN)
		h.BuyerProvince = firstNonEmpty(inv.Buyer.Province, h.BuyerProvince)
		h.BuyerAddress = firstNonEmpty(inv.Buyer.Address, h.BuyerAddress)
	}
	if inv.IsRegisteredBuyer != nil {
		h.IsRegisteredBuyer = yesNo(*inv.IsRegisteredBuyer)
	}

	lines := make([]Line, 0, len(inv.Items))
	for _, it := range inv.Items {
		lines = append(lines, Line{
			ProductID:                       it.Product.String(),
			ProductCode:                     it.ProductCode,
			ProductName:                     it.ProductName,
			SROSerNo:                        it.SROSerNo.String(),
			SROSchedule:                     it.SRODescription,
			UOM:                             it.UOMDescription,
			HSCode:                          it.HSCode,
			HSDescription:                   it.HSDescription,
			TransactionType:                 it.TransactionType,
			Quantity:                        it.Quantity.String(),
			Rate:                            it.Rate.String(),
			Discount:                        it.Discount.String(),
			TaxPercent:                      it.TaxPercentage.String(),
			FixedNotifiedRetailPrice:        it.IsFixedNotifiedRetailPrice,
			FixedNotifiedValueOrRetailPrice: it.FixedNotifiedValueOrRetailPrice.String(),
			SalesTaxWithheldAtSource:        it.SalesTaxWithheldAtSource.String(),
			ExtraTax:                        it.ExtraTax.String(),
			FurtherTax:                      it.FurtherTax.String(),
			FEDPayable:                      it.FEDPayable.String(),
			ProductNotes:                    it.ProductNotes,
		})
	}
	if len(lines) == 0 {
		lines = []Line{{}}
	}

	return &Form{Header: h, Lines: lines, Existing: inv, TenantUser: tenantUser}
}

// Creating reports whether the form creates a new invoice.
func (f *Form) Creating() bool { return f.Existing == nil }

// Editable reports whether lines and header fields may change.
func (f *Form) Editable() bool { return IsEditable(f.Existing) }

// SellerLocked reports whether the seller selection is fixed.
func (f *Form) SellerLocked() bool { return !f.Editable() || f.TenantUser }

// SetSeller fills the seller and its snapshot from a tenant. A nil tenant
// clears the selection.
func (f *Form) SetSeller(t *models.Tenant) {
	if t == nil {
		f.Header.SellerID = ""
		f.Header.SellerName = ""
		f.Header.SellerNTN = ""
		f.Header.SellerCity = ""
		f.Header.SellerAddress = ""
		f.Header.SellerProvince = ""
		return
	}
	f.Header.SellerID = t.ID.String()
	f.Header.SellerName = t.Name
	f.Header.SellerNTN = t.NTN
	f.Header.SellerCity = t.City
	f.Header.SellerAddress = t.AddressLine
	f.Header.SellerProvince = t.Province
}

// SelectSeller picks the seller from the tenant list. Tenant users cannot
// change the seller; use LockSeller for them.
func (f *Form) SelectSeller(tenants []models.Tenant, id models.ID) error {
	if f.SellerLocked() {
		return fmt.Errorf("invoice: seller cannot be changed")
	}
	f.SetSeller(findTenant(tenants, id))
	return nil
}

// LockSeller pins the seller of a tenant user's invoice to their own tenant.
// It reports whether the tenant was found.
func (f *Form) LockSeller(tenants []models.Tenant, tenantID models.ID) bool {
	if tenantID.IsZero() {
		return false
	}
	t := findTenant(tenants, tenantID)
	if t == nil {
		return false
	}
	if f.Header.SellerID != tenantID.String() || f.Header.SellerNTN == "" {
		f.SetSeller(t)
	}
	return true
}

// SelectBuyer snapshots the buyer's identity into the header. A nil buyer
// clears the selection.
func (f *Form) SelectBuyer(b *models.Buyer) {
	if b == nil {
		f.Header.BuyerID = ""
		f.Header.BuyerDescription = ""
		f.Header.BuyerCNICNTN = ""
		f.Header.BuyerProvince = ""
		f.Header.BuyerAddress = ""
		f.Header.IsRegisteredBuyer = ""
		return
	}
	f.Header.BuyerID = b.ID.String()
	f.Header.BuyerDescription = b.BusinessName
	f.Header.BuyerCNICNTN = b.NTNCNIC
	f.Header.BuyerProvince = b.Province
	f.Header.BuyerAddress = b.Address
	f.Header.IsRegisteredBuyer = yesNo(b.IsRegistered())
}

// MatchBuyer links an edited invoice that only carries a buyer name to the
// buyer with the same business name (trimmed, case-insensitive). Stored
// snapshot values win over the buyer's current ones. It reports whether a
// match was applied.
func (f *Form) MatchBuyer(buyers []models.Buyer) bool {
	if f.Creating() || f.Header.BuyerID != "" || f.Header.BuyerDescription == "" {
		return false
	}
	target := strings.ToLower(strings.TrimSpace(f.Header.BuyerDescription))
	for i := range buyers {
		b := buyers[i]
		if strings.ToLower(strings.TrimSpace(b.BusinessName)) != target {
			continue
		}
		f.Header.BuyerID = b.ID.String()
		f.Header.BuyerDescription = firstNonEmpty(b.BusinessName, f.Header.BuyerDescription)
		f.Header.BuyerCNICNTN = firstNonEmpty(b.NTNCNIC, f.Header.BuyerCNICNTN)
		f.Header.BuyerProvince = firstNonEmpty(b.Province, f.Header.BuyerProvince)
		f.Header.BuyerAddress = firstNonEmpty(b.Address, f.Header.BuyerAddress)
		f.Header.IsRegisteredBuyer = firstNonEmpty(f.Header.IsRegisteredBuyer, yesNo(b.IsRegistered()))
		return true
	}
	return false
}

// SelectProduct copies a product's classification into line idx. The unit
// price is left for the user; the tax percent defaults to the product rate.
func (f *Form) SelectProduct(idx int, p models.Product) error {
	if idx < 0 || idx >= len(f.Lines) {
		return fmt.Errorf("invoice: line %d out of range", idx+1)
	}
	l := &f.Lines[idx]
	l.ProductID = p.ID.String()
	l.ProductCode = p.ProductCode
	l.ProductName = p.ProductName
	l.SROSerNo = p.SROSerNo.String()
	l.SROSchedule = p.SRODescription
	l.UOM = p.UOMDescription
	l.HSCode = p.HSCode
	l.HSDescription = p.HSDescription
	l.TransactionType = p.TransactionType
	l.TaxPercent = ""
	if !p.RateValue.IsZero() {
		l.TaxPercent = p.RateValue.String()
	}
	return nil
}

// AddLine appends a blank line.
func (f *Form) AddLine() {
	f.Lines = append(f.Lines, Line{})
}

// RemoveLine drops line idx.
func (f *Form) RemoveLine(idx int) {
	if idx < 0 || idx >= len(f.Lines) {
		return
	}
	f.Lines = append(f.Lines[:idx:idx], f.Lines[idx+1:]...)
}

// Totals sums the computed values of every line.
func (f *Form) Totals() Totals {
	var t Totals
	for _, l := range f.Lines {
		t = t.Add(l.Compute())
	}
	return t
}

// LineField names the error key of a line field, e.g. "item_0_quantity".
func LineField(idx int, field string) string {
	return fmt.Sprintf("item_%d_%s", idx, field)
}

// Validate checks the header and every line that has a product.
func (f *Form) Validate() forms.FieldErrors {
	errs := forms.FieldErrors{}
	h := f.Header
	if h.InvType == "" {
		errs.Add("invType", "Invoice type is required")
	}
	if h.InvoiceDate == "" {
		errs.Add("invDate", "Invoice date is required")
	}
	if h.SellerID == "" {
		errs.Add("customerId", "Seller is required")
	}
	if h.BuyerID == "" {
		errs.Add("buyerId", "Buyer is required")
	}
	if h.InvType == string(models.DebitInvoice) && h.InvoiceReferenceNumber == "" {
		errs.Add("invoiceReferenceNumber", "Invoice reference number is required for Debit Invoices")
	}
	if len(f.Lines) == 0 || f.Lines[0].ProductID == "" {
		errs.Add("items", "At least one product is required")
	}
	for i, l := range f.Lines {
		if l.ProductID == "" {
			continue
		}
		if !ParseNumber(l.Quantity).IsPositive() {
			errs.Add(LineField(i, "quantity"), "Quantity is required")
		}
		if !ParseNumber(l.Rate).IsPositive() {
			errs.Add(LineField(i, "rate"), "Price is required")
		}
		if strings.TrimSpace(l.ProductNotes) == "" {
			errs.Add(LineField(i, "productNotes"), "Product description is required")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Payload builds the create/update body. Lines without a product are
// dropped; computed amounts travel with each line.
func (f *Form) Payload() api.InvoicePayload {
	h := f.Header
	p := api.InvoicePayload{
		InvoiceCustomer:   models.ID(h.SellerID),
		Buyer:             optionalID(h.BuyerID),
		InvoiceScenario:   optionalID(h.ScenarioID),
		FBRInvoiceNo:      optionalString(h.FBRInvoiceNo),
		InvType:           optionalString(h.InvType),
		PayMode:           optionalString(h.PayMode),
		CashierName:       optionalString(h.Cashier),
		Notes:             optionalString(h.Notes),
		CNICBuyer:         optionalString(h.BuyerCNICNTN),
		ProvinceBuyer:     optionalString(h.BuyerProvince),
		AddressBuyer:      optionalString(h.BuyerAddress),
		DescriptionBuyer:  optionalString(h.BuyerDescription),
		DescriptionSeller: optionalString(h.SellerDescription),
		InvoiceDate:       optionalString(h.InvoiceDate),
		Items:             []api.InvoiceItemPayload{},
	}
	if f.Creating() {
		p.InvoiceStatus = models.StatusCreated
	}
	if h.InvType == string(models.DebitInvoice) {
		p.InvoiceReferenceNumber = optionalString(h.InvoiceReferenceNumber)
	}
	if h.IsRegisteredBuyer != "" {
		registered := h.IsRegisteredBuyer == yes
		p.IsRegisteredBuyer = &registered
	}

	for _, l := range f.Lines {
		if l.ProductID == "" {
			continue
		}
		in := l.Input()
		c := ComputeLine(in)
		p.Items = append(p.Items, api.InvoiceItemPayload{
			Product:                         models.ID(l.ProductID),
			HSDescription:                   optionalString(l.HSDescription),
			Quantity:                        in.Quantity.InexactFloat64(),
			IsFixedNotifiedRetailPrice:      l.FixedNotifiedRetailPrice,
			Rate:                            in.Rate.InexactFloat64(),
			Amount:                          c.Amount.InexactFloat64(),
			Discount:                        in.Discount.InexactFloat64(),
			DiscountAmount:                  c.DiscountAmount.InexactFloat64(),
			TaxPercentage:                   in.TaxPercent.InexactFloat64(),
			SalesTaxAmount:                  c.SalesTax.InexactFloat64(),
			ValueInclSalesTax:               c.LineTotal.InexactFloat64(),
			FixedNotifiedValueOrRetailPrice: ParseNumber(l.FixedNotifiedValueOrRetailPrice).InexactFloat64(),
			SalesTaxWithheldAtSource:        in.WithheldAtSource.InexactFloat64(),
			ExtraTax:                        in.ExtraTax.InexactFloat64(),
			FurtherTax:                      in.FurtherTax.InexactFloat64(),
			FEDPayable:                      in.FEDPayable.InexactFloat64(),
			ProductNotes:                    optionalString(l.ProductNotes),
		})
	}
	return p
}

func findTenant(tenants []models.Tenant, id models.ID) *models.Tenant {
	for i := range tenants {
		if tenants[i].ID == id {
			return &tenants[i]
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalID(s string) *models.ID {
	if s == "" {
		return nil
	}
	id := models.ID(s)
	return &id
}
