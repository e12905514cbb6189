package listview

import (
	"time"

	"github.com/shopspring/decimal"

	"fbrportal/pkg/models"
)

// TenantFilter narrows the tenant list.
type TenantFilter struct {
	Query    string // name, contact email, city or province
	IsActive string // "", "true" or "false"
}

// Match implements the filter predicate.
func (f TenantFilter) Match(t models.Tenant) bool {
	return ContainsFold(f.Query, t.Name, t.ContactEmail, t.City, t.Province) &&
		activeMatches(f.IsActive, t.IsActive)
}

// TenantSortKeys are the sortable tenant columns.
var TenantSortKeys = map[string]Compare[models.Tenant]{
	"name":            ByString(func(t models.Tenant) string { return t.Name }),
	"contact_email":   ByString(func(t models.Tenant) string { return t.ContactEmail }),
	"ntn":             ByString(func(t models.Tenant) string { return t.NTN }),
	"city":            ByString(func(t models.Tenant) string { return t.City }),
	"province":        ByString(func(t models.Tenant) string { return t.Province }),
	"is_active":       ByBool(func(t models.Tenant) bool { return t.IsActive }),
	"last_payment_at": ByTime(func(t models.Tenant) *time.Time { return t.LastPaymentAt }),
	"created_at":      ByTime(func(t models.Tenant) *time.Time { return t.CreatedAt }),
}

// MemberFilter narrows a tenant's member list.
type MemberFilter struct {
	Query string // full name or email
}

// Match implements the filter predicate.
func (f MemberFilter) Match(u models.User) bool {
	return ContainsFold(f.Query, u.FullName, u.Email)
}

// AdminFilter narrows the platform admin list.
type AdminFilter struct {
	Query    string
	IsActive string
}

// Match implements the filter predicate.
func (f AdminFilter) Match(u models.User) bool {
	return ContainsFold(f.Query, u.FullName, u.Email) && activeMatches(f.IsActive, u.IsActive)
}

// UserSortKeys are the sortable columns of member and admin lists.
var UserSortKeys = map[string]Compare[models.User]{
	"full_name":  ByString(func(u models.User) string { return u.FullName }),
	"email":      ByString(func(u models.User) string { return u.Email }),
	"role":       ByString(func(u models.User) string { return u.Role }),
	"is_active":  ByBool(func(u models.User) bool { return u.IsActive }),
	"created_at": ByTime(func(u models.User) *time.Time { return u.CreatedAt }),
}

// ProductFilter narrows the product catalog.
type ProductFilter struct {
	Query           string // product code, name or HS code
	TransactionType string
	IsActive        string
}

// Match implements the filter predicate.
func (f ProductFilter) Match(p models.Product) bool {
	return ContainsFold(f.Query, p.ProductCode, p.ProductName, p.HSCode) &&
		EqualFold(f.TransactionType, p.TransactionType) &&
		activeMatches(f.IsActive, p.IsActive)
}

// ProductSortKeys are the sortable product columns.
var ProductSortKeys = map[string]Compare[models.Product]{
	"product_code":     ByString(func(p models.Product) string { return p.ProductCode }),
	"product_name":     ByString(func(p models.Product) string { return p.ProductName }),
	"transaction_type": ByString(func(p models.Product) string { return p.TransactionType }),
	"hs_code":          ByString(func(p models.Product) string { return p.HSCode }),
	"rate_value":       ByDecimal(func(p models.Product) decimal.Decimal { return p.RateValue }),
	"is_active":        ByBool(func(p models.Product) bool { return p.IsActive }),
}

// BuyerFilter narrows the buyer list.
type BuyerFilter struct {
	Query            string // business name, NTN/CNIC, province or address
	RegistrationType string
}

// Match implements the filter predicate.
func (f BuyerFilter) Match(b models.Buyer) bool {
	return ContainsFold(f.Query, b.BusinessName, b.NTNCNIC, b.Province, b.Address) &&
		EqualFold(f.RegistrationType, string(b.RegistrationType))
}

// BuyerSortKeys are the sortable buyer columns.
var BuyerSortKeys = map[string]Compare[models.Buyer]{
	"business_name":     ByString(func(b models.Buyer) string { return b.BusinessName }),
	"ntn_cnic":          ByString(func(b models.Buyer) string { return b.NTNCNIC }),
	"province":          ByString(func(b models.Buyer) string { return b.Province }),
	"registration_type": ByString(func(b models.Buyer) string { return string(b.RegistrationType) }),
}

// InvoiceFilter narrows the invoice list. Identifier fields match exactly;
// Query is a free-text search over the parties and numbers.
type InvoiceFilter struct {
	Query        string
	FBRInvoiceNo string
	USINNo       string
	CustomerName string
	Status       string
	InvoiceDate  DateRange
	CreatedAt    DateRange
}

// Match implements the filter predicate.
func (f InvoiceFilter) Match(inv models.Invoice) bool {
	_, buyer := inv.BuyerIdentity()
	return ContainsFold(f.Query, inv.FBRInvoiceNo, inv.USINNo, inv.CustomerName, buyer) &&
		Exact(f.FBRInvoiceNo, inv.FBRInvoiceNo) &&
		Exact(f.USINNo, inv.USINNo) &&
		Exact(f.CustomerName, inv.CustomerName) &&
		Exact(f.Status, string(inv.Status)) &&
		f.InvoiceDate.Contains(inv.InvoiceDate) &&
		f.CreatedAt.ContainsTime(inv.CreatedAt)
}

// InvoiceSortKeys are the sortable invoice columns. Invoices are listed in
// fetched order unless one is chosen.
var InvoiceSortKeys = map[string]Compare[models.Invoice]{
	"invoice_date":   ByString(func(i models.Invoice) string { return i.InvoiceDate }),
	"fbr_invoice_no": ByString(func(i models.Invoice) string { return i.FBRInvoiceNo }),
	"customer_name":  ByString(func(i models.Invoice) string { return i.CustomerName }),
	"invoice_status": ByString(func(i models.Invoice) string { return string(i.Status) }),
	"invoice_amount": ByDecimal(func(i models.Invoice) decimal.Decimal { return i.InvoiceAmount }),
	"created_at":     ByTime(func(i models.Invoice) *time.Time { return i.CreatedAt }),
}

// Default sort orders of each list.
var (
	DefaultTenantSort  = Sort{Key: "name", Direction: Asc}
	DefaultUserSort    = Sort{Key: "full_name", Direction: Asc}
	DefaultProductSort = Sort{Key: "product_name", Direction: Asc}
	DefaultBuyerSort   = Sort{Key: "business_name", Direction: Asc}
)
