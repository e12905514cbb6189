package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fbrportal/pkg/models"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("", "anything"))
	assert.True(t, ContainsFold("  ACME ", "", "Acme Traders"))
	assert.False(t, ContainsFold("zzz", "Acme", "Lahore"))
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("", "x"))
	assert.True(t, EqualFold("Registered", "registered"))
	assert.False(t, EqualFold("registered", ""))
	assert.False(t, EqualFold("registered", "unregistered"))
}

func TestDateRange(t *testing.T) {
	r := DateRange{Start: "2025-01-01", End: "2025-01-31"}
	assert.True(t, r.Contains("2025-01-01"))
	assert.True(t, r.Contains("2025-01-31T23:59:59Z"))
	assert.False(t, r.Contains("2025-02-01"))
	assert.False(t, r.Contains(""))
	assert.True(t, DateRange{}.Contains(""))
	assert.True(t, DateRange{End: "2025-01-31"}.Contains("2024-12-31"))

	ts := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	assert.True(t, r.ContainsTime(&ts))
	assert.False(t, r.ContainsTime(nil))
}

func TestInvoiceFilter(t *testing.T) {
	created := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	inv := models.Invoice{
		FBRInvoiceNo: "FBR-1",
		CustomerName: "Acme",
		Status:       models.StatusPosted,
		InvoiceDate:  "2025-03-01",
		CreatedAt:    &created,
	}

	assert.True(t, InvoiceFilter{}.Match(inv))
	assert.True(t, InvoiceFilter{FBRInvoiceNo: " FBR-1 ", Status: "POSTED"}.Match(inv))
	assert.False(t, InvoiceFilter{CustomerName: "acme"}.Match(inv), "customer matches exactly")
	assert.False(t, InvoiceFilter{InvoiceDate: DateRange{Start: "2025-03-02"}}.Match(inv))
	assert.True(t, InvoiceFilter{CreatedAt: DateRange{Start: "2025-03-02", End: "2025-03-02"}}.Match(inv))
}

func TestProductFilter(t *testing.T) {
	p := models.Product{ProductCode: "P-001", ProductName: "Cement", HSCode: "2523.2900", TransactionType: "Goods", IsActive: false}

	assert.True(t, ProductFilter{Query: "2523"}.Match(p))
	assert.True(t, ProductFilter{TransactionType: "goods", IsActive: "false"}.Match(p))
	assert.False(t, ProductFilter{IsActive: "true"}.Match(p))
}

func TestTenantAndBuyerFilters(t *testing.T) {
	tn := models.Tenant{Name: "Acme", City: "Karachi", IsActive: true}
	assert.True(t, TenantFilter{Query: "karachi", IsActive: "TRUE"}.Match(tn))
	assert.False(t, TenantFilter{IsActive: "false"}.Match(tn))

	b := models.Buyer{BusinessName: "Beta", NTNCNIC: "1234567", RegistrationType: models.Registered}
	assert.True(t, BuyerFilter{Query: "12345", RegistrationType: "Registered"}.Match(b))
	assert.False(t, BuyerFilter{RegistrationType: "unregistered"}.Match(b))

	u := models.User{FullName: "Sara Khan", Email: "sara@example.com"}
	assert.True(t, MemberFilter{Query: "EXAMPLE"}.Match(u))
	assert.False(t, AdminFilter{IsActive: "true"}.Match(u))
}

func TestDefaultSorts(t *testing.T) {
	v := New([]models.Buyer{{BusinessName: "b"}, {BusinessName: "a"}}, BuyerSortKeys, 10)
	v.SetSort(DefaultBuyerSort)
	rows := v.Rows().Rows
	assert.Equal(t, "a", rows[0].BusinessName)
}
