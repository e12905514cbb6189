package listview

import (
	"fmt"
	"time"

	"fbrportal/internal/invoice"
	"fbrportal/pkg/models"
)

// Table is a rendered list: one header row and string cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// InvoiceTable renders invoices.
func InvoiceTable(invoices []models.Invoice) Table {
	t := Table{
		Title:   "Invoices",
		Headers: []string{"ID", "FBR Invoice No", "USIN", "Type", "Date", "Customer", "Buyer", "Status", "Amount", "Created"},
	}
	for i := range invoices {
		inv := &invoices[i]
		_, buyer := inv.BuyerIdentity()
		t.Rows = append(t.Rows, []string{
			inv.ID.String(),
			inv.FBRInvoiceNo,
			inv.USINNo,
			string(inv.InvType),
			inv.InvoiceDate,
			inv.CustomerName,
			buyer,
			string(inv.EffectiveStatus()),
			invoice.FormatAmount(inv.InvoiceAmount),
			formatTime(inv.CreatedAt),
		})
	}
	return t
}

// ProductTable renders the product catalog.
func ProductTable(products []models.Product) Table {
	t := Table{
		Title:   "Products",
		Headers: []string{"ID", "Code", "Name", "Transaction Type", "Rate", "HS Code", "UOM", "Status"},
	}
	for _, p := range products {
		t.Rows = append(t.Rows, []string{
			p.ID.String(),
			p.ProductCode,
			p.ProductName,
			p.TransactionType,
			p.RateDescription,
			p.HSCode,
			p.UOMDescription,
			activeLabel(p.IsActive),
		})
	}
	return t
}

// BuyerTable renders buyers.
func BuyerTable(buyers []models.Buyer) Table {
	t := Table{
		Title:   "Buyers",
		Headers: []string{"ID", "Business Name", "NTN/CNIC", "Province", "Address", "Registration"},
	}
	for _, b := range buyers {
		t.Rows = append(t.Rows, []string{
			b.ID.String(),
			b.BusinessName,
			b.NTNCNIC,
			b.Province,
			b.Address,
			string(b.RegistrationType),
		})
	}
	return t
}

// TenantTable renders tenants.
func TenantTable(tenants []models.Tenant) Table {
	t := Table{
		Title:   "Tenants",
		Headers: []string{"ID", "Name", "Contact Email", "NTN", "City", "Province", "Status", "Last Payment"},
	}
	for _, tn := range tenants {
		t.Rows = append(t.Rows, []string{
			tn.ID.String(),
			tn.Name,
			tn.ContactEmail,
			tn.NTN,
			tn.City,
			tn.Province,
			activeLabel(tn.IsActive),
			formatTime(tn.LastPaymentAt),
		})
	}
	return t
}

// UserTable renders members or admins.
func UserTable(title string, users []models.User) Table {
	t := Table{
		Title:   title,
		Headers: []string{"ID", "Full Name", "Email", "Role", "Status"},
	}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			u.ID.String(),
			u.FullName,
			u.Email,
			u.Role,
			activeLabel(u.IsActive),
		})
	}
	return t
}

// Summary is the "page x of y" footer line.
func Summary[T any](p Page[T]) string {
	return fmt.Sprintf("Page %d of %d (%s total)", p.Page, p.Pages, invoice.FormatCount(p.Total))
}
