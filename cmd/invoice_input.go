package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fbrportal/internal/api"
	"fbrportal/internal/invoice"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

// invoiceDraft is the JSON document accepted by --file. Numbers may be
// written as JSON numbers or numeric strings.
type invoiceDraft struct {
	Seller    string      `json:"seller"`
	Buyer     string      `json:"buyer"`
	InvType   string      `json:"inv_type"`
	PayMode   string      `json:"pay_mode"`
	Date      string      `json:"invoice_date"`
	Cashier   string      `json:"cashier_name"`
	Notes     string      `json:"notes"`
	Scenario  string      `json:"invoice_scenario"`
	Reference string      `json:"invoice_reference_number"`
	Items     []draftItem `json:"items"`
}

type draftItem struct {
	Product                  string      `json:"product"`
	Quantity                 json.Number `json:"quantity"`
	Rate                     json.Number `json:"rate"`
	Discount                 json.Number `json:"discount"`
	TaxPercent               json.Number `json:"tax_percentage"`
	ExtraTax                 json.Number `json:"extra_tax"`
	FurtherTax               json.Number `json:"further_tax"`
	FEDPayable               json.Number `json:"fed_payable"`
	Withheld                 json.Number `json:"sales_tax_withheld_at_source"`
	FixedNotifiedRetailPrice bool        `json:"is_fixed_notifed_retail_price"`
	FixedNotifiedValue       json.Number `json:"fixed_notified_value_or_retail_price"`
	ProductNotes             string      `json:"product_notes"`
}

func addInvoiceInputFlags(c *cobra.Command) {
	c.Flags().StringP("file", "f", "", "JSON invoice draft; flags override its fields")
	c.Flags().String("seller", "", "Seller tenant id (platform admins)")
	c.Flags().String("buyer", "", "Buyer id")
	c.Flags().String("type", "", "Invoice type: \"Sale Invoice\" or \"Debit Invoice\"")
	c.Flags().String("pay-mode", "", "Payment mode")
	c.Flags().String("date", "", "Invoice date, YYYY-MM-DD")
	c.Flags().String("cashier", "", "Cashier name")
	c.Flags().String("notes", "", "Invoice notes")
	c.Flags().String("scenario", "", "FBR scenario id")
	c.Flags().String("reference", "", "Reference invoice number (debit invoices)")
	c.Flags().StringArray("item", nil, `Invoice line, repeatable: "product=ID,qty=2,rate=100[,discount=,tax=,extra=,further=,fed=,withheld=,fixed=true,fixed-value=],notes=..."`)
}

// readInvoiceDraft loads --file, if any, and applies the header and item
// flags on top. Items given with --item replace the items of the file.
func readInvoiceDraft(cmd *cobra.Command) (invoiceDraft, error) {
	var d invoiceDraft
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return d, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return d, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	overrideString(cmd, "seller", &d.Seller)
	overrideString(cmd, "buyer", &d.Buyer)
	overrideString(cmd, "type", &d.InvType)
	overrideString(cmd, "pay-mode", &d.PayMode)
	overrideString(cmd, "date", &d.Date)
	overrideString(cmd, "cashier", &d.Cashier)
	overrideString(cmd, "notes", &d.Notes)
	overrideString(cmd, "scenario", &d.Scenario)
	overrideString(cmd, "reference", &d.Reference)

	if cmd.Flags().Changed("item") {
		raw, _ := cmd.Flags().GetStringArray("item")
		d.Items = d.Items[:0]
		for i, r := range raw {
			it, err := parseItemFlag(r)
			if err != nil {
				return d, fmt.Errorf("--item %d: %w", i+1, err)
			}
			d.Items = append(d.Items, it)
		}
	}
	return d, nil
}

// parseItemFlag reads comma-separated key=value pairs. notes consumes the
// rest of the value so it may contain commas.
func parseItemFlag(raw string) (draftItem, error) {
	var it draftItem
	rest := strings.TrimSpace(raw)
	for rest != "" {
		if strings.HasPrefix(rest, "notes=") {
			it.ProductNotes = strings.TrimPrefix(rest, "notes=")
			break
		}
		var pair string
		pair, rest, _ = strings.Cut(rest, ",")
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return it, fmt.Errorf("expected key=value, got %q", pair)
		}
		value = strings.TrimSpace(value)
		num := json.Number(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "product":
			it.Product = value
		case "qty", "quantity":
			it.Quantity = num
		case "rate", "price":
			it.Rate = num
		case "discount":
			it.Discount = num
		case "tax":
			it.TaxPercent = num
		case "extra":
			it.ExtraTax = num
		case "further":
			it.FurtherTax = num
		case "fed":
			it.FEDPayable = num
		case "withheld":
			it.Withheld = num
		case "fixed":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return it, fmt.Errorf("fixed must be true or false, got %q", value)
			}
			it.FixedNotifiedRetailPrice = b
		case "fixed-value":
			it.FixedNotifiedValue = num
		default:
			return it, fmt.Errorf("unknown key %q", key)
		}
		rest = strings.TrimSpace(rest)
	}
	return it, nil
}

// applyHeader copies the non-empty header fields of d into f.
func applyHeader(f *invoice.Form, d invoiceDraft) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.Header.InvType, d.InvType)
	set(&f.Header.PayMode, d.PayMode)
	set(&f.Header.InvoiceDate, d.Date)
	set(&f.Header.Cashier, d.Cashier)
	set(&f.Header.Notes, d.Notes)
	set(&f.Header.ScenarioID, d.Scenario)
	set(&f.Header.InvoiceReferenceNumber, d.Reference)
}

// applyItem copies the typed values of it into l. A tax percentage given by
// the user wins over the product rate.
func applyItem(l *invoice.Line, it draftItem) {
	l.Quantity = it.Quantity.String()
	l.Rate = it.Rate.String()
	l.Discount = it.Discount.String()
	if it.TaxPercent != "" {
		l.TaxPercent = it.TaxPercent.String()
	}
	l.ExtraTax = it.ExtraTax.String()
	l.FurtherTax = it.FurtherTax.String()
	l.FEDPayable = it.FEDPayable.String()
	l.SalesTaxWithheldAtSource = it.Withheld.String()
	l.FixedNotifiedRetailPrice = it.FixedNotifiedRetailPrice
	l.FixedNotifiedValueOrRetailPrice = it.FixedNotifiedValue.String()
	l.ProductNotes = it.ProductNotes
}

// draftLines builds offline lines from d. Without a product lookup the tax
// percentage is whatever the item says.
func draftLines(d invoiceDraft) []invoice.Line {
	lines := make([]invoice.Line, len(d.Items))
	for i, it := range d.Items {
		lines[i].ProductID = it.Product
		applyItem(&lines[i], it)
	}
	return lines
}

// invoiceParties is the part of the API client the invoice form needs to
// resolve sellers, buyers and products.
type invoiceParties interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	GetTenant(ctx context.Context, id models.ID) (*models.Tenant, error)
	GetBuyer(ctx context.Context, id models.ID) (*models.Buyer, error)
	GetProduct(ctx context.Context, id models.ID) (*models.Product, error)
}

var _ invoiceParties = (*api.Client)(nil)

// fillInvoiceForm resolves the parties and lines of d into f. Company users
// always invoice as their own tenant.
func fillInvoiceForm(ctx context.Context, backend invoiceParties, st session.State, f *invoice.Form, d invoiceDraft) error {
	applyHeader(f, d)

	if st.IsTenantUser() {
		if d.Seller != "" && models.ID(d.Seller) != st.TenantID {
			return fmt.Errorf("company users can only invoice as their own tenant")
		}
		t, err := backend.GetTenant(ctx, st.TenantID)
		if err != nil {
			return fmt.Errorf("failed to load your company: %w", err)
		}
		if t != nil {
			f.LockSeller([]models.Tenant{*t}, st.TenantID)
		}
	} else if d.Seller != "" && d.Seller != f.Header.SellerID {
		tenants, err := backend.ListTenants(ctx)
		if err != nil {
			return fmt.Errorf("failed to load tenants: %w", err)
		}
		if err := f.SelectSeller(tenants, models.ID(d.Seller)); err != nil {
			return err
		}
		if f.Header.SellerID == "" {
			return fmt.Errorf("unknown seller %q", d.Seller)
		}
	}

	if d.Buyer != "" && d.Buyer != f.Header.BuyerID {
		b, err := backend.GetBuyer(ctx, models.ID(d.Buyer))
		if err != nil {
			return fmt.Errorf("failed to load buyer %s: %w", d.Buyer, err)
		}
		if b == nil {
			return fmt.Errorf("unknown buyer %q", d.Buyer)
		}
		f.SelectBuyer(b)
	}

	if len(d.Items) == 0 {
		return nil
	}
	if !f.Editable() {
		return invoice.ErrNotEditable
	}
	products := map[string]*models.Product{}
	f.Lines = nil
	for i, it := range d.Items {
		f.AddLine()
		if it.Product != "" {
			p, ok := products[it.Product]
			if !ok {
				var err error
				if p, err = backend.GetProduct(ctx, models.ID(it.Product)); err != nil {
					return fmt.Errorf("failed to load product %s: %w", it.Product, err)
				}
				if p == nil {
					return fmt.Errorf("unknown product %q", it.Product)
				}
				products[it.Product] = p
			}
			if err := f.SelectProduct(i, *p); err != nil {
				return err
			}
		}
		applyItem(&f.Lines[i], it)
	}
	return nil
}
