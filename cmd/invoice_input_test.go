package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbrportal/internal/invoice"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

func TestParseItemFlag(t *testing.T) {
	it, err := parseItemFlag("product=5, qty=2,rate=100.50,discount=10,tax=18,extra=1,further=2,fed=3,withheld=4,fixed=true,fixed-value=99,notes=Grey, 50kg bags")
	require.NoError(t, err)

	assert.Equal(t, "5", it.Product)
	assert.Equal(t, json.Number("2"), it.Quantity)
	assert.Equal(t, json.Number("100.50"), it.Rate)
	assert.Equal(t, json.Number("10"), it.Discount)
	assert.Equal(t, json.Number("18"), it.TaxPercent)
	assert.Equal(t, json.Number("1"), it.ExtraTax)
	assert.Equal(t, json.Number("2"), it.FurtherTax)
	assert.Equal(t, json.Number("3"), it.FEDPayable)
	assert.Equal(t, json.Number("4"), it.Withheld)
	assert.True(t, it.FixedNotifiedRetailPrice)
	assert.Equal(t, json.Number("99"), it.FixedNotifiedValue)
	assert.Equal(t, "Grey, 50kg bags", it.ProductNotes)
}

func TestParseItemFlagAliasesAndErrors(t *testing.T) {
	it, err := parseItemFlag("quantity=3,price=7")
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), it.Quantity)
	assert.Equal(t, json.Number("7"), it.Rate)

	_, err = parseItemFlag("qty")
	assert.Error(t, err)
	_, err = parseItemFlag("colour=red")
	assert.Error(t, err)
	_, err = parseItemFlag("fixed=maybe")
	assert.Error(t, err)
}

func draftCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "draft"}
	addInvoiceInputFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestReadInvoiceDraftFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"seller": "t-1",
		"buyer": "b-1",
		"invoice_date": "2025-03-01",
		"notes": "from file",
		"items": [{"product": "p-1", "quantity": 2, "rate": "500", "product_notes": "Cement"}]
	}`), 0o600))

	d, err := readInvoiceDraft(draftCommand(t, "--file", path, "--date", "2025-03-14"))
	require.NoError(t, err)
	assert.Equal(t, "t-1", d.Seller)
	assert.Equal(t, "2025-03-14", d.Date)
	assert.Equal(t, "from file", d.Notes)
	require.Len(t, d.Items, 1)
	assert.Equal(t, json.Number("2"), d.Items[0].Quantity)
	assert.Equal(t, json.Number("500"), d.Items[0].Rate)

	d, err = readInvoiceDraft(draftCommand(t, "-f", path, "--item", "product=p-2,qty=1,rate=10", "--item", "product=p-3,qty=4,rate=1"))
	require.NoError(t, err)
	require.Len(t, d.Items, 2, "--item replaces the items of the file")
	assert.Equal(t, "p-2", d.Items[0].Product)
	assert.Equal(t, "p-3", d.Items[1].Product)
}

func TestReadInvoiceDraftErrors(t *testing.T) {
	_, err := readInvoiceDraft(draftCommand(t, "--file", filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)

	_, err = readInvoiceDraft(draftCommand(t, "--item", "qty"))
	assert.ErrorContains(t, err, "--item 1")
}

type fakeParties struct {
	tenants  []models.Tenant
	buyers   map[models.ID]*models.Buyer
	products map[models.ID]*models.Product

	productLookups int
}

func (f *fakeParties) ListTenants(context.Context) ([]models.Tenant, error) { return f.tenants, nil }

func (f *fakeParties) GetTenant(_ context.Context, id models.ID) (*models.Tenant, error) {
	for i := range f.tenants {
		if f.tenants[i].ID == id {
			return &f.tenants[i], nil
		}
	}
	return nil, nil
}

func (f *fakeParties) GetBuyer(_ context.Context, id models.ID) (*models.Buyer, error) {
	return f.buyers[id], nil
}

func (f *fakeParties) GetProduct(_ context.Context, id models.ID) (*models.Product, error) {
	f.productLookups++
	return f.products[id], nil
}

func newFakeParties() *fakeParties {
	return &fakeParties{
		tenants: []models.Tenant{{ID: "t-1", Name: "Acme", NTN: "1234567"}, {ID: "t-2", Name: "Globex", NTN: "7654321"}},
		buyers:  map[models.ID]*models.Buyer{"b-1": {ID: "b-1", BusinessName: "Buyer Co", RegistrationType: models.Registered}},
		products: map[models.ID]*models.Product{
			"p-1": {ID: "p-1", ProductName: "Cement", HSCode: "2523.2900", RateValue: invoice.ParseNumber("18")},
		},
	}
}

var adminState = session.State{Status: session.StatusAuthenticated, User: &models.User{ID: "u-1", UserType: models.UserTypePlatformAdmin}}

func TestFillInvoiceFormAsAdmin(t *testing.T) {
	parties := newFakeParties()
	f := invoice.NewForm(false)
	d := invoiceDraft{
		Seller: "t-2",
		Buyer:  "b-1",
		Date:   "2025-03-14",
		Items: []draftItem{
			{Product: "p-1", Quantity: "2", Rate: "500", ProductNotes: "Bags"},
			{Product: "p-1", Quantity: "1", Rate: "100", TaxPercent: "5", ProductNotes: "Loose"},
		},
	}

	require.NoError(t, fillInvoiceForm(context.Background(), parties, adminState, f, d))
	assert.Equal(t, "t-2", f.Header.SellerID)
	assert.Equal(t, "b-1", f.Header.BuyerID)
	assert.Equal(t, "yes", f.Header.IsRegisteredBuyer)
	require.Len(t, f.Lines, 2)
	assert.Equal(t, "18", f.Lines[0].TaxPercent)
	assert.Equal(t, "5", f.Lines[1].TaxPercent, "the item tax wins over the product rate")
	assert.Equal(t, 1, parties.productLookups)
	assert.Nil(t, f.Validate())
}

func TestFillInvoiceFormUnknownParties(t *testing.T) {
	parties := newFakeParties()

	err := fillInvoiceForm(context.Background(), parties, adminState, invoice.NewForm(false), invoiceDraft{Seller: "t-9"})
	assert.ErrorContains(t, err, "unknown seller")

	err = fillInvoiceForm(context.Background(), parties, adminState, invoice.NewForm(false), invoiceDraft{Buyer: "b-9"})
	assert.ErrorContains(t, err, "unknown buyer")

	err = fillInvoiceForm(context.Background(), parties, adminState, invoice.NewForm(false), invoiceDraft{Items: []draftItem{{Product: "p-9"}}})
	assert.ErrorContains(t, err, "unknown product")
}

func TestFillInvoiceFormTenantUserInvoicesAsOwnTenant(t *testing.T) {
	parties := newFakeParties()
	st := session.State{
		Status:   session.StatusAuthenticated,
		TenantID: "t-1",
		User:     &models.User{ID: "u-2", UserType: models.UserTypeTenantUser},
	}

	f := invoice.NewForm(true)
	require.NoError(t, fillInvoiceForm(context.Background(), parties, st, f, invoiceDraft{}))
	assert.Equal(t, "t-1", f.Header.SellerID)
	assert.Equal(t, "1234567", f.Header.SellerNTN)

	err := fillInvoiceForm(context.Background(), parties, st, invoice.NewForm(true), invoiceDraft{Seller: "t-2"})
	assert.Error(t, err)
}

func TestFillInvoiceFormRefusesLinesOfPostedInvoice(t *testing.T) {
	f := invoice.FormFromInvoice(&models.Invoice{ID: "1", Status: models.StatusPosted}, false)
	err := fillInvoiceForm(context.Background(), newFakeParties(), adminState, f, invoiceDraft{Items: []draftItem{{Product: "p-1"}}})
	assert.ErrorIs(t, err, invoice.ErrNotEditable)
}
