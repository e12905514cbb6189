package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fbrportal/pkg/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name     string
		in       LineInput
		taxable  string
		salesTax string
		total    string
	}{
		{
			name:     "plain taxed line",
			in:       LineInput{Quantity: d("2"), Rate: d("500"), TaxPercent: d("18")},
			taxable:  "1000",
			salesTax: "180",
			total:    "1180",
		},
		{
			name:     "discount and extra taxes",
			in:       LineInput{Quantity: d("10"), Rate: d("150"), Discount: d("10"), TaxPercent: d("18"), ExtraTax: d("5"), FurtherTax: d("7"), FEDPayable: d("3")},
			taxable:  "1350",
			salesTax: "243",
			total:    "1608",
		},
		{
			name:     "discount clamped to 100",
			in:       LineInput{Quantity: d("1"), Rate: d("100"), Discount: d("150"), TaxPercent: d("18")},
			taxable:  "0",
			salesTax: "0",
			total:    "0",
		},
		{
			name:     "negative discount ignored",
			in:       LineInput{Quantity: d("1"), Rate: d("100"), Discount: d("-20")},
			taxable:  "100",
			salesTax: "0",
			total:    "100",
		},
		{
			name:     "withheld larger than value stays negative",
			in:       LineInput{Quantity: d("1"), Rate: d("10"), WithheldAtSource: d("50")},
			taxable:  "10",
			salesTax: "0",
			total:    "-40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ComputeLine(tt.in)
			assertDecimal(t, tt.taxable, r.Taxable, "taxable")
			assertDecimal(t, tt.salesTax, r.SalesTax, "sales tax")
			assertDecimal(t, tt.total, r.LineTotal, "line total")
		})
	}
}

func TestParseNumber(t *testing.T) {
	assertDecimal(t, "0", ParseNumber(""))
	assertDecimal(t, "0", ParseNumber("abc"))
	assertDecimal(t, "12.5", ParseNumber(" 12.5 "))
}

func TestInvoiceTotalsSumsLines(t *testing.T) {
	inv := &models.Invoice{Items: []models.InvoiceItem{
		{Quantity: d("2"), Rate: d("500"), TaxPercentage: d("18")},
		{Quantity: d("1"), Rate: d("200"), Discount: d("50"), TaxPercentage: d("10"), SalesTaxWithheldAtSource: d("5")},
	}}

	tot := InvoiceTotals(inv)
	assertDecimal(t, "1200", tot.Amount)
	assertDecimal(t, "100", tot.Discount)
	assertDecimal(t, "1100", tot.Taxable)
	assertDecimal(t, "190", tot.SalesTax)
	assertDecimal(t, "5", tot.STWithheld)
	assertDecimal(t, "1285", tot.FinalTotal)
}
