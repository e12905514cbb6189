package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"fbrportal/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// LineInput holds the user-entered values of one invoice line. Extra tax,
// further tax, withheld sales tax and FED are currency amounts, not rates.
type LineInput struct {
	Quantity         decimal.Decimal
	Rate             decimal.Decimal
	Discount         decimal.Decimal // percent
	TaxPercent       decimal.Decimal
	ExtraTax         decimal.Decimal
	FurtherTax       decimal.Decimal
	WithheldAtSource decimal.Decimal
	FEDPayable       decimal.Decimal
}

// LineResult is the computed breakdown of one line.
type LineResult struct {
	Amount           decimal.Decimal
	DiscountAmount   decimal.Decimal
	Taxable          decimal.Decimal
	SalesTax         decimal.Decimal
	ExtraTax         decimal.Decimal
	FurtherTax       decimal.Decimal
	TotalTax         decimal.Decimal
	AfterTax         decimal.Decimal
	WithheldAtSource decimal.Decimal
	FEDPayable       decimal.Decimal
	LineTotal        decimal.Decimal // value including sales tax
}

// ComputeLine derives the tax breakdown of a line. The discount percent is
// clamped to [0,100]. The line total is not floored: withheld tax larger than
// the post-tax value yields a negative total.
func ComputeLine(in LineInput) LineResult {
	amount := in.Quantity.Mul(in.Rate)
	discount := decimal.Min(decimal.Max(in.Discount, decimal.Zero), hundred)
	discountAmount := discount.Mul(amount).Div(hundred)
	taxable := decimal.Max(decimal.Zero, amount.Sub(discountAmount))
	salesTax := taxable.Mul(in.TaxPercent).Div(hundred)
	totalTax := salesTax.Add(in.ExtraTax).Add(in.FurtherTax)
	afterTax := taxable.Add(totalTax)

	return LineResult{
		Amount:           amount,
		DiscountAmount:   discountAmount,
		Taxable:          taxable,
		SalesTax:         salesTax,
		ExtraTax:         in.ExtraTax,
		FurtherTax:       in.FurtherTax,
		TotalTax:         totalTax,
		AfterTax:         afterTax,
		WithheldAtSource: in.WithheldAtSource,
		FEDPayable:       in.FEDPayable,
		LineTotal:        afterTax.Sub(in.WithheldAtSource).Add(in.FEDPayable),
	}
}

// Totals is the element-wise sum of every line of an invoice.
type Totals struct {
	Amount     decimal.Decimal `json:"amount"`
	Discount   decimal.Decimal `json:"discount"`
	Taxable    decimal.Decimal `json:"taxable"`
	SalesTax   decimal.Decimal `json:"sales_tax"`
	ExtraTax   decimal.Decimal `json:"extra_tax"`
	FurtherTax decimal.Decimal `json:"further_tax"`
	TotalTax   decimal.Decimal `json:"total_tax"`
	AfterTax   decimal.Decimal `json:"after_tax"`
	STWithheld decimal.Decimal `json:"st_withheld"`
	FEDPayable decimal.Decimal `json:"fed_payable"`
	FinalTotal decimal.Decimal `json:"final_total"`
}

// Add accumulates one computed line.
func (t Totals) Add(r LineResult) Totals {
	return Totals{
		Amount:     t.Amount.Add(r.Amount),
		Discount:   t.Discount.Add(r.DiscountAmount),
		Taxable:    t.Taxable.Add(r.Taxable),
		SalesTax:   t.SalesTax.Add(r.SalesTax),
		ExtraTax:   t.ExtraTax.Add(r.ExtraTax),
		FurtherTax: t.FurtherTax.Add(r.FurtherTax),
		TotalTax:   t.TotalTax.Add(r.TotalTax),
		AfterTax:   t.AfterTax.Add(r.AfterTax),
		STWithheld: t.STWithheld.Add(r.WithheldAtSource),
		FEDPayable: t.FEDPayable.Add(r.FEDPayable),
		FinalTotal: t.FinalTotal.Add(r.LineTotal),
	}
}

// ComputeTotals computes every line and sums the results.
func ComputeTotals(lines []LineInput) Totals {
	var t Totals
	for _, l := range lines {
		t = t.Add(ComputeLine(l))
	}
	return t
}

// ParseNumber reads user input as a decimal. Blank or non-numeric input is
// treated as zero.
func ParseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LineInputFromItem reads the computation inputs of a stored line.
func LineInputFromItem(it models.InvoiceItem) LineInput {
	return LineInput{
		Quantity:         it.Quantity,
		Rate:             it.Rate,
		Discount:         it.Discount,
		TaxPercent:       it.TaxPercentage,
		ExtraTax:         it.ExtraTax,
		FurtherTax:       it.FurtherTax,
		WithheldAtSource: it.SalesTaxWithheldAtSource,
		FEDPayable:       it.FEDPayable,
	}
}

// InvoiceTotals recomputes the totals of a stored invoice.
func InvoiceTotals(inv *models.Invoice) Totals {
	lines := make([]LineInput, 0, len(inv.Items))
	for _, it := range inv.Items {
		lines = append(lines, LineInputFromItem(it))
	}
	return ComputeTotals(lines)
}
