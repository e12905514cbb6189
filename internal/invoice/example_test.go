package invoice_test

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fbrportal/internal/invoice"
)

// ExampleComputeLine shows the breakdown of a discounted, taxed line.
func ExampleComputeLine() {
	line := invoice.ComputeLine(invoice.LineInput{
		Quantity:         invoice.ParseNumber("10"),
		Rate:             invoice.ParseNumber("150"),
		Discount:         invoice.ParseNumber("10"),
		TaxPercent:       invoice.ParseNumber("18"),
		ExtraTax:         invoice.ParseNumber("5"),
		WithheldAtSource: invoice.ParseNumber("20"),
	})

	fmt.Println("amount:", invoice.FormatAmount(line.Amount))
	fmt.Println("taxable:", invoice.FormatAmount(line.Taxable))
	fmt.Println("sales tax:", invoice.FormatAmount(line.SalesTax))
	fmt.Println("total:", invoice.FormatAmount(line.LineTotal))
	// Output:
	// amount: 1,500.00
	// taxable: 1,350.00
	// sales tax: 243.00
	// total: 1,578.00
}

// ExampleFormatAmount shows the fixed en-US grouping.
func ExampleFormatAmount() {
	fmt.Println(invoice.FormatAmount(decimal.RequireFromString("1234567.005")))
	fmt.Println(invoice.FormatAmount(decimal.Zero))
	fmt.Println(invoice.FormatAmount(decimal.RequireFromString("123456789012345678.91")))
	fmt.Println(invoice.FormatAmount(decimal.RequireFromString("-98765.4")))
	fmt.Println(invoice.FormatAmount(decimal.RequireFromString("-0.001")))
	fmt.Println(invoice.FormatCount(1234567))
	// Output:
	// 1,234,567.01
	// 0.00
	// 123,456,789,012,345,678.91
	// -98,765.40
	// 0.00
	// 1,234,567
}
