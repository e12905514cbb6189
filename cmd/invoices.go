package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fbrportal/internal/invoice"
	"fbrportal/internal/listview"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

const currency = "PKR"

var invoicesCmd = &cobra.Command{
	Use:     "invoices",
	Aliases: []string{"invoice"},
	Short:   "Create invoices and submit them to FBR",
	Long: `Create, validate and post sales invoices.

An invoice moves CREATED -> VALIDATED -> POSTED. Validation sends the invoice
to FBR for checking; posting submits it and records the FBR invoice number.
Only CREATED and VALIDATED invoices can be edited.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	Example: `  # Posted invoices of March, refreshed every 30 seconds
  fbrportal invoices list --status POSTED --date-from 2025-03-01 --date-to 2025-03-31 --watch 30s`,
	Args: cobra.NoArgs,
	RunE: runInvoicesList,
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show <invoice-id>",
	Short: "Show an invoice with its lines and totals",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesShow,
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice",
	Example: `  fbrportal invoices create --buyer 12 --date 2025-03-14 \
    --item "product=7,qty=10,rate=450,notes=Cement bags, grey"

  fbrportal invoices create -f draft.json`,
	Args: cobra.NoArgs,
	RunE: runInvoicesCreate,
}

var invoicesUpdateCmd = &cobra.Command{
	Use:   "update <invoice-id>",
	Short: "Edit an invoice; --item replaces all lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesUpdate,
}

var invoicesValidateCmd = &cobra.Command{
	Use:   "validate <invoice-id>",
	Short: "Validate a CREATED invoice with FBR",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesValidate,
}

var invoicesPostCmd = &cobra.Command{
	Use:   "post <invoice-id>",
	Short: "Post a VALIDATED invoice to FBR",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesPost,
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete <invoice-id>",
	Short: "Permanently delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoicesDelete,
}

var invoicesTotalsCmd = &cobra.Command{
	Use:   "totals [invoice-id]",
	Short: "Compute invoice totals",
	Long: `Compute the tax breakdown of a stored invoice, or of the lines given with
--item or --file without contacting the backend.`,
	Example: `  fbrportal invoices totals --item "qty=3,rate=100,discount=10,tax=18"`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runInvoicesTotals,
}

var invoicesDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Sales summary: totals, status counts, trend and top buyers",
	Args:  cobra.NoArgs,
	RunE:  runInvoicesDashboard,
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	invoicesCmd.AddCommand(invoicesListCmd, invoicesShowCmd, invoicesCreateCmd, invoicesUpdateCmd,
		invoicesValidateCmd, invoicesPostCmd, invoicesDeleteCmd, invoicesTotalsCmd, invoicesDashboardCmd)

	addListFlags(invoicesListCmd, "")
	invoicesListCmd.Flags().String("fbr-invoice-no", "", "Exact FBR invoice number")
	invoicesListCmd.Flags().String("usin", "", "Exact USIN")
	invoicesListCmd.Flags().String("customer", "", "Exact customer name")
	invoicesListCmd.Flags().String("status", "", "Exact status, e.g. POSTED")
	invoicesListCmd.Flags().String("date-from", "", "Invoice date from, YYYY-MM-DD")
	invoicesListCmd.Flags().String("date-to", "", "Invoice date to, YYYY-MM-DD")
	invoicesListCmd.Flags().String("created-from", "", "Created from, YYYY-MM-DD")
	invoicesListCmd.Flags().String("created-to", "", "Created to, YYYY-MM-DD")
	invoicesListCmd.Flags().Duration("watch", 0, "Refetch and reprint at this interval until interrupted")

	addInvoiceInputFlags(invoicesCreateCmd)
	addInvoiceInputFlags(invoicesUpdateCmd)
	invoicesTotalsCmd.Flags().StringP("file", "f", "", "JSON invoice draft")
	invoicesTotalsCmd.Flags().StringArray("item", nil, "Invoice line, repeatable (see invoices create)")

	addYesFlag(invoicesDeleteCmd)

	invoicesDashboardCmd.Flags().String("period", string(invoice.Monthly), "Trend grouping: daily, weekly, monthly, quarterly or yearly")
}

func runInvoicesList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	watch, _ := cmd.Flags().GetDuration("watch")

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if watch > 0 && !cmd.Flags().Changed("timeout") {
		ctx, cancel = signalContext(cmd, log, 0)
	} else {
		ctx, cancel = commandContext(cmd, log)
	}
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	opts := readListOptions(cmd, a)
	filter := listview.InvoiceFilter{Query: opts.Query}
	filter.FBRInvoiceNo, _ = cmd.Flags().GetString("fbr-invoice-no")
	filter.USINNo, _ = cmd.Flags().GetString("usin")
	filter.CustomerName, _ = cmd.Flags().GetString("customer")
	filter.Status, _ = cmd.Flags().GetString("status")
	filter.InvoiceDate.Start, _ = cmd.Flags().GetString("date-from")
	filter.InvoiceDate.End, _ = cmd.Flags().GetString("date-to")
	filter.CreatedAt.Start, _ = cmd.Flags().GetString("created-from")
	filter.CreatedAt.End, _ = cmd.Flags().GetString("created-to")

	loader := listview.NewLoader(func(ctx context.Context) ([]models.Invoice, error) {
		return a.client.ListInvoices(ctx, nil)
	})
	defer loader.Close()

	view := listview.New[models.Invoice](nil, listview.InvoiceSortKeys, opts.PageSize)
	view.SetFilter(filter.Match)

	refresh := func() error {
		invoices, err := loader.Refresh(ctx)
		if err != nil {
			return a.fail(err, "view invoices", "Failed to load invoices")
		}
		view.SetItems(invoices)
		return showList(ctx, cmd, a, view, opts, listview.InvoiceTable)
	}

	if err := refresh(); err != nil || watch <= 0 {
		return err
	}

	ticker := time.NewTicker(watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Stopped watching invoices")
			return nil
		case <-ticker.C:
			fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n", time.Now().Format("15:04:05"))
			if err := refresh(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Warn().Err(err).Msg("Invoice refresh failed")
			}
		}
	}
}

func runInvoicesShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	inv, err := a.client.GetInvoice(ctx, idArg(args))
	if err != nil {
		return a.fail(err, "view this invoice", "Failed to load invoice")
	}
	if inv == nil {
		return errEmptyResponse
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, inv, log)
	}

	_, buyer := inv.BuyerIdentity()
	if err := writeFields(cmd,
		"ID", inv.ID.String(),
		"FBR invoice no", inv.FBRInvoiceNo,
		"USIN", inv.USINNo,
		"Type", string(inv.InvType),
		"Date", inv.InvoiceDate,
		"Status", string(inv.EffectiveStatus()),
		"Seller", inv.CustomerName,
		"Buyer", buyer,
		"Buyer NTN/CNIC", inv.CNICBuyer,
		"Reference", inv.InvoiceReferenceNumber,
		"Notes", inv.Notes,
	); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	if err := printTable(cmd.OutOrStdout(), invoiceItemTable(inv.Items)); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return writeTotals(cmd, invoice.InvoiceTotals(inv))
}

func runInvoicesCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	draft, err := readInvoiceDraft(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	st, err := a.state(session.RequireAuth)
	if err != nil {
		return err
	}

	form := invoice.NewForm(st.IsTenantUser())
	if err := fillInvoiceForm(ctx, a.client, st, form, draft); err != nil {
		return a.fail(err, "create invoices", err.Error())
	}

	inv, err := invoice.NewService(a.client).Save(ctx, form)
	if err != nil {
		return a.invoiceFail(err, "create invoices", "Failed to create invoice")
	}
	a.notifier.Success("Invoice created successfully")
	if inv == nil {
		return nil
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, inv, log)
	}
	return writeFields(cmd, "ID", inv.ID.String(), "Status", string(inv.EffectiveStatus()))
}

func runInvoicesUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	draft, err := readInvoiceDraft(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	st, err := a.state(session.RequireAuth)
	if err != nil {
		return err
	}

	id := idArg(args)
	stored, err := a.client.GetInvoice(ctx, id)
	if err != nil {
		return a.fail(err, "edit this invoice", "Failed to load invoice")
	}
	if stored == nil {
		return errEmptyResponse
	}

	form := invoice.FormFromInvoice(stored, st.IsTenantUser())
	if form.Header.BuyerID == "" {
		// Older invoices only carry the buyer name.
		buyers, err := a.client.ListBuyers(ctx, st.TenantID)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load buyers for matching")
		} else if form.MatchBuyer(buyers) {
			log.Debug().Str("buyer_id", form.Header.BuyerID).Msg("Matched buyer by name")
		}
	}
	if err := fillInvoiceForm(ctx, a.client, st, form, draft); err != nil {
		if errors.Is(err, invoice.ErrNotEditable) {
			return a.invoiceFail(err, "", "")
		}
		return a.fail(err, "edit this invoice", err.Error())
	}

	if _, err := invoice.NewService(a.client).Save(ctx, form); err != nil {
		return a.invoiceFail(err, "edit this invoice", "Failed to update invoice")
	}
	a.notifier.Success("Invoice updated successfully")
	return nil
}

func runInvoicesValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, inv, err := loadInvoiceForAction(ctx, cmd, args, "validate this invoice")
	if err != nil {
		return err
	}

	wf := invoice.NewWorkflow(a.client, invoice.WithSnapshots(a.statusNotice))
	final, err := wf.Validate(ctx, inv)
	if err != nil {
		return a.invoiceFail(err, "validate this invoice", "Failed to validate invoice")
	}
	a.notifier.Success("Invoice data has been validated with FBR successfully.")
	if final.EffectiveStatus() != models.StatusValidated {
		a.notifier.Info("The VALIDATED status could not be saved. Refresh the invoice before posting it.")
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, final, log)
	}
	return nil
}

func runInvoicesPost(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, inv, err := loadInvoiceForAction(ctx, cmd, args, "post this invoice")
	if err != nil {
		return err
	}

	wf := invoice.NewWorkflow(a.client, invoice.WithSnapshots(a.statusNotice))
	final, err := wf.Post(ctx, inv)
	if err != nil {
		var fbrErr *invoice.FBRError
		if errors.As(err, &fbrErr) {
			a.notifier.Error("Failed to post invoice to FBR")
		}
		return a.invoiceFail(err, "post this invoice", "Failed to post invoice to FBR")
	}
	a.notifier.Success(fmt.Sprintf("Invoice posted to FBR successfully! FBR Invoice #: %s", final.FBRInvoiceNo))
	if jsonOutput(cmd) {
		return writeJSON(cmd, final, log)
	}
	return nil
}

func runInvoicesDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	ok, err := confirm(cmd, "Are you sure you want to permanently delete this invoice? This action cannot be undone.")
	if err != nil || !ok {
		return err
	}
	if err := invoice.NewWorkflow(a.client).Delete(ctx, idArg(args)); err != nil {
		return a.fail(err, "delete this invoice", "Failed to delete invoice")
	}
	a.notifier.Success("Invoice deleted")
	return nil
}

func runInvoicesTotals(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invoices")

	if len(args) == 0 {
		draft, err := readInvoiceDraft(cmd)
		if err != nil {
			return err
		}
		if len(draft.Items) == 0 {
			return fmt.Errorf("give an invoice id, --item or --file")
		}
		form := &invoice.Form{Lines: draftLines(draft)}
		return renderTotals(cmd, form.Totals(), log)
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}
	inv, err := a.client.GetInvoice(ctx, idArg(args))
	if err != nil {
		return a.fail(err, "view this invoice", "Failed to load invoice")
	}
	if inv == nil {
		return errEmptyResponse
	}
	return renderTotals(cmd, invoice.InvoiceTotals(inv), log)
}

func runInvoicesDashboard(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("dashboard")

	period, _ := cmd.Flags().GetString("period")
	switch invoice.Period(period) {
	case invoice.Daily, invoice.Weekly, invoice.Monthly, invoice.Quarterly, invoice.Yearly:
	default:
		return fmt.Errorf("unknown period %q", period)
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	invoices, err := a.client.ListInvoicesExpanded(ctx, nil)
	if err != nil {
		return a.fail(err, "view the dashboard", "Failed to load dashboard data")
	}
	summary := invoice.Summarize(invoices, invoice.Period(period))
	log.Debug().Int("count", summary.Count).Str("period", period).Msg("Dashboard summarized")

	if jsonOutput(cmd) {
		return writeJSON(cmd, summary, log)
	}

	out := cmd.OutOrStdout()
	if err := writeFields(cmd,
		"Total sales", invoice.FormatCurrency(currency, summary.TotalSales),
		"Invoices", strconv.Itoa(summary.Count),
		"Average invoice", invoice.FormatCurrency(currency, summary.Average),
	); err != nil {
		return err
	}

	statuses := listview.Table{Headers: []string{"Status", "Count"}}
	for _, s := range summary.Statuses {
		statuses.Rows = append(statuses.Rows, []string{s.Status, strconv.Itoa(s.Count)})
	}
	trend := listview.Table{Headers: []string{"Period", "Sales"}}
	for _, p := range summary.Trend {
		trend.Rows = append(trend.Rows, []string{p.Key, invoice.FormatAmount(p.Total)})
	}
	buyers := listview.Table{Headers: []string{"Buyer", "Sales", "Share"}}
	for _, b := range summary.TopBuyers {
		buyers.Rows = append(buyers.Rows, []string{b.Name, invoice.FormatAmount(b.Total), fmt.Sprintf("%d%%", b.Share)})
	}

	sections := []struct {
		title string
		table listview.Table
	}{
		{"Invoice status", statuses},
		{"Sales trend (" + period + ")", trend},
		{"Top buyers", buyers},
		{"Recent invoices", listview.InvoiceTable(summary.Recent)},
	}
	for _, s := range sections {
		fmt.Fprintf(out, "\n%s\n", s.title)
		if err := printTable(out, s.table); err != nil {
			return err
		}
	}
	return nil
}

// loadInvoiceForAction opens the app and fetches the invoice a lifecycle
// command acts on.
func loadInvoiceForAction(ctx context.Context, cmd *cobra.Command, args []string, action string) (*app, *models.Invoice, error) {
	a, err := openApp(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return nil, nil, err
	}
	inv, err := a.client.GetInvoice(ctx, idArg(args))
	if err != nil {
		return nil, nil, a.fail(err, action, "Failed to load invoice")
	}
	if inv == nil {
		return nil, nil, errEmptyResponse
	}
	return a, inv, nil
}

// statusNotice reports every status an invoice passes through.
func (a *app) statusNotice(inv *models.Invoice) {
	a.notifier.Info(fmt.Sprintf("Invoice %s: %s", inv.ID, inv.EffectiveStatus()))
}

// invoiceNotices are the user messages of the lifecycle rule violations.
var invoiceNotices = []struct {
	err error
	msg string
}{
	{invoice.ErrNotEditable, "This invoice can no longer be edited"},
	{invoice.ErrNotValidatable, "Only CREATED invoices can be validated"},
	{invoice.ErrNotPostable, "Only VALIDATED invoices can be posted"},
}

// invoiceFail is fail for invoice operations: FBR rejections show the
// upstream messages and lifecycle violations a fixed notice.
func (a *app) invoiceFail(err error, action, fallback string) error {
	var fbrErr *invoice.FBRError
	if errors.As(err, &fbrErr) {
		a.log.Error().Err(err).Strs("messages", fbrErr.Messages).Msg("FBR rejected invoice")
		return &userError{msg: fbrErr.Message(), err: err}
	}
	for _, n := range invoiceNotices {
		if errors.Is(err, n.err) {
			a.log.Warn().Err(err).Msg(n.msg)
			return &userError{msg: n.msg, err: err}
		}
	}
	return a.fail(err, action, fallback)
}

func invoiceItemTable(items []models.InvoiceItem) listview.Table {
	t := listview.Table{
		Title:   "Items",
		Headers: []string{"Product", "HS Code", "Qty", "Rate", "Discount", "Tax %", "Sales Tax", "Line Total", "Notes"},
	}
	for _, it := range items {
		r := invoice.ComputeLine(invoice.LineInputFromItem(it))
		name := it.ProductName
		if name == "" {
			name = it.Product.String()
		}
		t.Rows = append(t.Rows, []string{
			name,
			it.HSCode,
			it.Quantity.String(),
			invoice.FormatAmount(it.Rate),
			invoice.FormatAmount(r.DiscountAmount),
			it.TaxPercentage.String(),
			invoice.FormatAmount(r.SalesTax),
			invoice.FormatAmount(r.LineTotal),
			it.ProductNotes,
		})
	}
	return t
}

func writeTotals(cmd *cobra.Command, t invoice.Totals) error {
	return writeFields(cmd,
		"Amount", invoice.FormatAmount(t.Amount),
		"Discount", invoice.FormatAmount(t.Discount),
		"Taxable", invoice.FormatAmount(t.Taxable),
		"Sales tax", invoice.FormatAmount(t.SalesTax),
		"Extra tax", invoice.FormatAmount(t.ExtraTax),
		"Further tax", invoice.FormatAmount(t.FurtherTax),
		"Total tax", invoice.FormatAmount(t.TotalTax),
		"After tax", invoice.FormatAmount(t.AfterTax),
		"ST withheld", invoice.FormatAmount(t.STWithheld),
		"FED payable", invoice.FormatAmount(t.FEDPayable),
		"Final total", invoice.FormatCurrency(currency, t.FinalTotal),
	)
}

func renderTotals(cmd *cobra.Command, t invoice.Totals, log zerolog.Logger) error {
	if jsonOutput(cmd) {
		return writeJSON(cmd, t, log)
	}
	return writeTotals(cmd, t)
}
