package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fbrportal/internal/catalog"
	"fbrportal/internal/listview"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Manage the product catalog",
	Long: `Manage products and their FBR tax classification.

Choosing a transaction type looks up its sales-tax rate and the SRO schedule
that applies to it; choosing an HS code loads its description and unit of
measure. When a lookup returns several options the first one is used, or you
are asked to pick with --interactive.`,
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Args:  cobra.NoArgs,
	RunE:  runProductsList,
}

var productsShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsShow,
}

var productsCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Add a product",
	Example: `  fbrportal products create --name "Cement 50kg" --transaction-type "Goods at standard rate (default)" --hs-code 2523.2900`,
	Args:    cobra.NoArgs,
	RunE:    runProductsCreate,
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Edit a product; omitted flags keep their stored values",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsUpdate,
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Permanently delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsDelete,
}

var productsClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Resolve the tax classification of a transaction type and HS code without saving",
	Args:  cobra.NoArgs,
	RunE:  runProductsClassify,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsShowCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd, productsClassifyCmd)

	addListFlags(productsListCmd, listview.DefaultProductSort.Key)
	productsListCmd.Flags().String("transaction-type", "", "Filter by transaction type")
	productsListCmd.Flags().String("active", "", "Filter by status: true or false")

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd, productsClassifyCmd} {
		c.Flags().String("transaction-type", "", "Transaction type id or description")
		c.Flags().String("hs-code", "", "HS code")
		c.Flags().BoolP("interactive", "i", false, "Pick among several rates or SROs on stdin")
	}
	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().String("name", "", "Product name")
		c.Flags().Bool("active", true, "Whether the product is active")
	}

	addYesFlag(productsDeleteCmd)
	productsDeleteCmd.Flags().Bool("soft", false, "Deactivate instead of deleting permanently")
}

func runProductsList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("products")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	products, err := a.client.ListProducts(ctx, nil)
	if err != nil {
		return a.fail(err, "view products", "Failed to load products")
	}

	opts := readListOptions(cmd, a)
	filter := listview.ProductFilter{Query: opts.Query}
	filter.TransactionType, _ = cmd.Flags().GetString("transaction-type")
	filter.IsActive, _ = cmd.Flags().GetString("active")

	view := listview.New(products, listview.ProductSortKeys, opts.PageSize)
	view.SetFilter(filter.Match)
	return showList(ctx, cmd, a, view, opts, listview.ProductTable)
}

func runProductsShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("products")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	p, err := a.client.GetProduct(ctx, idArg(args))
	if err != nil {
		return a.fail(err, "view this product", "Failed to load product")
	}
	if p == nil {
		return errEmptyResponse
	}
	return render(cmd, p, log,
		"ID", p.ID.String(),
		"Code", p.ProductCode,
		"Name", p.ProductName,
		"Transaction type", p.TransactionType,
		"Rate", p.RateDescription,
		"SRO", p.SRODescription,
		"SRO item", p.SROItemDescription,
		"HS code", p.HSCode,
		"HS description", p.HSDescription,
		"UOM", p.UOMDescription,
		"Active", strconv.FormatBool(p.IsActive),
	)
}

func runProductsCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("products")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	state, err := classifyFromFlags(ctx, cmd, a, newResolver(cmd, a), catalog.NewProductState())
	if err != nil {
		return err
	}
	overrideString(cmd, "name", &state.ProductName)
	if v := optionalBool(cmd, "active"); v != nil {
		state.IsActive = *v
	}
	if err := state.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	p, err := a.client.CreateProduct(ctx, state.Payload())
	if err != nil {
		return a.fail(err, "create products", "Failed to create product")
	}
	log.Info().Str("product_name", state.ProductName).Msg("Product created")
	a.notifier.Success("Product created successfully!")
	if jsonOutput(cmd) && p != nil {
		return writeJSON(cmd, p, log)
	}
	return nil
}

func runProductsUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("products")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	id := idArg(args)
	stored, err := a.client.GetProduct(ctx, id)
	if err != nil {
		return a.fail(err, "edit this product", "Failed to load product")
	}
	if stored == nil {
		return errEmptyResponse
	}

	resolver := newResolver(cmd, a)
	state := resolver.Complete(ctx, catalog.StateFromProduct(*stored))
	state, err = classifyFromFlags(ctx, cmd, a, resolver, state)
	if err != nil {
		return err
	}
	overrideString(cmd, "name", &state.ProductName)
	if v := optionalBool(cmd, "active"); v != nil {
		state.IsActive = *v
	}
	if err := state.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	if _, err := a.client.UpdateProduct(ctx, id, state.Payload()); err != nil {
		return a.fail(err, "edit this product", "Failed to update product")
	}
	log.Info().Str("product_id", id.String()).Msg("Product updated")
	a.notifier.Success("Product updated successfully!")
	return nil
}

func runProductsDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("products")

	soft, _ := cmd.Flags().GetBool("soft")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	question := "Are you sure you want to permanently delete this product? This action cannot be undone."
	if soft {
		question = "Deactivate this product?"
	}
	ok, err := confirm(cmd, question)
	if err != nil || !ok {
		return err
	}

	id := idArg(args)
	if err := a.client.DeleteProduct(ctx, id, !soft); err != nil {
		return a.fail(err, "delete this product", "Failed to delete product")
	}
	log.Info().Str("product_id", id.String()).Bool("hard", !soft).Msg("Product deleted")
	a.notifier.Success("Product deleted")
	return nil
}

func runProductsClassify(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("products")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	state, err := classifyFromFlags(ctx, cmd, a, newResolver(cmd, a), catalog.NewProductState())
	if err != nil {
		return err
	}
	return render(cmd, state.Payload(), log,
		"Transaction type", state.TransactionType,
		"Rate", state.Rate.Description,
		"Rate value", state.Rate.Value.String(),
		"SRO", state.SRO.Description,
		"SRO serial", state.SRO.SerNo,
		"SRO item", state.SROItemDescription,
		"HS code", state.HSCode,
		"HS description", state.HSDescription,
		"UOM", state.UOM.Description,
	)
}

func newResolver(cmd *cobra.Command, a *app) *catalog.Resolver {
	var chooser catalog.Chooser = catalog.FirstChooser{}
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		chooser = stdinChooser{p: newPrompter(cmd)}
	}
	return catalog.NewResolver(a.client, chooser)
}

// classifyFromFlags applies --transaction-type and --hs-code to state,
// running the lookups each of them triggers.
func classifyFromFlags(ctx context.Context, cmd *cobra.Command, a *app, resolver *catalog.Resolver, state catalog.ProductState) (catalog.ProductState, error) {
	if cmd.Flags().Changed("transaction-type") {
		value, _ := cmd.Flags().GetString("transaction-type")
		types, err := a.client.TransactionTypes(ctx)
		if err != nil {
			return state, a.fail(err, "", "Failed to load transaction types")
		}
		t, ok := findTransactionType(types, value)
		if !ok {
			return state, fmt.Errorf("unknown transaction type %q; see `fbrportal refdata transaction-types`", value)
		}
		state = resolver.SelectTransactionType(ctx, state, t)
		state = resolver.SearchSRO(ctx, state)
	}
	if cmd.Flags().Changed("hs-code") {
		code, _ := cmd.Flags().GetString("hs-code")
		state = resolver.SelectHSCode(ctx, state, strings.TrimSpace(code))
	}
	if err := ctx.Err(); err != nil {
		return state, fmt.Errorf("classification interrupted: %w", err)
	}
	return state, nil
}

// findTransactionType matches value against ids first, then descriptions.
func findTransactionType(types []models.TransactionType, value string) (models.TransactionType, bool) {
	value = strings.TrimSpace(value)
	for _, t := range types {
		if t.ID.String() == value {
			return t, true
		}
	}
	for _, t := range types {
		if strings.EqualFold(t.Description, value) {
			return t, true
		}
	}
	return models.TransactionType{}, false
}
