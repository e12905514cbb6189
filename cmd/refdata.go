package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"fbrportal/internal/listview"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Look up FBR reference data",
	Long: `Print the reference lists used by products, buyers and invoices. The -q flag
narrows any list with a case-insensitive search.`,
}

var refdataProvincesCmd = &cobra.Command{
	Use:   "provinces",
	Short: "List provinces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRefdata(cmd, "provinces",
			func(ctx context.Context, a *app) ([]models.Province, error) { return a.client.Provinces(ctx) },
			func(p models.Province) []string { return []string{p.Code.String(), p.Description} },
			"Code", "Province")
	},
}

var refdataTransactionTypesCmd = &cobra.Command{
	Use:   "transaction-types",
	Short: "List FBR transaction types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRefdata(cmd, "transaction types",
			func(ctx context.Context, a *app) ([]models.TransactionType, error) {
				return a.client.TransactionTypes(ctx)
			},
			func(t models.TransactionType) []string { return []string{t.ID.String(), t.Description} },
			"ID", "Description")
	},
}

var refdataHSCodesCmd = &cobra.Command{
	Use:     "hs-codes",
	Short:   "List HS codes",
	Example: `  fbrportal refdata hs-codes -q cement`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRefdata(cmd, "HS codes",
			func(ctx context.Context, a *app) ([]models.HSCode, error) { return a.client.HSCodes(ctx) },
			func(h models.HSCode) []string { return []string{h.Code, h.Description} },
			"HS Code", "Description")
	},
}

var refdataScenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List invoice scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRefdata(cmd, "scenarios",
			func(ctx context.Context, a *app) ([]models.Scenario, error) { return a.client.ListScenarios(ctx) },
			func(s models.Scenario) []string { return []string{s.ID.String(), s.Code, s.Description} },
			"ID", "Code", "Description")
	},
}

func init() {
	rootCmd.AddCommand(refdataCmd)
	refdataCmd.AddCommand(refdataProvincesCmd, refdataTransactionTypesCmd, refdataHSCodesCmd, refdataScenariosCmd)
	refdataCmd.PersistentFlags().StringP("query", "q", "", "Case-insensitive search")
}

// runRefdata fetches a reference list, keeps the rows matching --query and
// prints them.
func runRefdata[T any](cmd *cobra.Command, what string, fetch func(context.Context, *app) ([]T, error), row func(T) []string, headers ...string) error {
	log := logger.WithComponent("refdata")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	items, err := fetch(ctx, a)
	if err != nil {
		return a.fail(err, "", "Failed to load "+what)
	}

	query, _ := cmd.Flags().GetString("query")
	matched := make([]T, 0, len(items))
	table := listview.Table{Title: what, Headers: headers}
	for _, it := range items {
		cells := row(it)
		if !listview.ContainsFold(query, cells...) {
			continue
		}
		matched = append(matched, it)
		table.Rows = append(table.Rows, cells)
	}
	log.Debug().Int("count", len(items)).Int("matched", len(matched)).Msg("Reference data loaded")

	if jsonOutput(cmd) {
		return writeJSON(cmd, matched, log)
	}
	return writeTable(cmd, table)
}
