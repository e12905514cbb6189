package cmd

import (
	"github.com/spf13/cobra"

	"fbrportal/internal/forms"
	"fbrportal/internal/listview"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

var buyersCmd = &cobra.Command{
	Use:     "buyers",
	Aliases: []string{"buyer"},
	Short:   "Manage buyers invoices are issued to",
}

var buyersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buyers",
	Args:  cobra.NoArgs,
	RunE:  runBuyersList,
}

var buyersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a buyer",
	Example: `  fbrportal buyers create --business-name "Acme Traders" --ntn-cnic 1234567 \
    --province Punjab --registration-type registered`,
	Args: cobra.NoArgs,
	RunE: runBuyersCreate,
}

var buyersUpdateCmd = &cobra.Command{
	Use:   "update <buyer-id>",
	Short: "Edit a buyer; omitted flags keep their stored values",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuyersUpdate,
}

var buyersDeleteCmd = &cobra.Command{
	Use:   "delete <buyer-id>",
	Short: "Delete a buyer",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuyersDelete,
}

func init() {
	rootCmd.AddCommand(buyersCmd)
	buyersCmd.AddCommand(buyersListCmd, buyersCreateCmd, buyersUpdateCmd, buyersDeleteCmd)

	addListFlags(buyersListCmd, listview.DefaultBuyerSort.Key)
	buyersListCmd.Flags().String("tenant", "", "Only buyers of this tenant (platform admins)")
	buyersListCmd.Flags().String("registration-type", "", "Filter: registered or unregistered")

	for _, c := range []*cobra.Command{buyersCreateCmd, buyersUpdateCmd} {
		c.Flags().String("tenant", "", "Owning tenant id (platform admins)")
		c.Flags().String("business-name", "", "Business name")
		c.Flags().String("ntn-cnic", "", "7-digit NTN or 13-digit CNIC")
		c.Flags().String("province", "", "Province")
		c.Flags().String("address", "", "Address")
		c.Flags().String("registration-type", "", "registered or unregistered")
	}
	addYesFlag(buyersDeleteCmd)
}

func runBuyersList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("buyers")

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

	// tenant users only ever see their own buyers
	tenantID := st.TenantID
	if !st.IsTenantUser() {
		flag, _ := cmd.Flags().GetString("tenant")
		tenantID = models.ID(flag)
	}

	buyers, err := a.client.ListBuyers(ctx, tenantID)
	if err != nil {
		return a.fail(err, "view buyers", "Failed to load buyers")
	}

	opts := readListOptions(cmd, a)
	filter := listview.BuyerFilter{Query: opts.Query}
	filter.RegistrationType, _ = cmd.Flags().GetString("registration-type")

	view := listview.New(buyers, listview.BuyerSortKeys, opts.PageSize)
	view.SetFilter(filter.Match)
	return showList(ctx, cmd, a, view, opts, listview.BuyerTable)
}

func runBuyersCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("buyers")

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

	form := forms.BuyerForm{TenantUser: st.IsTenantUser()}
	readBuyerFlags(cmd, &form)
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	b, err := a.client.CreateBuyer(ctx, form.Payload())
	if err != nil {
		return a.fail(err, "create buyers", "Failed to create buyer")
	}
	log.Info().Str("business_name", form.Payload().BusinessName).Msg("Buyer created")
	a.notifier.Success("Buyer created")
	if jsonOutput(cmd) && b != nil {
		return writeJSON(cmd, b, log)
	}
	return nil
}

func runBuyersUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("buyers")

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
	stored, err := a.client.GetBuyer(ctx, id)
	if err != nil {
		return a.fail(err, "edit this buyer", "Failed to load buyer")
	}
	if stored == nil {
		return errEmptyResponse
	}

	form := forms.BuyerFormFrom(*stored, st.IsTenantUser())
	readBuyerFlags(cmd, &form)
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	if _, err := a.client.UpdateBuyer(ctx, id, form.Payload()); err != nil {
		return a.fail(err, "edit this buyer", "Failed to update buyer")
	}
	a.notifier.Success("Buyer updated")
	return nil
}

func runBuyersDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("buyers")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequireAuth); err != nil {
		return err
	}

	ok, err := confirm(cmd, "Delete this buyer?")
	if err != nil || !ok {
		return err
	}
	if err := a.client.DeleteBuyer(ctx, idArg(args)); err != nil {
		return a.fail(err, "delete this buyer", "Failed to delete buyer")
	}
	a.notifier.Success("Buyer deleted")
	return nil
}

func readBuyerFlags(cmd *cobra.Command, form *forms.BuyerForm) {
	overrideString(cmd, "tenant", &form.Tenant)
	overrideString(cmd, "business-name", &form.BusinessName)
	overrideString(cmd, "ntn-cnic", &form.NTNCNIC)
	overrideString(cmd, "province", &form.Province)
	overrideString(cmd, "address", &form.Address)
	overrideString(cmd, "registration-type", &form.RegistrationType)
}
