package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"fbrportal/internal/forms"
	"fbrportal/internal/listview"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

var tenantsCmd = &cobra.Command{
	Use:     "tenants",
	Aliases: []string{"tenant"},
	Short:   "Manage tenant companies (platform admins)",
}

var tenantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants",
	Example: `  # Active tenants in Punjab, newest payment first
  fbrportal tenants list -q punjab --active true --sort last_payment_at --desc`,
	Args: cobra.NoArgs,
	RunE: runTenantsList,
}

var tenantsShowCmd = &cobra.Command{
	Use:   "show <tenant-id>",
	Short: "Show a tenant",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantsShow,
}

var tenantsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a tenant",
	Args:  cobra.NoArgs,
	RunE:  runTenantsCreate,
}

var tenantsUpdateCmd = &cobra.Command{
	Use:   "update <tenant-id>",
	Short: "Edit a tenant; omitted flags keep their stored values",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantsUpdate,
}

var tenantsDeleteCmd = &cobra.Command{
	Use:   "delete <tenant-id>",
	Short: "Soft-delete a tenant",
	Args:  cobra.ExactArgs(1),
	RunE:  runTenantsDelete,
}

var tenantsInviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Invite a user to a tenant",
	Long: `Send an invitation email. Company users invite into their own tenant;
platform admins pick the tenant with --tenant. Invitations expire after 72 hours.`,
	Args: cobra.NoArgs,
	RunE: runTenantsInvite,
}

func init() {
	rootCmd.AddCommand(tenantsCmd)
	tenantsCmd.AddCommand(tenantsListCmd, tenantsShowCmd, tenantsCreateCmd, tenantsUpdateCmd, tenantsDeleteCmd, tenantsInviteCmd)

	addListFlags(tenantsListCmd, listview.DefaultTenantSort.Key)
	tenantsListCmd.Flags().String("active", "", "Filter by status: true or false")

	for _, c := range []*cobra.Command{tenantsCreateCmd, tenantsUpdateCmd} {
		c.Flags().String("name", "", "Company name")
		c.Flags().String("contact-email", "", "Contact email")
		c.Flags().String("ntn", "", "7-digit NTN or 13-digit CNIC")
		c.Flags().String("address", "", "Address line")
		c.Flags().String("city", "", "City")
		c.Flags().String("province", "", "Province")
		c.Flags().String("fbr-secret", "", "FBR client secret")
		c.Flags().String("fbr-secret-sandbox", "", "FBR sandbox client secret")
	}
	tenantsUpdateCmd.Flags().Bool("active", true, "Whether the tenant is active")
	tenantsUpdateCmd.Flags().String("last-payment", "", "Last payment, local YYYY-MM-DD or YYYY-MM-DDTHH:MM")

	addYesFlag(tenantsDeleteCmd)

	tenantsInviteCmd.Flags().String("tenant", "", "Tenant id (platform admins)")
	tenantsInviteCmd.Flags().String("email", "", "Email of the person to invite")
	tenantsInviteCmd.Flags().String("role", "member", "Role: member, admin or owner")
}

func runTenantsList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("tenants")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	tenants, err := a.client.ListTenants(ctx)
	if err != nil {
		return a.fail(err, "view tenants", "Failed to load tenants")
	}
	log.Debug().Int("count", len(tenants)).Msg("Tenants loaded")

	opts := readListOptions(cmd, a)
	active, _ := cmd.Flags().GetString("active")
	filter := listview.TenantFilter{Query: opts.Query, IsActive: active}

	view := listview.New(tenants, listview.TenantSortKeys, opts.PageSize)
	view.SetFilter(filter.Match)
	return showList(ctx, cmd, a, view, opts, listview.TenantTable)
}

func runTenantsShow(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("tenants")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	t, err := a.client.GetTenant(ctx, idArg(args))
	if err != nil {
		return a.fail(err, "view this tenant", "Failed to load tenant")
	}
	if t == nil {
		return errEmptyResponse
	}
	return render(cmd, t, log,
		"ID", t.ID.String(),
		"Name", t.Name,
		"Contact email", t.ContactEmail,
		"NTN", t.NTN,
		"Address", t.AddressLine,
		"City", t.City,
		"Province", t.Province,
		"Active", strconv.FormatBool(t.IsActive),
		"Last payment", formatLocal(t.LastPaymentAt),
	)
}

func runTenantsCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("tenants")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	form := forms.TenantForm{}
	readTenantFlags(cmd, &form)
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	t, err := a.client.CreateTenant(ctx, form.Payload())
	if err != nil {
		return a.fail(err, "create tenants", "Failed to create tenant")
	}
	log.Info().Str("name", form.Payload().Name).Msg("Tenant created")
	a.notifier.Success("Tenant created")
	if jsonOutput(cmd) && t != nil {
		return writeJSON(cmd, t, log)
	}
	return nil
}

func runTenantsUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("tenants")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	id := idArg(args)
	stored, err := a.client.GetTenant(ctx, id)
	if err != nil {
		return a.fail(err, "edit this tenant", "Failed to load tenant")
	}
	if stored == nil {
		return errEmptyResponse
	}

	form := tenantFormFrom(stored)
	readTenantFlags(cmd, &form)
	if v := optionalBool(cmd, "active"); v != nil {
		form.IsActive = v
	}
	if cmd.Flags().Changed("last-payment") {
		if form.LastPaymentAt, err = timeFlag(cmd, "last-payment"); err != nil {
			return err
		}
	}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	if _, err := a.client.UpdateTenant(ctx, id, form.Payload()); err != nil {
		return a.fail(err, "edit this tenant", "Failed to update tenant")
	}
	log.Info().Str("tenant_id", id.String()).Msg("Tenant updated")
	a.notifier.Success("Tenant updated")
	return nil
}

func runTenantsDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("tenants")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	ok, err := confirm(cmd, "Are you sure you want to delete (soft) this tenant?")
	if err != nil || !ok {
		return err
	}
	id := idArg(args)
	if err := a.client.DeleteTenant(ctx, id); err != nil {
		return a.fail(err, "delete this tenant", "Failed to delete tenant")
	}
	log.Info().Str("tenant_id", id.String()).Msg("Tenant deleted")
	a.notifier.Success("Tenant deleted")
	return nil
}

func runTenantsInvite(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invitations")

	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")

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
	tenantID, err := tenantScope(cmd, st)
	if err != nil {
		return err
	}

	form := forms.InviteForm{Email: email, Role: role}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}
	inv, err := a.client.InviteUser(ctx, tenantID, form.Payload())
	if err != nil {
		return a.fail(err, "invite users", "Failed to send invitation")
	}
	log.Info().Str("tenant_id", tenantID.String()).Str("role", form.Payload().Role).Msg("Invitation sent")
	a.notifier.Success("Invitation sent.")
	if jsonOutput(cmd) && inv != nil {
		return writeJSON(cmd, inv, log)
	}
	return nil
}

func readTenantFlags(cmd *cobra.Command, form *forms.TenantForm) {
	overrideString(cmd, "name", &form.Name)
	overrideString(cmd, "contact-email", &form.ContactEmail)
	overrideString(cmd, "ntn", &form.NTN)
	overrideString(cmd, "address", &form.AddressLine)
	overrideString(cmd, "city", &form.City)
	overrideString(cmd, "province", &form.Province)
	overrideString(cmd, "fbr-secret", &form.FBRClientSecret)
	overrideString(cmd, "fbr-secret-sandbox", &form.FBRClientSecretSandbox)
}

func tenantFormFrom(t *models.Tenant) forms.TenantForm {
	active := t.IsActive
	return forms.TenantForm{
		Name:                   t.Name,
		ContactEmail:           t.ContactEmail,
		NTN:                    t.NTN,
		AddressLine:            t.AddressLine,
		City:                   t.City,
		Province:               t.Province,
		FBRClientSecret:        t.FBRClientSecret,
		FBRClientSecretSandbox: t.FBRClientSecretSandbox,
		IsActive:               &active,
		LastPaymentAt:          t.LastPaymentAt,
	}
}
