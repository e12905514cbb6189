package cmd

import (
	"github.com/spf13/cobra"

	"fbrportal/internal/forms"
	"fbrportal/internal/listview"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage platform administrators",
}

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List platform admins",
	Args:  cobra.NoArgs,
	RunE:  runAdminsList,
}

var adminsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a platform admin",
	Args:  cobra.NoArgs,
	RunE:  runAdminsCreate,
}

var adminsUpdateCmd = &cobra.Command{
	Use:   "update <admin-id>",
	Short: "Edit a platform admin",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminsUpdate,
}

var adminsDeleteCmd = &cobra.Command{
	Use:     "delete <admin-id>",
	Aliases: []string{"demote"},
	Short:   "Demote a platform admin",
	Args:    cobra.ExactArgs(1),
	RunE:    runAdminsDelete,
}

func init() {
	rootCmd.AddCommand(adminsCmd)
	adminsCmd.AddCommand(adminsListCmd, adminsCreateCmd, adminsUpdateCmd, adminsDeleteCmd)

	addListFlags(adminsListCmd, listview.DefaultUserSort.Key)
	adminsListCmd.Flags().String("active", "", "Filter by status: true or false")

	for _, c := range []*cobra.Command{adminsCreateCmd, adminsUpdateCmd} {
		c.Flags().String("full-name", "", "Full name")
		c.Flags().String("email", "", "Email")
	}
	adminsCreateCmd.Flags().String("password", "", "Initial password (prompted when omitted)")
	adminsUpdateCmd.Flags().Bool("active", true, "Whether the admin is active")
	addYesFlag(adminsDeleteCmd)
}

func runAdminsList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("admins")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	admins, err := a.client.ListAdmins(ctx)
	if err != nil {
		return a.fail(err, "view admins", "Failed to load admins")
	}

	opts := readListOptions(cmd, a)
	active, _ := cmd.Flags().GetString("active")
	filter := listview.AdminFilter{Query: opts.Query, IsActive: active}
	view := listview.New(admins, listview.UserSortKeys, opts.PageSize)
	view.SetFilter(filter.Match)
	return showList(ctx, cmd, a, view, opts, adminTable)
}

func runAdminsCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("admins")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	form := forms.AdminForm{Creating: true, IsActive: true}
	overrideString(cmd, "full-name", &form.FullName)
	overrideString(cmd, "email", &form.Email)
	overrideString(cmd, "password", &form.Password)
	if form.Password, err = newPrompter(cmd).valueOr(form.Password, "Password"); err != nil {
		return err
	}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	if _, err := a.client.CreateAdmin(ctx, form.Payload()); err != nil {
		return a.fail(err, "create admins", "Failed to create admin")
	}
	log.Info().Str("email", form.Payload().Email).Msg("Admin created")
	a.notifier.Success("Admin created.")
	return nil
}

func runAdminsUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("admins")

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
	stored, err := a.client.GetAdmin(ctx, id)
	if err != nil {
		return a.fail(err, "edit this admin", "Failed to load admin")
	}
	if stored == nil {
		return errEmptyResponse
	}

	form := forms.AdminForm{FullName: stored.FullName, Email: stored.Email, IsActive: stored.IsActive}
	overrideString(cmd, "full-name", &form.FullName)
	overrideString(cmd, "email", &form.Email)
	if v := optionalBool(cmd, "active"); v != nil {
		form.IsActive = *v
	}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	if _, err := a.client.UpdateAdmin(ctx, id, form.Payload()); err != nil {
		return a.fail(err, "edit this admin", "Failed to update admin")
	}
	a.notifier.Success("Admin updated.")
	return nil
}

func runAdminsDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("admins")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := a.state(session.RequirePlatformAdmin); err != nil {
		return err
	}

	ok, err := confirm(cmd, "Demote this admin?")
	if err != nil || !ok {
		return err
	}
	if err := a.client.DeleteAdmin(ctx, idArg(args)); err != nil {
		return a.fail(err, "demote this admin", "Failed to demote admin")
	}
	a.notifier.Success("Admin demoted.")
	return nil
}

func adminTable(users []models.User) listview.Table {
	return listview.UserTable("Admins", users)
}
