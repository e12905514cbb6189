package cmd

import (
	"github.com/spf13/cobra"

	"fbrportal/internal/forms"
	"fbrportal/internal/listview"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage the users of a tenant",
	Long: `Manage tenant members. Company users work on their own tenant; platform
admins choose the tenant with --tenant.`,
}

var membersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenant members",
	Args:  cobra.NoArgs,
	RunE:  runMembersList,
}

var membersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a member to the tenant",
	Args:  cobra.NoArgs,
	RunE:  runMembersCreate,
}

var membersUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Edit a member's name or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersUpdate,
}

var membersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Remove a member from the tenant",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersDelete,
}

func init() {
	rootCmd.AddCommand(membersCmd)
	membersCmd.AddCommand(membersListCmd, membersCreateCmd, membersUpdateCmd, membersDeleteCmd)
	membersCmd.PersistentFlags().String("tenant", "", "Tenant id (platform admins)")

	addListFlags(membersListCmd, listview.DefaultUserSort.Key)

	for _, c := range []*cobra.Command{membersCreateCmd, membersUpdateCmd} {
		c.Flags().String("full-name", "", "Full name")
		c.Flags().String("email", "", "Email")
	}
	addYesFlag(membersDeleteCmd)
}

func runMembersList(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("members")

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

	members, err := a.client.ListMembers(ctx, tenantID)
	if err != nil {
		return a.fail(err, "view members", "Failed to load members")
	}

	opts := readListOptions(cmd, a)
	filter := listview.MemberFilter{Query: opts.Query}
	view := listview.New(members, listview.UserSortKeys, opts.PageSize)
	view.SetFilter(filter.Match)
	return showList(ctx, cmd, a, view, opts, memberTable)
}

func runMembersCreate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("members")

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

	form := forms.MemberForm{}
	overrideString(cmd, "full-name", &form.FullName)
	overrideString(cmd, "email", &form.Email)
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	if _, err := a.client.CreateMember(ctx, tenantID, form.CreatePayload()); err != nil {
		return a.fail(err, "create members", "Failed to create member")
	}
	log.Info().Str("tenant_id", tenantID.String()).Msg("Member created")
	a.notifier.Success("Member created")
	return nil
}

func runMembersUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("members")

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

	userID := idArg(args)
	stored, err := a.client.GetMember(ctx, tenantID, userID)
	if err != nil {
		return a.fail(err, "edit this member", "Failed to load member")
	}
	if stored == nil {
		return errEmptyResponse
	}

	form := forms.MemberForm{FullName: stored.FullName, Email: stored.Email}
	overrideString(cmd, "full-name", &form.FullName)
	overrideString(cmd, "email", &form.Email)
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	if _, err := a.client.UpdateMember(ctx, tenantID, userID, form.UpdatePayload()); err != nil {
		return a.fail(err, "edit this member", "Failed to update member")
	}
	a.notifier.Success("Member updated")
	return nil
}

func runMembersDelete(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("members")

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

	ok, err := confirm(cmd, "Delete this member?")
	if err != nil || !ok {
		return err
	}
	if err := a.client.DeleteMember(ctx, tenantID, idArg(args)); err != nil {
		return a.fail(err, "delete this member", "Failed to delete member")
	}
	a.notifier.Success("Member deleted")
	return nil
}

func memberTable(users []models.User) listview.Table {
	return listview.UserTable("Members", users)
}
