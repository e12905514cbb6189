package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fbrportal/internal/forms"
	"fbrportal/internal/logger"
	"fbrportal/internal/session"
	"fbrportal/pkg/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the portal",
	Long: `Sign in with email and password. When the account requires a one-time
passcode, the code sent by email is asked for on stdin; pass --code to supply
it up front, or finish later with "fbrportal verify".`,
	Example: `  # Prompt for the password
  fbrportal login --email admin@example.com

  # Non-interactive sign-in with a passcode
  fbrportal login --email admin@example.com --password secret --code 123456`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [code]",
	Short: "Complete a pending one-time passcode challenge",
	Long: `Complete the one-time passcode challenge of an earlier "fbrportal login".
The challenge is not saved between runs, so give the email it was sent to.`,
	Example: `  fbrportal verify --email admin@example.com 123456`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runVerify,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your own profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name or email",
	Args:  cobra.NoArgs,
	RunE:  runProfileUpdate,
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Reset a forgotten password",
}

var passwordResetRequestCmd = &cobra.Command{
	Use:   "reset-request",
	Short: "Email a password reset link",
	Args:  cobra.NoArgs,
	RunE:  runPasswordResetRequest,
}

var passwordResetConfirmCmd = &cobra.Command{
	Use:   "reset-confirm",
	Short: "Set a new password from a reset token",
	Args:  cobra.NoArgs,
	RunE:  runPasswordResetConfirm,
}

var invitationsCmd = &cobra.Command{
	Use:   "invitations",
	Short: "Respond to tenant invitations",
}

var invitationsAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept an invitation and create your account",
	Args:  cobra.NoArgs,
	RunE:  runInvitationAccept,
}

func init() {
	rootCmd.AddCommand(loginCmd, verifyCmd, logoutCmd, whoamiCmd, profileCmd, passwordCmd, invitationsCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	passwordCmd.AddCommand(passwordResetRequestCmd, passwordResetConfirmCmd)
	invitationsCmd.AddCommand(invitationsAcceptCmd)

	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().String("code", "", "One-time passcode, if the account asks for one")

	verifyCmd.Flags().String("email", "", "Email the passcode was sent to")
	whoamiCmd.Flags().Bool("refresh", false, "Reload the profile from the backend")

	profileUpdateCmd.Flags().String("full-name", "", "New full name (default: current)")
	profileUpdateCmd.Flags().String("email", "", "New email (default: current)")

	passwordResetRequestCmd.Flags().String("email", "", "Account email")
	passwordResetConfirmCmd.Flags().String("token", "", "Reset token from the email link")
	passwordResetConfirmCmd.Flags().String("password", "", "New password (prompted when omitted)")

	invitationsAcceptCmd.Flags().String("token", "", "Invitation token from the email link")
	invitationsAcceptCmd.Flags().String("full-name", "", "Your full name")
	invitationsAcceptCmd.Flags().String("password", "", "Password for the new account (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("login")

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	code, _ := cmd.Flags().GetString("code")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	if email, err = p.valueOr(email, "Email"); err != nil {
		return err
	}
	if password, err = p.valueOr(password, "Password"); err != nil {
		return err
	}

	form := forms.LoginForm{Email: email, Password: password}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}
	creds := form.Credentials()

	log.Info().Str("email", creds.Email).Msg("Signing in")
	st, err := a.session.LoginPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		return a.fail(err, "", st.Error)
	}

	if st.Status == session.StatusOTPPending {
		a.notifier.Info("A one-time passcode was sent to " + st.PendingEmail)
		if code, err = p.valueOr(code, "Code"); err != nil {
			return err
		}
		if st, err = verifyCode(cmd, a, st, code); err != nil {
			return err
		}
	}

	a.notifier.Success("Signed in as " + displayName(st.User))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("verify")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	email, _ := cmd.Flags().GetString("email")
	if email, err = p.valueOr(email, "Email"); err != nil {
		return err
	}
	st := a.session.ResumeOTP(forms.LoginForm{Email: email}.Credentials().Email)
	if st.Status != session.StatusOTPPending {
		return session.ErrNoPendingOTP
	}

	code := ""
	if len(args) > 0 {
		code = args[0]
	}
	if code, err = p.valueOr(code, "Code"); err != nil {
		return err
	}
	if st, err = verifyCode(cmd, a, st, code); err != nil {
		return err
	}
	a.notifier.Success("Signed in as " + displayName(st.User))
	return nil
}

// verifyCode validates code against the pending email and completes the
// challenge.
func verifyCode(cmd *cobra.Command, a *app, st session.State, code string) (session.State, error) {
	form := forms.OTPForm{Email: st.PendingEmail, Code: code}
	if err := form.Validate().Err(); err != nil {
		return st, a.fail(err, "", "")
	}
	ctx, cancel := commandContext(cmd, a.log)
	defer cancel()

	st, err := a.session.LoginVerify(ctx, form.Verification().Code)
	if err != nil {
		return st, a.fail(err, "", st.Error)
	}
	return st, nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("logout")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	a.session.Logout()
	a.notifier.Success("Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("whoami")

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
	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		if _, err := a.session.RefreshUser(ctx); err != nil {
			return a.fail(err, "", "Failed to load profile")
		}
		st = a.session.Snapshot()
	}

	u := st.User
	if u == nil {
		u = &models.User{}
	}
	return render(cmd, u, log,
		"Name", u.FullName,
		"Email", u.Email,
		"Type", string(u.UserType),
		"Role", u.Role,
		"Tenant", st.TenantID.String(),
		"Session expires", formatExpiry(st),
	)
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("profile")

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

	form := forms.ProfileForm{}
	if st.User != nil {
		form.FullName = st.User.FullName
		form.Email = st.User.Email
	}
	if cmd.Flags().Changed("full-name") {
		form.FullName, _ = cmd.Flags().GetString("full-name")
	}
	if cmd.Flags().Changed("email") {
		form.Email, _ = cmd.Flags().GetString("email")
	}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}

	u, err := a.client.UpdateMe(ctx, form.Payload())
	if err != nil {
		return a.fail(err, "update your profile", "Failed to update profile")
	}
	a.session.MergeUser(u)
	a.notifier.Success("Profile updated")
	return nil
}

func runPasswordResetRequest(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("password-reset")

	email, _ := cmd.Flags().GetString("email")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if email, err = newPrompter(cmd).valueOr(email, "Email"); err != nil {
		return err
	}

	form := forms.PasswordResetRequestForm{Email: email}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}
	if err := a.client.RequestPasswordReset(ctx, form.Payload()); err != nil {
		return a.fail(err, "", "Failed to send reset link")
	}
	a.notifier.Success("If the account exists, a reset link has been sent to " + form.Payload().Email)
	return nil
}

func runPasswordResetConfirm(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("password-reset")

	token, _ := cmd.Flags().GetString("token")
	password, _ := cmd.Flags().GetString("password")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	if password, err = newPrompter(cmd).valueOr(password, "New password"); err != nil {
		return err
	}

	form := forms.PasswordResetConfirmForm{Token: token, Password: password}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}
	if err := a.client.ConfirmPasswordReset(ctx, form.Payload()); err != nil {
		return a.fail(err, "", "Failed to reset password")
	}
	a.notifier.Success("Password updated. You can now sign in.")
	return nil
}

func runInvitationAccept(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("invitations")

	token, _ := cmd.Flags().GetString("token")
	fullName, _ := cmd.Flags().GetString("full-name")
	password, _ := cmd.Flags().GetString("password")

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	if fullName, err = p.valueOr(fullName, "Full name"); err != nil {
		return err
	}
	if password, err = p.valueOr(password, "Password"); err != nil {
		return err
	}

	form := forms.AcceptInviteForm{Token: token, FullName: fullName, Password: password}
	if err := form.Validate().Err(); err != nil {
		return a.fail(err, "", "")
	}
	if err := a.client.AcceptInvitation(ctx, form.Payload()); err != nil {
		return a.fail(err, "", "Failed to accept invitation")
	}
	a.notifier.Success("Invitation accepted. You can now sign in.")
	return nil
}

func displayName(u *models.User) string {
	if u == nil {
		return "unknown user"
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

func formatExpiry(st session.State) string {
	if st.ExpiresAt.IsZero() {
		return "-"
	}
	return st.ExpiresAt.Local().Format("2006-01-02 15:04")
}

// errNoTenantFlag is returned when a platform admin omits --tenant.
var errNoTenantFlag = errors.New("--tenant is required for platform admins")

// tenantScope returns the tenant a tenant-scoped command works on: the
// session's tenant for tenant users, the --tenant flag for platform admins.
func tenantScope(cmd *cobra.Command, st session.State) (models.ID, error) {
	flag, _ := cmd.Flags().GetString("tenant")
	if st.IsTenantUser() {
		if st.TenantID.IsZero() {
			return "", session.ErrNoTenant
		}
		if flag != "" && models.ID(flag) != st.TenantID {
			return "", fmt.Errorf("company users can only manage their own tenant")
		}
		return st.TenantID, nil
	}
	if flag == "" {
		return "", errNoTenantFlag
	}
	return models.ID(flag), nil
}
