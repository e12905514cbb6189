package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fbrportal/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "fbrportal",
	Short: "fbrportal - command-line client for the FBR e-invoicing portal",
	Long: `fbrportal is a command-line client for the FBR e-invoicing admin portal.

It signs in against the portal backend, keeps the session token on disk and
drives the same workflows as the web portal: tenants and their members,
platform admins, the product catalog with its FBR tax classification, buyers,
and invoices from creation through FBR validation and posting.

Configuration is read from the environment (or a .env file):
  FBR_API_BASE_URL  - Backend origin including the /api prefix
  FBR_API_TIMEOUT   - Request timeout (default 45s)
  FBR_SESSION_FILE  - Where the session token is kept
  FBR_PAGE_SIZE     - Default page size of list commands
  GOOGLE_SHEET_URL  - Default Google Sheet for --sheet exports`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("fbrportal executed without a command")

		fmt.Fprintln(cmd.OutOrStdout(), "Welcome to fbrportal!")
		fmt.Fprintln(cmd.OutOrStdout(), "Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.PersistentFlags().Int("timeout", 60, "Command timeout in seconds (0 disables it)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of a table")
}
