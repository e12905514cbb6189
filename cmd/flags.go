package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fbrportal/pkg/models"
)

// overrideString copies the flag into dst when it was given on the command
// line, so edit commands keep stored values for omitted flags.
func overrideString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

// optionalBool returns the flag value when it was given, nil otherwise.
func optionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// localTimeLayouts are accepted by timeFlag, most specific first.
var localTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

// timeFlag parses a local date or date-time flag.
func timeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("--%s must be YYYY-MM-DD or YYYY-MM-DDTHH:MM, got %q", name, raw)
}

// idArg returns args[0] as an ID.
func idArg(args []string) models.ID {
	return models.ID(strings.TrimSpace(args[0]))
}

func addYesFlag(c *cobra.Command) {
	c.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// confirm asks question on stdin unless --yes was given.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	answer, err := newPrompter(cmd).Line(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
