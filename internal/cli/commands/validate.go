package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/locdist/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a locdist configuration file without reading any input.

Checks:
  - YAML syntax
  - Separator and quote settings
  - Output format and verbosity
  - Webhook URLs and triggers`,
		Args: UsageArgs(cobra.ExactArgs(1)),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return usageError(fmt.Errorf("validation failed: %w", err))
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Separator: %s\n", strconv.Quote(cfg.Input.Separator))
	fmt.Fprintf(w, "  Quote:     %s\n", strconv.Quote(cfg.Input.Quote))
	fmt.Fprintf(w, "  Extension: %s\n", cfg.Input.Extension)
	fmt.Fprintf(w, "  Output:    %s\n", cfg.Output.Format)
	fmt.Fprintf(w, "  Webhooks:  %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		fmt.Fprintf(w, "    %d. %s [%s]\n", i+1, wh.DisplayName(), wh.Trigger)
	}

	return nil
}
