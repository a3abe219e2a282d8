package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"macdisp/internal/placement"
)

var setCmd = &cobra.Command{
	Use:   "set <display> <resolution>",
	Short: "Set display resolution",
	Long: `Set the resolution for a specific display.

The display is a numeric display id or a persistent screen id.
Resolution can be specified as:
  - Mode number: 12
  - Resolution: 1920x1080
  - With refresh: 1920x1080@60
  - HiDPI mode: 1440x900@2x (for Retina)

Examples:
  macdisp set 1 1920x1080
  macdisp set 1 1920x1080@120
  macdisp set 2 42  # Use mode number directly`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := placement.ParseShorthand(args[0], args[1])
	if err != nil {
		return fmt.Errorf("invalid resolution specification: %w", err)
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	acks, err := newApplier(b).ApplyConfigs([]placement.Config{cfg})
	if err != nil {
		return err
	}
	return printResult(cmd, acks)
}
