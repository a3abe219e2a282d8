package cmd

import (
	"github.com/spf13/cobra"

	"macdisp/internal/placement"
)

var notchDisplayToken string

var notchCmd = &cobra.Command{
	Use:   "notch hide|show|toggle",
	Short: "Hide or show the notch area of a built-in display",
	Long: `Switch between modes that differ only in height so that the strip
beside the camera notch is used or left black.

Without -d the display comes from notch.display in the config file, then
the first built-in display, then the main display.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"hide", "show", "toggle"},
	RunE:      runNotch,
}

func init() {
	rootCmd.AddCommand(notchCmd)

	notchCmd.Flags().StringVarP(&notchDisplayToken, "display", "d", "",
		"display id or persistent id")
}

func runNotch(cmd *cobra.Command, args []string) error {
	action, err := placement.ParseNotchAction(args[0])
	if err != nil {
		return err
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	msg, err := newApplier(b).Notch(action, notchDisplayToken)
	if err != nil {
		return err
	}
	return printResult(cmd, []string{msg})
}
