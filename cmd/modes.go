package cmd

import (
	"github.com/spf13/cobra"

	"macdisp/internal/display"
	"macdisp/internal/placement"
	"macdisp/internal/render"
)

var modesCmd = &cobra.Command{
	Use:   "modes <display>",
	Short: "Show every mode of a display",
	Long: `Show the full mode catalog of a display as a table, including
duplicate, scaled and unsafe modes. The mode numbers can be passed to
"macdisp set" or to the mode: key of a configuration string.`,
	Args: cobra.ExactArgs(1),
	RunE: runModes,
}

func init() {
	rootCmd.AddCommand(modesCmd)
}

func runModes(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	snap, err := display.TakeSnapshot(b)
	if err != nil {
		return err
	}
	id, err := placement.Resolve(args[0], snap)
	if err != nil {
		return err
	}

	modes := b.Modes(id)
	current, ok := b.CurrentMode(id)

	if format != render.Text {
		catalog := render.ModeCatalog{Display: id, Modes: modes}
		if ok {
			catalog.Current = &current.Number
		}
		return render.Encode(cmd.OutOrStdout(), format, catalog)
	}

	if ok {
		render.Modes(cmd.OutOrStdout(), id, modes, &current)
	} else {
		render.Modes(cmd.OutOrStdout(), id, modes, nil)
	}
	return nil
}
