package cmd

import (
	"github.com/spf13/cobra"

	"macdisp/internal/display"
	"macdisp/internal/placement"
	"macdisp/internal/render"
)

var (
	showAll       bool
	displayToken  string
	groupByAspect bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List displays and available resolutions",
	Long: `List all active displays, their current configuration and available
modes, followed by the command that restores the current arrangement.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&showAll, "all", "a", false,
		"show all modes including duplicates")
	listCmd.Flags().StringVarP(&displayToken, "display", "d", "",
		"only show the display with this id or persistent id")
	listCmd.Flags().BoolVarP(&groupByAspect, "group", "g", false,
		"group resolutions by aspect ratio")
}

func runList(cmd *cobra.Command, args []string) error {
	return listDisplays(cmd, displayToken, render.Options{
		Dedupe:        !showAll,
		GroupByAspect: groupByAspect,
	})
}

func listDisplays(cmd *cobra.Command, token string, opts render.Options) error {
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

	infos := snap.Displays()
	if token != "" {
		id, err := placement.Resolve(token, snap)
		if err != nil {
			return err
		}
		info, _ := snap.Lookup(id)
		infos = []display.Info{info}
	}

	views := make([]render.DisplayView, 0, len(infos))
	for _, info := range infos {
		modes := b.Modes(info.ID)
		views = append(views, render.DisplayView{
			Info:     info,
			Modes:    modes,
			Commands: placement.CommandFor(info, snap, modes),
		})
	}
	listing := render.NewListing(cmd.Root().Name(), views)

	if format != render.Text {
		return render.Encode(cmd.OutOrStdout(), format, listing)
	}
	render.Displays(cmd.OutOrStdout(), listing, opts)
	return nil
}
