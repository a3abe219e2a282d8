package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"macdisp/internal/display"
	"macdisp/internal/placement"
	"macdisp/internal/render"
)

var (
	cfgFile    string
	verbose    bool
	jsonOutput bool
	output     string
	dryRun     bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "macdisp [config ...]",
	Short: "Display enumeration and configuration for macOS",
	Long: `macdisp lists connected displays and changes their resolution, refresh
rate, color depth, scaling, origin, rotation, mirroring and enablement.

Run without arguments to list displays together with the command that
restores the current arrangement. Pass one or more configuration strings to
apply them in order:

  macdisp "id:1 res:1920x1080 hz:60 origin:(0,0)" "id:2 mirror:1"

Keys: id, mode, res, hz, color_depth, scaling (on/off), origin, degree,
mirror, enabled (true/false). The id is either the numeric display id or the
persistent screen id shown by the listing.

On macOS this tool requires the CoreGraphics framework and will not work in
sandboxed environments. On Linux it drives the X RandR extension.`,
	Version:           "0.1.0",
	Args:              cobra.ArbitraryArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.macdisp.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false,
		"output in JSON format (same as --output json)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text",
		"output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"show what would be changed without changing anything")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".macdisp")
	}

	viper.SetEnvPrefix("MACDISP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("output", "text")
	viper.SetDefault("log_level", "warn")
	// Display token used by "notch" when -d is not given.
	viper.SetDefault("notch.display", "")

	// A missing or unreadable config file is not an error.
	_ = viper.ReadInConfig()
}

// setup configures logging and colors once flags and config are merged.
func setup(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if viper.GetBool("verbose") {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    viper.GetBool("no_color"),
	})

	if f := viper.ConfigFileUsed(); f != "" {
		logrus.WithField("file", f).Debug("using config file")
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}
	color.NoColor = format != render.Text || !render.UseColor(os.Stdout, viper.GetBool("no_color"))
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return listDisplays(cmd, "", render.Options{})
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	acks, err := newApplier(b).Apply(args)
	if len(acks) > 0 || err == nil {
		if perr := printResult(cmd, acks); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

func outputFormat() (render.Format, error) {
	if viper.GetBool("json") {
		return render.JSON, nil
	}
	return render.ParseFormat(viper.GetString("output"))
}

func openBackend() (display.Backend, error) {
	b, err := display.NewBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to open display backend: %w", err)
	}
	return b, nil
}

func newApplier(b display.Backend) *placement.Applier {
	a := placement.NewApplier(b, logrus.StandardLogger())
	a.DryRun = viper.GetBool("dry_run")
	a.NotchDisplay = viper.GetString("notch.display")
	return a
}

func printResult(cmd *cobra.Command, acks []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	if format != render.Text {
		return render.Encode(cmd.OutOrStdout(), format, render.Result{
			Applied: acks,
			DryRun:  viper.GetBool("dry_run"),
		})
	}

	if len(acks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to change")
		return nil
	}
	render.Acks(cmd.OutOrStdout(), acks)
	return nil
}
