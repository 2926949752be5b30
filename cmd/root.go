package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// configFile is the optional YAML job description shared by all commands.
var configFile string

var rootCmd = &cobra.Command{
	Use:   "resizer",
	Short: "resizer - batch resize and filter images",
	Long:  "resizer validates a batch of images, resizes each one under a single sizing policy, applies an optional chain of filters and writes the results to an output folder.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML job file")
}

// addSizeFlags registers the flags shared by run and plan. They are bound to
// configuration keys by config.Load.
func addSizeFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "destination folder (default \"resized\")")
	flags.StringP("prefix", "p", "", "prefix added to every output file name")
	flags.String("preset", "", "named size preset (see `resizer presets`)")
	flags.Int("width", 0, "target width in pixels")
	flags.Int("height", 0, "target height in pixels")
	flags.Float64("percent", 0, "scale both sides by this percentage")
}
