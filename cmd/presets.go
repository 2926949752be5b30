package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/moontasirabtahee/image-resizer-tool/internal/sizing"
	"github.com/moontasirabtahee/image-resizer-tool/internal/tui"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List named size presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rows := lo.Map(sizing.Presets(), func(p sizing.Preset, _ int) tui.SummaryRow {
			return tui.SummaryRow{Label: p.Name, Value: p.Label}
		})
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
