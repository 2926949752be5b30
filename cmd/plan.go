package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/moontasirabtahee/image-resizer-tool/internal/processor"
	"github.com/moontasirabtahee/image-resizer-tool/internal/tui"
)

var planCmd = &cobra.Command{
	Use:   "plan [flags] <image>...",
	Short: "Show what run would do without writing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		policy, err := c.Size.Policy()
		if err != nil {
			return fmt.Errorf("%w: %w", processor.ErrConfiguration, err)
		}
		opts := processor.Options{OutputDir: c.Output.Dir, Prefix: c.Output.Prefix}

		for i, path := range args {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			plan := processor.Inspect(path, policy, opts)
			fmt.Fprintf(os.Stdout, "%s\n", planFileStyle.Render(plan.Path))
			if plan.Err != nil {
				fmt.Fprintf(os.Stdout, "  %s %s\n", planBulletStyle.Render("-"), planErrStyle.Render("rejected: "+plan.Err.Error()))
				continue
			}

			line := fmt.Sprintf("%s %dx%d -> %dx%d", plan.Kind, plan.Size.X, plan.Size.Y, plan.Target.X, plan.Target.Y)
			fmt.Fprintf(os.Stdout, "  %s %s\n", planBulletStyle.Render("-"), planValueStyle.Render(line))
			fmt.Fprintf(os.Stdout, "  %s %s\n", planBulletStyle.Render("-"), planDimStyle.Render(plan.Output))
			if plan.Metadata.Camera != "" {
				fmt.Fprintf(os.Stdout, "  %s %s %s\n", planBulletStyle.Render("-"), planCategoryStyle.Render("camera:"), planValueStyle.Render(plan.Metadata.Camera))
			}
			if plan.Metadata.Taken != "" {
				fmt.Fprintf(os.Stdout, "  %s %s %s\n", planBulletStyle.Render("-"), planCategoryStyle.Render("taken:"), planValueStyle.Render(plan.Metadata.Taken))
			}
		}

		if enabled := c.FilterSpec().Enabled(); len(enabled) > 0 {
			fmt.Fprintf(os.Stdout, "\n%s %v\n", planCategoryStyle.Render("filters:"), enabled)
		}
		return nil
	},
}

var (
	planFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	planCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	planValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	planDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	planBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	planErrStyle      = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)

func init() {
	addSizeFlags(planCmd.Flags())
	rootCmd.AddCommand(planCmd)
}
