package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/moontasirabtahee/image-resizer-tool/internal/config"
	"github.com/moontasirabtahee/image-resizer-tool/internal/filter"
	"github.com/moontasirabtahee/image-resizer-tool/internal/logging"
	"github.com/moontasirabtahee/image-resizer-tool/internal/processor"
	"github.com/moontasirabtahee/image-resizer-tool/internal/tui"
)

var runNoTUI bool

var runCmd = &cobra.Command{
	Use:   "run [flags] <image>...",
	Short: "Resize and filter a batch of images",
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

		interactive := !runNoTUI && isatty.IsTerminal(os.Stdout.Fd())
		logger, closer, err := logging.New(c.Log, interactive)
		if err != nil {
			return err
		}
		defer closer.Close()
		defer logger.Sync()

		engine := processor.NewEngine(processor.Options{
			OutputDir:   c.Output.Dir,
			Prefix:      c.Output.Prefix,
			JPEGQuality: c.Output.JPEGQuality,
			Logger:      logger,
		})

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		progress := func(completed, total int, name string) {
			logger.Info("progress", zap.Int("completed", completed), zap.Int("total", total), zap.String("file", name))
		}
		uiDone := make(chan struct{})
		var updates chan processor.ProgressUpdate
		if interactive {
			updates = make(chan processor.ProgressUpdate, 64)
			program := tea.NewProgram(tui.NewModel(0, updates, engine.Stop))
			go func() {
				_, _ = program.Run()
				close(uiDone)
			}()
			progress = processor.ChannelProgress(updates)
		} else {
			close(uiDone)
		}

		outcome, err := engine.Run(ctx, args, policy, c.FilterSpec(), progress)
		if updates != nil {
			close(updates)
		}
		<-uiDone
		if err != nil {
			return err
		}

		outPath := c.Output.Dir
		if abs, absErr := filepath.Abs(outPath); absErr == nil {
			outPath = abs
		}
		rows := []tui.SummaryRow{
			{Label: "Processed", Value: fmt.Sprintf("%d/%d", outcome.Succeeded, outcome.Total)},
			{Label: "Failed", Value: fmt.Sprintf("%d", len(outcome.FailedFiles))},
			{Label: "Size", Value: policy.String()},
			{Label: "Output", Value: outPath},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
		if failures := tui.RenderFailures(outcome.FailedFiles, 5); failures != "" {
			fmt.Fprintln(os.Stdout, failures)
		}
		if engine.Stopped() {
			fmt.Fprintln(os.Stdout, "Stopped before every file was processed.")
		}

		return nil
	},
}

// loadConfig reads the job file and flags, folds in the filter flags and
// validates the result.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	c, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}
	if err := applyFilterFlags(flags, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", processor.ErrConfiguration, err)
	}
	return c, nil
}

func applyFilterFlags(flags *pflag.FlagSet, c *config.Config) error {
	toggles := map[string]filter.ID{
		"grayscale": filter.Grayscale,
		"blur":      filter.Blur,
		"sharpen":   filter.Sharpen,
		"edges":     filter.EdgeDetect,
	}
	for name, id := range toggles {
		if flags.Changed(name) {
			on, err := flags.GetBool(name)
			if err != nil {
				return err
			}
			e := c.Filters[id]
			e.Enabled = on
			c.Filters[id] = e
		}
	}

	if flags.Changed("brightness") {
		v, err := flags.GetInt("brightness")
		if err != nil {
			return err
		}
		c.Filters[filter.Brightness] = filter.WithValue(float64(v))
	}
	if flags.Changed("contrast") {
		v, err := flags.GetFloat64("contrast")
		if err != nil {
			return err
		}
		c.Filters[filter.Contrast] = filter.WithValue(v)
	}
	if flags.Changed("rotate") {
		v, err := flags.GetFloat64("rotate")
		if err != nil {
			return err
		}
		c.Filters[filter.Rotate] = filter.WithAngle(v)
	}
	if flags.Changed("flip") {
		v, err := flags.GetString("flip")
		if err != nil {
			return err
		}
		c.Filters[filter.Flip] = filter.WithAxis(filter.FlipAxis(v))
	}
	return nil
}

func init() {
	flags := runCmd.Flags()
	addSizeFlags(flags)
	flags.Int("quality", 0, "JPEG quality 1-100 (default 95)")

	flags.Bool("grayscale", false, "convert to grayscale")
	flags.Bool("blur", false, "apply a 7x7 Gaussian blur")
	flags.Bool("sharpen", false, "apply a sharpening kernel")
	flags.Bool("edges", false, "replace the image with its edge map")
	flags.Int("brightness", filter.DefaultBrightness, "shift brightness by this amount")
	flags.Float64("contrast", filter.DefaultContrast, "local contrast enhancement clip limit")
	flags.Float64("rotate", filter.DefaultAngle, "rotate counter-clockwise by degrees, keeping the canvas size")
	flags.String("flip", string(filter.DefaultFlip), "mirror: horizontal, vertical or both")

	flags.BoolVar(&runNoTUI, "no-tui", false, "log progress instead of drawing a progress bar")
	flags.String("log-level", "", "debug, info, warn or error (default \"info\")")
	flags.String("log-file", "", "write logs to this rotating file")
	flags.Bool("dev", false, "human-readable debug logging")

	rootCmd.AddCommand(runCmd)
}
