package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ebarrena/consolida/internal/cli"
	"github.com/ebarrena/consolida/internal/common"
	"github.com/ebarrena/consolida/internal/config"
	"github.com/ebarrena/consolida/internal/engine"
	"github.com/ebarrena/consolida/internal/sheets"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the consolidation pipeline once",
		Long: `Fetch every four-digit-year tab, normalize currency and date fields,
compute per-customer month-end debt-aging buckets, and rewrite the
consolidation tab.

The run either completes or fails with a non-zero exit; the scheduler's
next trigger is the retry.`,
		RunE: runConsolidation,
	}

	cmd.Flags().String("as-of", "", "Aggregate as of this date instead of today (format: 2006-01-02)")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	_ = viper.BindPFlag("run.as_of", cmd.Flags().Lookup("as-of"))
	_ = viper.BindPFlag("run.no_progress", cmd.Flags().Lookup("no-progress"))

	return cmd
}

func runConsolidation(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	slog.Info(cli.FormatTitle("Starting consolidation run..."))

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return common.NewUserError("configuration error", err)
	}

	reader, err := sheets.NewReader(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("creating source reader: %w", err)
	}

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("creating sink writer: %w", err)
	}

	var opts []engine.Option

	// Month boundaries follow the business's time zone, not the host's.
	loc := sheetsConfig.Location()
	if asOf := viper.GetString("run.as_of"); asOf != "" {
		t, parseErr := time.ParseInLocation("2006-01-02", asOf, loc)
		if parseErr != nil {
			return common.NewUserError("invalid --as-of date", parseErr)
		}
		opts = append(opts, engine.WithClock(func() time.Time { return t }))
	} else {
		opts = append(opts, engine.WithClock(func() time.Time { return time.Now().In(loc) }))
	}

	if !viper.GetBool("run.no_progress") {
		var bar *progressbar.ProgressBar
		opts = append(opts, engine.WithProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Fetching year tabs..."),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionOnCompletion(func() {
						fmt.Println()
					}),
				)
			}
			_ = bar.Set(done)
		}))
	}

	pipeline := engine.New(reader, writer, slog.Default(), opts...)

	stats, err := pipeline.Run(ctx)
	if err != nil {
		slog.Error(cli.FormatError("Consolidation failed"), "error", err)
		return common.NewUserError("consolidation run failed", err)
	}

	content := fmt.Sprintf(`Tabs read:      %d
Rows read:      %d
Rows dropped:   %d
Snapshots:      %d
Duration:       %s`,
		stats.TabsRead,
		stats.RowsRead,
		stats.RowsDropped,
		stats.Snapshots,
		stats.Duration.Round(time.Millisecond))

	fmt.Println(cli.RenderBox("Consolidation Summary", content))
	slog.Info(cli.FormatSuccess("Consolidation completed"))

	return nil
}
