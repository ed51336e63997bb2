package cli

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/networkteam/flightsearch/features"
	"github.com/networkteam/flightsearch/internal/logging"
	"github.com/networkteam/flightsearch/pages"
	"github.com/networkteam/flightsearch/report"
	"github.com/networkteam/flightsearch/scenario"
)

func newRunCmd(a *app, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [feature...]",
		Short: "Run feature files, the bundled features if none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headless") {
				cfg.Browser.Headless = v.GetBool("headless")
			}

			feats, err := loadFeatures(args)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Reporting, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Close()

			src, err := a.launch(cfg, logger.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := src.Close(); err != nil {
					logger.Warn("Failed to close browser", slog.Any("error", err))
				}
			}()

			reporter := report.New(cfg.Reporting,
				report.WithJournal(logger.Journal),
				report.WithLogger(logger.Logger),
			)
			runner := scenario.NewRunner(scenario.FlightSearchSteps(), src.NewPage,
				scenario.WithPageOptions(
					pages.WithBaseURL(cfg.Test.BaseURL),
					pages.WithTimeout(cfg.Test.TimeoutDuration()),
				),
				scenario.WithReporter(reporter),
				scenario.WithLogger(logger.Logger),
			)

			results, runErr := runner.RunFeatures(cmd.Context(), feats, v.GetInt("parallel"))
			writeSummary(cmd.OutOrStdout(), results)
			if runErr != nil {
				failed := lo.CountBy(results, func(r scenario.Result) bool { return !r.Passed() })
				return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().Int("parallel", 1, "number of feature files run at the same time")
	cmd.Flags().Bool("headless", true, "run the browser without a window")
	_ = v.BindPFlag("parallel", cmd.Flags().Lookup("parallel"))
	_ = v.BindPFlag("headless", cmd.Flags().Lookup("headless"))
	return cmd
}

// loadFeatures parses the given feature files or, without paths, every
// bundled feature.
func loadFeatures(paths []string) ([]*scenario.Feature, error) {
	if len(paths) == 0 {
		bundled, err := fs.Glob(features.FS, "*.feature")
		if err != nil {
			return nil, err
		}
		return parseAll(bundled, func(path string) (*scenario.Feature, error) {
			return scenario.ParseFS(features.FS, path)
		})
	}
	return parseAll(paths, scenario.ParseFile)
}

func parseAll(paths []string, parse func(string) (*scenario.Feature, error)) ([]*scenario.Feature, error) {
	result := make([]*scenario.Feature, 0, len(paths))
	for _, path := range paths {
		feature, err := parse(path)
		if err != nil {
			return nil, fmt.Errorf("loading feature: %w", err)
		}
		result = append(result, feature)
	}
	return result, nil
}

func writeSummary(w io.Writer, results []scenario.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status, r.Feature, r.Scenario, r.Duration.Round(time.Millisecond))
		if !r.Passed() {
			fmt.Fprintf(tw, "\t\t%v\t\n", r.Err)
			for _, path := range r.Reports {
				fmt.Fprintf(tw, "\t\treport: %s\t\n", path)
			}
		}
	}
	_ = tw.Flush()

	passed := lo.CountBy(results, func(r scenario.Result) bool { return r.Passed() })
	fmt.Fprintf(w, "%d passed, %d failed\n", passed, len(results)-passed)
}
