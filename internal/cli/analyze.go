package cli

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/shaiso/Analysis/internal/analyzer"
	"github.com/shaiso/Analysis/internal/config"
	"github.com/shaiso/Analysis/internal/domain"
)

// LoadConfigFunc загружает конфигурацию с переопределениями из флагов.
type LoadConfigFunc func(overrides map[string]any) (*config.Config, error)

// NewAnalyzeCmd создаёт команду полного анализа логов.
func NewAnalyzeCmd(loadFn LoadConfigFunc, outputFn func() *Output, logger *slog.Logger) *cobra.Command {
	var noReport bool
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "analyze LOGFILE...",
		Short: "Analyze scenario-player logs and publish the report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if noReport {
				overrides["report_enabled"] = false
			}

			cfg, err := loadFn(overrides)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			res, err := analyzer.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer res.Close()

			a, err := analyzer.FromConfig(cfg, res, logger)
			if err != nil {
				return err
			}

			results := make([]*domain.Analysis, 0, len(args))
			var errs error
			for _, logfile := range args {
				analysis, err := a.Run(ctx, logfile)
				results = append(results, analysis)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", logfile, err))
				}
			}

			out := outputFn()
			if outputJSON {
				out.JSON(results)
			} else {
				printAnalyses(out, results)
			}

			if errs != nil {
				return fmt.Errorf("%w: %w", ErrAnalysisFailed, errs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noReport, "no-report", false, "Do not post the report to the chat webhook")
	cmd.Flags().BoolVar(&outputJSON, "output-json", false, "Print analysis results as JSON")

	return cmd
}

func printAnalyses(out *Output, results []*domain.Analysis) {
	headers := []string{"LOGFILE", "STATUS", "RUN", "TASKS", "OUTPUT"}
	rows := make([][]string, len(results))
	for i, a := range results {
		rows[i] = []string{a.Logfile, a.Status.String(), a.RunNumber, strconv.Itoa(a.Tasks), a.OutputDir}
	}
	out.Table(headers, rows)
}
