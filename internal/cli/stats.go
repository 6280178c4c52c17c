package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shaiso/Analysis/internal/domain"
	"github.com/shaiso/Analysis/internal/scenario"
	"github.com/shaiso/Analysis/internal/stats"
)

// NewStatsCmd создаёт команду, выводящую статистику без записи отчёта.
func NewStatsCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stats LOGFILE",
		Short: "Print task duration statistics of a scenario-player log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			raw, err := logStats(cmd, args[0])
			if err != nil {
				return err
			}
			if raw == nil && !out.IsJSON() {
				out.Success("No output for " + filepath.Base(args[0]))
				return nil
			}

			out.Stats(raw)
			return nil
		},
	}
}

// logStats разбирает лог и считает статистику. nil — в логе нечего анализировать.
func logStats(cmd *cobra.Command, logfile string) ([]domain.RawStat, error) {
	log, err := scenario.ReadLog(logfile)
	if err != nil {
		return nil, err
	}
	if log.IsEmpty() {
		return nil, nil
	}

	nodeLogs, err := scenario.OpenNodeLogs(cmd.Context(), scenario.NodeLogGlob(filepath.Dir(logfile), log.RunNumber))
	if err != nil {
		return nil, err
	}

	rows := scenario.FillRows(cmd.Context(), log.Entries, nodeLogs)
	return stats.Raw(stats.Generate(rows.Tasks)), nil
}
