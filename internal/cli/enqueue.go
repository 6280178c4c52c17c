package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shaiso/Analysis/internal/mq"
)

// NewEnqueueCmd создаёт команду постановки логов в очередь analysis.requested.
// Логи разбирает watcher, поэтому пути должны быть видны ему.
func NewEnqueueCmd(loadFn LoadConfigFunc, outputFn func() *Output, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue LOGFILE...",
		Short: "Queue scenario-player logs for analysis by the watcher",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadFn(map[string]any{"report_enabled": false})
			if err != nil {
				return err
			}
			if !cfg.RabbitMQ.Enabled() {
				return ErrBrokerNotConfigured
			}

			ctx := cmd.Context()

			conn, err := mq.NewConnection(cfg.RabbitMQ.URL, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := mq.SetupTopology(ctx, conn); err != nil {
				return err
			}

			publisher := mq.NewPublisher(conn, logger)
			out := outputFn()

			for _, logfile := range args {
				abs, err := filepath.Abs(logfile)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", logfile, err)
				}
				if err := publisher.PublishAnalysisRequested(ctx, abs); err != nil {
					return err
				}
				out.Success("Queued " + abs)
			}
			return nil
		},
	}
}
