package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewAnalysesCmd создаёт группу команд для просмотра анализов через gateway.
func NewAnalysesCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyses",
		Short: "Inspect stored analyses via the gateway API",
	}

	cmd.AddCommand(
		newAnalysesListCmd(clientFn, outputFn),
		newAnalysesShowCmd(clientFn, outputFn),
		newAnalysesQueueCmd(clientFn, outputFn),
	)

	return cmd
}

func newAnalysesListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			analyses, err := client.ListAnalyses(cmd.Context(), limit)
			if err != nil {
				return err
			}

			headers := []string{"LOGFILE", "SCENARIO", "RUN", "STATUS", "TASKS", "CREATED"}
			rows := make([][]string, len(analyses))
			for i, a := range analyses {
				rows[i] = []string{a.Logfile, a.Scenario, a.RunNumber, a.Status, strconv.Itoa(a.Tasks), a.CreatedAt}
			}

			out.Print(headers, rows, analyses)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newAnalysesShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show LOGFILE",
		Short: "Show the latest analysis of a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			a, err := client.GetAnalysis(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out.IsJSON() {
				out.JSON(a)
				return nil
			}

			out.Table(
				[]string{"LOGFILE", "STATUS", "RUN", "TASKS", "REPORT"},
				[][]string{{a.Logfile, a.Status, a.RunNumber, strconv.Itoa(a.Tasks), a.ReportURL}},
			)
			if a.Error != "" {
				out.Error(a.Error)
			}
			if len(a.Stats) > 0 {
				out.Success("")
				out.Stats(a.Stats)
			}
			return nil
		},
	}
}

func newAnalysesQueueCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "queue LOGFILE",
		Short: "Queue a log under DATA_DIR for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			logfile, err := client.QueueAnalysis(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out.Success("Queued " + logfile)
			return nil
		},
	}
}
