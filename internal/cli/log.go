package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyconnfig/cognitive-os/internal/intervene"
)

var (
	logLimit int
	logRunID string
	logJSON  bool
)

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Number of recent entries to show (0 for all)")
	logCmd.Flags().StringVar(&logRunID, "run", "", "Filter entries to one run ID")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "Print entries as JSON")
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent intervention log entries",
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := intervene.Tail(cfg.LogPath(), intervene.TailFilter{
		RunID: logRunID,
		Limit: logLimit,
	})
	if err != nil {
		return fmt.Errorf("read intervention log: %w", err)
	}

	if logJSON {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No intervention log entries.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s %-8s [%s] L%d %s", e.Timestamp, e.Outcome, e.Type, e.Level, e.Message)
		if e.Reason != "" {
			line += fmt.Sprintf(" (%s)", e.Reason)
		}
		fmt.Println(line)
	}
	return nil
}
