package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of recent snapshots to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print snapshots as JSON")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show retained governance state snapshots",
	Long:  "Prints the state history, one snapshot per mutation, oldest first.\nSnapshots older than the retention window are pruned on write.",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	gov, _, err := newGovernor()
	if err != nil {
		return err
	}

	entries, err := gov.History()
	if err != nil {
		return fmt.Errorf("read state history: %w", err)
	}
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	if historyJSON {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No state history.")
		return nil
	}
	for _, e := range entries {
		st := e.State
		line := fmt.Sprintf("%s L%d %-9s expansion %s", e.Timestamp, st.InterventionLevel, st.FocusMode, lockWord(st.ExpansionLock))
		if st.ExpansionLock {
			line += fmt.Sprintf(" (%s)", st.ActiveConstraint)
		}
		fmt.Println(line)
	}
	return nil
}
