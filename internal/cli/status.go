package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print state and metrics as JSON")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show governance state and window metrics",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	gov, cfg, err := newGovernor()
	if err != nil {
		return err
	}
	st := gov.GetState()
	exp := gov.CanExpand()
	snap, err := gov.Snapshot(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("aggregate records: %w", err)
	}

	if statusJSON {
		return printJSON(map[string]any{
			"state":     st,
			"expansion": exp,
			"metrics":   snap,
		})
	}

	fmt.Printf("Focus mode:          %s\n", st.FocusMode)
	fmt.Printf("Intervention level:  %d\n", st.InterventionLevel)
	fmt.Printf("Expansion:           %s\n", lockWord(st.ExpansionLock))
	if !exp.Allowed {
		fmt.Printf("Active constraint:   %s\n", exp.Reason)
	}
	if st.CurrentGoal != "" {
		fmt.Printf("Current goal:        %s\n", st.CurrentGoal)
	}
	fmt.Printf("Streak days:         %d\n", st.StreakDays)
	fmt.Printf("Days at high level:  %d\n", gov.DaysAtHighLevel())

	fmt.Printf("\nWindow (%d days): %d analyzed, %d decisions, %d mistakes, %d insights\n",
		cfg.WindowDays, snap.DaysAnalyzed, snap.TotalDecisions, snap.TotalMistakes, snap.TotalInsights)
	if snap.ScatteredStreak > 0 {
		fmt.Printf("Scattered streak:    %d day(s)\n", snap.ScatteredStreak)
	}
	if len(snap.TopTopics) > 0 {
		fmt.Println("Top topics:")
		for _, tc := range snap.TopTopics {
			fmt.Printf("  %-30s %d\n", tc.Topic, tc.Count)
		}
	}
	if len(snap.RepeatedErrors) > 0 {
		fmt.Println("Repeated errors:")
		for _, re := range snap.RepeatedErrors {
			fmt.Printf("  %-30s x%d\n", re.Type, re.Occurrences)
		}
	}
	if snap.UnfinishedCount > 0 {
		fmt.Printf("Open unfinished items: %d\n", snap.UnfinishedCount)
	}
	return nil
}
