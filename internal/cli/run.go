package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

var (
	runJSON   bool
	runDryRun bool
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the full run report as JSON")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Evaluate rules without applying interventions")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one governance pass",
	Long:  "Aggregates the trailing record window, evaluates the rule table against\nthe current state, and applies any triggered interventions.\n\nWith --dry-run, prints the events that would fire without touching state\nor the intervention log.",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	gov, _, err := newGovernor()
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	if runDryRun {
		snap, err := gov.Snapshot(now)
		if err != nil {
			return fmt.Errorf("aggregate records: %w", err)
		}
		events := gov.CheckIntervention(snap)
		if runJSON {
			return printJSON(map[string]any{
				"dry_run": true,
				"metrics": snap,
				"events":  events,
			})
		}
		if len(events) == 0 {
			fmt.Println("No interventions would fire.")
			return nil
		}
		fmt.Printf("%d intervention(s) would fire:\n", len(events))
		for _, ev := range events {
			printEvent(ev)
		}
		return nil
	}

	report, err := gov.RunOnce(now)
	if err != nil {
		return fmt.Errorf("governance pass failed: %w", err)
	}

	if runJSON {
		return printJSON(report)
	}

	fmt.Printf("Run %s complete.\n", report.RunID)
	if len(report.Events) == 0 {
		fmt.Println("No interventions fired.")
	} else {
		fmt.Printf("%d intervention(s):\n", len(report.Events))
		for _, ex := range report.Outcome.Executed {
			fmt.Print("  executed ")
			printEvent(ex.Event)
		}
		for _, ex := range report.Outcome.Skipped {
			fmt.Printf("  skipped  [%s] %s (%s)\n", ex.Event.Type, ex.Event.Message, ex.Reason)
		}
	}
	for _, logErr := range report.Outcome.LogErrors {
		fmt.Printf("  warning: log write failed: %v\n", logErr)
	}

	st := report.State
	fmt.Printf("\nLevel %d, expansion %s\n", st.InterventionLevel, lockWord(st.ExpansionLock))
	return nil
}

func printEvent(ev model.InterventionEvent) {
	fmt.Printf("[%s] L%d %s\n", ev.Type, ev.Level, ev.Message)
}

func lockWord(locked bool) string {
	if locked {
		return "locked"
	}
	return "open"
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
