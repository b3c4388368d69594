package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation check")
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default governance state",
	Long:  "Replaces the current state with the defaults: neutral focus, level 1,\nno lock, no goal. The state history and intervention log are kept.",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		return fmt.Errorf("reset is destructive; re-run with --yes to confirm")
	}

	gov, _, err := newGovernor()
	if err != nil {
		return err
	}
	if _, err := gov.Reset(); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	fmt.Println("Governance state reset to defaults.")
	return nil
}
