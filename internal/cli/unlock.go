package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockForce bool

func init() {
	rootCmd.AddCommand(unlockCmd)
	unlockCmd.Flags().BoolVar(&unlockForce, "force", false, "Lift the lock even if the advisory check refuses")
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Lift the expansion lock",
	Long:  "Runs the advisory unlock check against the open unresolved-item count\nand lifts the lock if it passes. Use --force to override a refusal.",
	RunE:  runUnlock,
}

func runUnlock(cmd *cobra.Command, args []string) error {
	gov, _, err := newGovernor()
	if err != nil {
		return err
	}

	if !unlockForce {
		verdict, err := gov.CanUnlock()
		if err != nil {
			return fmt.Errorf("unlock check: %w", err)
		}
		if !verdict.CanUnlock {
			return fmt.Errorf("unlock refused: %s (use --force to override)", verdict.Reason)
		}
	}

	if _, err := gov.UnlockExpansion(); err != nil {
		return fmt.Errorf("unlock expansion: %w", err)
	}
	fmt.Println("Expansion unlocked.")
	return nil
}
