package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lockCmd)
}

var lockCmd = &cobra.Command{
	Use:   "lock [reason...]",
	Short: "Manually lock expansion",
	Long:  "Sets the expansion lock with the given reason as the active constraint.\nNew topics and work items should be refused until unlocked.",
	RunE:  runLock,
}

func runLock(cmd *cobra.Command, args []string) error {
	gov, _, err := newGovernor()
	if err != nil {
		return err
	}

	st, err := gov.LockExpansion(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("lock expansion: %w", err)
	}
	fmt.Printf("Expansion locked: %s\n", st.ActiveConstraint)
	return nil
}
