package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(goalCmd)
}

var goalCmd = &cobra.Command{
	Use:   "goal [text...]",
	Short: "Show or set the current goal",
	Long:  "With no arguments, prints the current goal. With arguments, sets the\ngoal to the joined text.",
	RunE:  runGoal,
}

func runGoal(cmd *cobra.Command, args []string) error {
	gov, _, err := newGovernor()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		st := gov.GetState()
		if st.CurrentGoal == "" {
			fmt.Println("No goal set.")
			return nil
		}
		fmt.Println(st.CurrentGoal)
		return nil
	}

	text := strings.Join(args, " ")
	st, err := gov.SetCurrentGoal(text)
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	fmt.Printf("Goal set: %s\n", st.CurrentGoal)
	return nil
}
