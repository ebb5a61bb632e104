package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics in the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, env.bank.Title())
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintf(out, "%-20s  %-32s  %9s\n", "ID", "Title", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, p := range env.bank.Pools() {
			fmt.Fprintf(out, "%-20s  %-32s  %9d\n", p.ID, truncate(p.Title, 32), len(p.Questions))
		}
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintf(out, "%-20s  %-32s  %9d\n", "TOTAL", "", env.bank.QuestionCount())
		return nil
	},
}
