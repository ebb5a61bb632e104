package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abhisek/quizmaster/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show all-time results per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		totals, err := env.store.SessionRepo().TopicTotals(ctx)
		if err != nil {
			return fmt.Errorf("query topic totals: %w", err)
		}
		sessions, err := env.store.SessionRepo().RecentSessions(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No quizzes recorded yet.")
			return nil
		}

		p := message.NewPrinter(language.English)
		out := cmd.OutOrStdout()

		completed := 0
		for _, s := range sessions {
			if s.Completed {
				completed++
			}
		}
		p.Fprintf(out, "Sessions: %d (%d completed, %d ended early)\n\n",
			len(sessions), completed, len(sessions)-completed)

		fmt.Fprintln(out, "Results by Topic")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintf(out, "%-32s  %8s  %8s  %8s  %6s\n", "Topic", "Sessions", "Correct", "Total", "Score")
		fmt.Fprintln(out, strings.Repeat("─", 72))

		var correct, total int
		for _, t := range totals {
			p.Fprintf(out, "%-32s  %8d  %8d  %8d  %5d%%\n",
				truncate(t.Title, 32), t.Sessions, t.Correct, t.Total, percentOf(t.Correct, t.Total))
			correct += t.Correct
			total += t.Total
		}
		fmt.Fprintln(out, strings.Repeat("─", 72))
		p.Fprintf(out, "%-32s  %8s  %8d  %8d  %5d%%\n", "TOTAL", "", correct, total, percentOf(correct, total))
		return nil
	},
}

func percentOf(n, total int) int {
	if total == 0 {
		return 0
	}
	return n * 100 / total
}
