package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/export"
	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and export past quiz sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		completed, _ := cmd.Flags().GetBool("completed")

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		sessions, err := env.store.SessionRepo().RecentSessions(cmd.Context(),
			store.QueryOpts{Limit: limit, CompletedOnly: completed})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-36s  %-16s  %-8s  %-9s  %6s  %s\n",
			"#", "ID", "Started", "Elapsed", "Mastered", "Score", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, s := range sessions {
			status := "completed"
			if !s.Completed {
				status = "ended early"
			}
			fmt.Fprintf(out, "%-5d  %-36s  %-16s  %-8s  %-9s  %5d%%  %s\n",
				s.Sequence,
				s.ID,
				s.StartedAt.Local().Format("2006-01-02 15:04"),
				formatElapsed(s.Elapsed.Milliseconds()),
				fmt.Sprintf("%d/%d", s.MasteredCount, s.TotalQuestions),
				s.Percent(),
				status,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session with its topic breakdown and answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		d, err := env.store.SessionRepo().Session(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:        %s\n", d.ID)
		fmt.Fprintf(out, "Started:   %s\n", d.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Elapsed:   %s\n", formatElapsed(d.Elapsed.Milliseconds()))
		fmt.Fprintf(out, "Mastered:  %d/%d (%d%%)\n", d.MasteredCount, d.TotalQuestions, d.Percent())
		fmt.Fprintf(out, "Attempted: %d\n", d.QuestionsAttempted)
		fmt.Fprintf(out, "Completed: %v\n", d.Completed)

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "TOPICS")
		fmt.Fprintln(out, sep)
		for _, t := range d.Topics {
			fmt.Fprintf(out, "%-32s  %3d/%-3d  %3d%%\n", truncate(t.Title, 32), t.Correct, t.Total, t.Percent())
		}

		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "ANSWERS")
		fmt.Fprintln(out, sep)
		for i, a := range d.Answers {
			q, _, ok := env.bank.Question(a.QuestionID)
			chosen := fmt.Sprintf("option %d", a.Selected+1)
			if ok && a.Selected < len(q.Options) {
				chosen = q.Options[a.Selected]
			}
			mark := "✓"
			if !a.Correct {
				mark = "✗"
			}
			fmt.Fprintf(out, "%3d. %s %-10s %s\n", i+1, mark, a.QuestionID, chosen)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a session to .xlsx or .json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = args[0] + ".xlsx"
		}
		write, err := exporterFor(output)
		if err != nil {
			return err
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		d, err := env.store.SessionRepo().Session(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		if err := write(f, d.Report(), env); err != nil {
			f.Close()
			return fmt.Errorf("export %s: %w", output, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", output)
		return nil
	},
}

type exportFunc func(f *os.File, r *session.Report, env *env) error

func exporterFor(path string) (exportFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return func(f *os.File, r *session.Report, env *env) error {
			return export.WriteXLSX(f, r, env.bank)
		}, nil
	case ".json":
		return func(f *os.File, r *session.Report, _ *env) error {
			return export.WriteJSON(f, r)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use .xlsx or .json)", filepath.Ext(path))
	}
}

func formatElapsed(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyListCmd.Flags().Bool("completed", false, "Only show completed sessions")
	historyExportCmd.Flags().StringP("output", "o", "", "Output file (.xlsx or .json, default <id>.xlsx)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
}
