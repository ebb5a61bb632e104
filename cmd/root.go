package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "quizmaster",
	Short: "Biology quiz in your terminal",
	Long: "Quizmaster asks multiple-choice biology questions and keeps asking the ones " +
		"you miss until every question is answered correctly.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		return app.Run(cmd.Context(), env.deps(cmd.Context()))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/quizmaster/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides QUIZMASTER_DB env var)")
	pf.String("bank", "", "Path to a question bank (.yaml, .json or .xlsx)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Log file path, or - for stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
