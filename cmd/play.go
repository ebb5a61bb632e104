package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz, skipping topic selection",
	Example: `  quizmaster play --topics genetics,ecology
  quizmaster play --topics "Cell Biology"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("topics")

		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ids, err := env.bank.Resolve(names)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			for _, p := range env.bank.Pools() {
				ids = append(ids, p.ID)
			}
		}
		pools, err := env.bank.Select(ids)
		if err != nil {
			return fmt.Errorf("select topics: %w", err)
		}

		return app.RunQuiz(cmd.Context(), env.deps(cmd.Context()), pools)
	},
}

func init() {
	playCmd.Flags().StringSliceP("topics", "t", nil, "Topic ids or titles to quiz on (default all)")
}
