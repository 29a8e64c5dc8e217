package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spellingb/internal/domain"
)

// NewTodayCmd prints the day of record and the word ids served today.
func NewTodayCmd(configPath *string) *cobra.Command {
	var difficulty string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's day index and daily word ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			levels := domain.Difficulties
			if difficulty != "" {
				d, err := domain.ParseDifficulty(difficulty)
				if err != nil {
					return err
				}
				levels = []domain.Difficulty{d}
			}
			for _, d := range levels {
				info, err := rt.service.Today(cmd.Context(), d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %-6s %v\n", info.Date, info.DayIndex, info.Difficulty, info.WordIDs)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard (default: all)")
	return cmd
}
