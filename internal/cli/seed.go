package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"spellingb/internal/domain"
	pgstore "spellingb/internal/infra/postgres"
	"spellingb/internal/infra/wordfile"
)

// NewSeedCmd loads a YAML word file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var wordsPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert words from a YAML file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if wordsPath == "" {
				wordsPath = cfg.Game.WordsFile
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}

			words, err := wordfile.NewLoader(wordsPath).LoadWords(cmd.Context())
			if err != nil {
				return err
			}
			valid, invalid := lo.FilterReject(words, func(w domain.WordEntry, _ int) bool { return w.Valid() })
			for _, w := range invalid {
				log.Warn().Str("id", w.ID).Str("word", w.Word).Msg("skipping invalid word")
			}
			dupes := lo.FindDuplicatesBy(valid, func(w domain.WordEntry) string { return w.ID })
			if len(dupes) > 0 {
				return fmt.Errorf("duplicate word ids in %s: %v", wordsPath, lo.Map(dupes, func(w domain.WordEntry, _ int) string { return w.ID }))
			}

			db := pgstore.OpenBun(cfg.Postgres.URL)
			defer db.Close()
			n, err := pgstore.SeedWords(cmd.Context(), db, valid)
			if err != nil {
				return err
			}
			log.Info().Int("words", n).Str("file", wordsPath).Msg("seeded word pool")
			return nil
		},
	}
	cmd.Flags().StringVar(&wordsPath, "words", "", "YAML word file (defaults to game.words_file)")
	return cmd
}
