package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"spellingb/internal/domain"
	"spellingb/internal/infra/postgres/migrations"
)

// wordRow is the bun model for the words table.
type wordRow struct {
	bun.BaseModel `bun:"table:words"`

	ID         string `bun:"id,pk"`
	Word       string `bun:"word,notnull"`
	Definition string `bun:"definition,notnull"`
	AudioRef   string `bun:"audio_ref,notnull"`
	Difficulty string `bun:"difficulty,notnull"`
}

// OpenBun opens a bun handle over pgdriver for migrations and seeding.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return group, nil
}

// SeedWords upserts words by id and returns the number written.
func SeedWords(ctx context.Context, db *bun.DB, words []domain.WordEntry) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}
	rows := make([]wordRow, 0, len(words))
	for _, w := range words {
		rows = append(rows, wordRow{
			ID:         w.ID,
			Word:       w.Word,
			Definition: w.Definition,
			AudioRef:   w.AudioRef,
			Difficulty: string(w.Difficulty),
		})
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("word = EXCLUDED.word").
		Set("definition = EXCLUDED.definition").
		Set("audio_ref = EXCLUDED.audio_ref").
		Set("difficulty = EXCLUDED.difficulty").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed words: %w", err)
	}
	return len(rows), nil
}
