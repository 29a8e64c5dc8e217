package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createWordsSQL = `
CREATE TABLE IF NOT EXISTS words (
	id         TEXT PRIMARY KEY,
	word       TEXT NOT NULL,
	definition TEXT NOT NULL DEFAULT '',
	audio_ref  TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL CHECK (difficulty IN ('easy', 'medium', 'hard')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS words_difficulty_idx ON words (difficulty);
`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createWordsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS words`)
			return err
		},
	)
}
