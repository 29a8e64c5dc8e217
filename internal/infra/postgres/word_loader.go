package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"spellingb/internal/domain"
)

// WordLoader loads the word pool from the words table.
type WordLoader struct {
	pool *pgxpool.Pool
}

func NewWordLoader(pool *pgxpool.Pool) *WordLoader {
	return &WordLoader{pool: pool}
}

// LoadWords returns every word ordered by id. The order is part of the
// daily selection input, so it must be stable across instances.
func (l *WordLoader) LoadWords(ctx context.Context) ([]domain.WordEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, word, definition, audio_ref, difficulty FROM words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	defer rows.Close()

	var words []domain.WordEntry
	for rows.Next() {
		var w domain.WordEntry
		var difficulty string
		if err := rows.Scan(&w.ID, &w.Word, &w.Definition, &w.AudioRef, &difficulty); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.Difficulty = domain.Difficulty(difficulty)
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: words table is empty", domain.ErrPoolUnavailable)
	}
	return words, nil
}
