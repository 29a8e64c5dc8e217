package wordfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"spellingb/internal/domain"
)

const sample = `
words:
  - id: e1
    word: cat
    definition: A small domesticated feline.
    audio: audio/cat.mp3
    difficulty: Easy
  - id: h1
    word: " rhythm "
    definition: A strong regular repeated pattern.
    audio: audio/rhythm.mp3
    difficulty: hard
`

func TestLoaderReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	words, err := NewLoader(path).LoadWords(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Difficulty != domain.DifficultyEasy || words[0].AudioRef != "audio/cat.mp3" {
		t.Fatalf("unexpected first word %+v", words[0])
	}
	if words[1].Word != "rhythm" {
		t.Fatalf("expected trimmed word, got %q", words[1].Word)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).LoadWords(context.Background())
	if !errors.Is(err, domain.ErrPoolUnavailable) {
		t.Fatalf("expected pool unavailable, got %v", err)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("words: [unterminated")); !errors.Is(err, domain.ErrPoolUnavailable) {
		t.Fatalf("expected pool unavailable, got %v", err)
	}
}

func TestBundledWordsFileIsPlayable(t *testing.T) {
	words, err := NewLoader(filepath.Join("..", "..", "..", "config", "words.yaml")).LoadWords(context.Background())
	if err != nil {
		t.Fatalf("load bundled words: %v", err)
	}
	counts := map[domain.Difficulty]int{}
	ids := map[string]bool{}
	for _, w := range words {
		if !w.Valid() {
			t.Fatalf("invalid bundled word %+v", w)
		}
		if ids[w.ID] {
			t.Fatalf("duplicate id %s", w.ID)
		}
		ids[w.ID] = true
		counts[w.Difficulty]++
	}
	for _, d := range domain.Difficulties {
		if counts[d] < domain.WordsPerSession {
			t.Fatalf("difficulty %s has only %d words", d, counts[d])
		}
	}
}
