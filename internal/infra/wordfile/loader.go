package wordfile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"spellingb/internal/domain"
)

type entry struct {
	ID         string `yaml:"id"`
	Word       string `yaml:"word"`
	Definition string `yaml:"definition"`
	Audio      string `yaml:"audio"`
	Difficulty string `yaml:"difficulty"`
}

type document struct {
	Words []entry `yaml:"words"`
}

// Loader reads the word pool from a YAML file on every call.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) LoadWords(_ context.Context) ([]domain.WordEntry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPoolUnavailable, err)
	}
	return Parse(data)
}

// Parse decodes a words document. Entries are returned in file order;
// validation is left to the caller.
func Parse(data []byte) ([]domain.WordEntry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse words: %v", domain.ErrPoolUnavailable, err)
	}
	words := make([]domain.WordEntry, 0, len(doc.Words))
	for _, e := range doc.Words {
		words = append(words, domain.WordEntry{
			ID:         strings.TrimSpace(e.ID),
			Word:       strings.TrimSpace(e.Word),
			Definition: strings.TrimSpace(e.Definition),
			AudioRef:   strings.TrimSpace(e.Audio),
			Difficulty: domain.Difficulty(strings.ToLower(strings.TrimSpace(e.Difficulty))),
		})
	}
	return words, nil
}
