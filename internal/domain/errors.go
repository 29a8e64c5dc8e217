package domain

import "errors"

var (
	// ErrPoolUnavailable is returned when the word pool could not be fetched.
	ErrPoolUnavailable = errors.New("word pool unavailable")
	// ErrPoolUnderfilled means fewer valid words than a session needs.
	ErrPoolUnderfilled = errors.New("word pool has too few valid words")
	// ErrUnknownDifficulty indicates an unsupported difficulty name.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrUnknownMode indicates an unsupported game mode.
	ErrUnknownMode = errors.New("unknown game mode")
)
