package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGuessSet is returned by BestGuess when there is nothing to
	// propose while two or more candidates remain. The word lists must be
	// reloaded.
	ErrEmptyGuessSet = errors.New("solver: guess set is empty")

	// ErrExhausted matches a *ContradictionError and is returned by
	// BestGuess once no candidates remain.
	ErrExhausted = errors.New("solver: no candidates remain")

	// ErrShape matches a *ShapeError.
	ErrShape = errors.New("solver: length mismatch")

	ErrUnsupportedLength = errors.New("solver: unsupported word length")
	ErrInvalidMark       = errors.New("solver: invalid feedback symbol")
)

// ShapeError rejects a word or feedback whose length is not the engine's N.
type ShapeError struct {
	What string // "guess", "feedback", "candidate", ...
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("solver: %s has length %d, want %d", e.What, e.Got, e.Want)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// ContradictionError reports feedback that no remaining candidate could have
// produced. The engine is left Exhausted.
type ContradictionError struct {
	Guess    Word
	Feedback Feedback
	Removed  int
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("solver: feedback %s for %q matches no candidate (removed %d)",
		e.Feedback, e.Guess.String(), e.Removed)
}

func (e *ContradictionError) Is(target error) bool { return target == ErrExhausted }
