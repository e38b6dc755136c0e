// internal/solver/types.go
//
// Core type definitions for the elimination engine.
// Defines:
//   - Word:     fixed-length sequence of Unicode code points.
//   - Mark:     per-position judgment of a guess (absent/present/exact).
//   - Feedback: the ordered marks for one guess against one secret.
//   - State:    engine lifecycle (active → solved | exhausted).

package solver

import (
	"fmt"
	"slices"
	"strings"
)

// Supported word lengths. One engine instance binds exactly one length.
const (
	MinLength = 4
	MaxLength = 11
)

// Word is an ordered sequence of code points. Words handled by one engine
// share the same length; ordering is lexicographic over code points.
type Word []rune

// ParseWord converts a UTF-8 string to a Word.
func ParseWord(s string) Word { return Word([]rune(s)) }

// String renders the word back to UTF-8.
func (w Word) String() string { return string(w) }

// Compare orders words lexicographically by code point.
func Compare(a, b Word) int { return slices.Compare(a, b) }

// Equal reports whether a and b hold the same code points.
func Equal(a, b Word) bool { return slices.Equal(a, b) }

// Mark is the evaluation of a single guessed position.
//   - Absent:  letter not available in the secret (grey).
//   - Present: letter available elsewhere in the secret (yellow).
//   - Exact:   letter at the right position (green).
type Mark uint8

const (
	Absent Mark = iota
	Present
	Exact
)

// Feedback is the per-position result of comparing a guess to a secret.
type Feedback []Mark

// ParseFeedback reads a feedback string.
// Accepted symbols: 0/b (absent), 1/y (present), 2/g (exact), case-insensitive.
func ParseFeedback(s string) (Feedback, error) {
	rs := []rune(s)
	out := make(Feedback, len(rs))
	for i, r := range rs {
		switch r {
		case '0', 'b', 'B':
			out[i] = Absent
		case '1', 'y', 'Y':
			out[i] = Present
		case '2', 'g', 'G':
			out[i] = Exact
		default:
			return nil, fmt.Errorf("%w `%c` at position %d", ErrInvalidMark, r, i)
		}
	}
	return out, nil
}

// String renders the feedback as digits (0 absent, 1 present, 2 exact).
func (f Feedback) String() string {
	var b strings.Builder
	b.Grow(len(f))
	for _, m := range f {
		b.WriteByte('0' + byte(m))
	}
	return b.String()
}

// Index returns the base-3 bucket index of the feedback, most significant
// position first.
func (f Feedback) Index() int {
	idx := 0
	for _, m := range f {
		idx = idx*3 + int(m)
	}
	return idx
}

// Solved reports whether every position is Exact.
func (f Feedback) Solved() bool {
	for _, m := range f {
		if m != Exact {
			return false
		}
	}
	return len(f) > 0
}

// State is the engine lifecycle.
type State int

const (
	Active    State = iota // two or more candidates remain
	Solved                 // exactly one candidate remains
	Exhausted              // contradictory feedback emptied the candidate set
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Suggestion is the outcome of a best-guess search.
type Suggestion struct {
	Word     Word    // chosen guess
	Excluded uint64  // Σ c·(|candidates|−c) over buckets, +1 when the all-exact bucket is non-empty
	Score    float64 // Excluded / |candidates|; 1 when a single candidate remains
}

// Result reports the effect of applying one observed feedback.
type Result struct {
	Removed   int   // candidates eliminated by this feedback
	Remaining int   // candidates left afterwards
	State     State // state after the update
}

// Bucket groups the candidates that produce the same feedback for a guess.
type Bucket struct {
	Feedback Feedback
	Words    []Word
}
