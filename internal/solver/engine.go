// internal/solver/engine.go
//
// Elimination engine for one solving run.
// Responsibilities:
//   - Own the candidate set (possible secrets) and the guess set (legal guesses).
//   - Merge candidates into the guess set once after loading.
//   - Apply observed feedback by filtering candidates (and guesses in hard mode).
//   - Report the lifecycle state: active → solved | exhausted.
//
// Notes:
//   - Both lists stay sorted and deduplicated; BestGuess depends on it for
//     its tie-break.
//   - An Engine has no internal locking. Callers serialize access.

package solver

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
)

// Engine holds the candidate and guess sets for a fixed word length.
type Engine struct {
	n          int
	hard       bool
	workers    int
	candidates []Word
	guesses    []Word
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithHardMode filters the guess set alongside the candidates on every Apply.
func WithHardMode(on bool) Option {
	return func(e *Engine) { e.hard = on }
}

// WithWorkers bounds the goroutines used by BestGuess and Apply.
// Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New builds an engine for words of length n. Both lists are copied, sorted
// and deduplicated; a word of the wrong length is rejected with a *ShapeError.
// Merge must be called once before searching.
func New(n int, candidates, guesses []Word, opts ...Option) (*Engine, error) {
	if n < MinLength || n > MaxLength {
		return nil, fmt.Errorf("%w: %d (need %d~%d)", ErrUnsupportedLength, n, MinLength, MaxLength)
	}
	e := &Engine{n: n, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(e)
	}
	var err error
	if e.candidates, err = normalize(n, "candidate", candidates); err != nil {
		return nil, err
	}
	if e.guesses, err = normalize(n, "guess", guesses); err != nil {
		return nil, err
	}
	return e, nil
}

// normalize validates lengths and returns a sorted, deduplicated copy.
func normalize(n int, what string, in []Word) ([]Word, error) {
	out := make([]Word, 0, len(in))
	for _, w := range in {
		if len(w) != n {
			return nil, &ShapeError{What: what + " " + w.String(), Want: n, Got: len(w)}
		}
		out = append(out, slices.Clone(w))
	}
	slices.SortFunc(out, Compare)
	return slices.CompactFunc(out, Equal), nil
}

// Merge replaces the guess set with the sorted union of guesses and
// candidates, so every possible secret is itself a legal guess.
// Running it again changes nothing.
func (e *Engine) Merge() {
	e.guesses = union(e.guesses, e.candidates)
}

// union merges two sorted, deduplicated lists.
func union(a, b []Word) []Word {
	out := make([]Word, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := Compare(a[i], b[j]); {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// Apply removes every candidate that would not have produced fb for guess.
// In hard mode the guess set is filtered the same way.
//
// When nothing survives, the engine becomes Exhausted and a
// *ContradictionError is returned together with the counts.
func (e *Engine) Apply(guess Word, fb Feedback) (Result, error) {
	if len(guess) != e.n {
		return Result{}, &ShapeError{What: "guess", Want: e.n, Got: len(guess)}
	}
	if len(fb) != e.n {
		return Result{}, &ShapeError{What: "feedback", Want: e.n, Got: len(fb)}
	}
	for i, m := range fb {
		if m > Exact {
			return Result{}, fmt.Errorf("%w %d at position %d", ErrInvalidMark, m, i)
		}
	}

	want := fb.Index()
	var removed int
	e.candidates, removed = e.filter(e.candidates, guess, want)
	if e.hard {
		e.guesses, _ = e.filter(e.guesses, guess, want)
	}

	res := Result{Removed: removed, Remaining: len(e.candidates), State: e.State()}
	if res.Remaining == 0 {
		return res, &ContradictionError{Guess: slices.Clone(guess), Feedback: slices.Clone(fb), Removed: removed}
	}
	return res, nil
}

// filter keeps the words w for which code(guess, w) == want, preserving order.
// Workers evaluate disjoint 64-aligned ranges so each bitset word has a
// single writer; survivors are compacted afterwards in index order.
func (e *Engine) filter(words []Word, guess Word, want int) ([]Word, int) {
	if len(words) == 0 {
		return words, 0
	}
	keep := bitset.New(uint(len(words)))
	size := chunkSize(len(words), e.workers, 64)

	var g errgroup.Group
	for start := 0; start < len(words); start += size {
		lo, hi := start, min(start+size, len(words))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if code(guess, words[i]) == want {
					keep.Set(uint(i))
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Word, 0, keep.Count())
	for i, ok := keep.NextSet(0); ok; i, ok = keep.NextSet(i + 1) {
		out = append(out, words[i])
	}
	return out, len(words) - len(out)
}

// chunkSize splits total items over workers, rounded up to a multiple of align.
func chunkSize(total, workers, align int) int {
	if workers < 1 {
		workers = 1
	}
	size := (total + workers - 1) / workers
	if r := size % align; r != 0 {
		size += align - r
	}
	return max(size, align)
}

// State reports the lifecycle state from the candidate count.
func (e *Engine) State() State {
	switch len(e.candidates) {
	case 0:
		return Exhausted
	case 1:
		return Solved
	}
	return Active
}

// Answer returns the sole remaining candidate once the engine is Solved.
func (e *Engine) Answer() (Word, bool) {
	if len(e.candidates) != 1 {
		return nil, false
	}
	return slices.Clone(e.candidates[0]), true
}

// Len is the word length N bound at construction.
func (e *Engine) Len() int { return e.n }

// HardMode reports whether guesses are filtered alongside candidates.
func (e *Engine) HardMode() bool { return e.hard }

// Candidates returns a copy of the current candidate set.
func (e *Engine) Candidates() []Word { return slices.Clone(e.candidates) }

// Guesses returns a copy of the current guess set.
func (e *Engine) Guesses() []Word { return slices.Clone(e.guesses) }

// CandidateCount and GuessCount avoid copying the lists.
func (e *Engine) CandidateCount() int { return len(e.candidates) }
func (e *Engine) GuessCount() int     { return len(e.guesses) }
