// internal/oracle/oracle.go
//
// Automated feedback sources and the solve loop that drives an engine.
//
// Play repeats best guess → feedback → apply until the engine is solved,
// exhausted, or the round limit is hit. Interactive drivers supply their own
// Oracle (a human typing results); the CLI simulation and the tests use
// Secret.

package oracle

import (
	"errors"
	"slices"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

// ErrGaveUp is returned by Play when maxRounds is reached first.
var ErrGaveUp = errors.New("oracle: round limit reached")

// Oracle produces the feedback for a played guess.
type Oracle interface {
	Feedback(guess solver.Word) (solver.Feedback, error)
}

// Func adapts a plain function to Oracle.
type Func func(guess solver.Word) (solver.Feedback, error)

func (f Func) Feedback(guess solver.Word) (solver.Feedback, error) { return f(guess) }

// Secret scores guesses against a known word.
type Secret struct {
	Word solver.Word
}

func (s Secret) Feedback(guess solver.Word) (solver.Feedback, error) {
	return solver.Score(guess, s.Word)
}

// Round is one played guess and its effect.
type Round struct {
	Guess     solver.Word
	Feedback  solver.Feedback
	Score     float64
	Removed   int
	Remaining int
}

// Transcript records a full run.
type Transcript struct {
	Rounds []Round
	State  solver.State
	Answer solver.Word // set when State is Solved
}

// Turns is the number of guesses a player submits to win: the rounds played,
// plus one when the answer was deduced but not yet guessed.
func (t Transcript) Turns() int {
	n := len(t.Rounds)
	if t.State != solver.Solved {
		return n
	}
	if n > 0 && t.Rounds[n-1].Feedback.Solved() {
		return n
	}
	return n + 1
}

// Options tune a run.
type Options struct {
	MaxRounds int                     // <= 0 means no limit
	Opening   *solver.Suggestion      // played on the first round instead of searching
	OnSuggest func(solver.Suggestion) // called before the oracle is asked
	OnRound   func(Round)             // called after each applied round
}

// Play drives e with feedback from o. maxRounds <= 0 means no limit.
// The transcript is returned on every path so callers can report how far
// the run got.
func Play(e *solver.Engine, o Oracle, maxRounds int) (Transcript, error) {
	return PlayWith(e, o, Options{MaxRounds: maxRounds})
}

// PlayWith is Play with an opening guess and per-suggestion/per-round hooks.
func PlayWith(e *solver.Engine, o Oracle, opts Options) (Transcript, error) {
	var t Transcript
	for e.State() == solver.Active {
		if opts.MaxRounds > 0 && len(t.Rounds) >= opts.MaxRounds {
			return finish(e, t), ErrGaveUp
		}
		var sug solver.Suggestion
		if len(t.Rounds) == 0 && opts.Opening != nil {
			sug = *opts.Opening
		} else {
			var err error
			if sug, err = e.BestGuess(); err != nil {
				return finish(e, t), err
			}
		}
		if opts.OnSuggest != nil {
			opts.OnSuggest(sug)
		}
		fb, err := o.Feedback(sug.Word)
		if err != nil {
			return finish(e, t), err
		}
		res, err := e.Apply(sug.Word, fb)
		if err == nil || errors.Is(err, solver.ErrExhausted) {
			r := Round{
				Guess:     sug.Word,
				Feedback:  slices.Clone(fb),
				Score:     sug.Score,
				Removed:   res.Removed,
				Remaining: res.Remaining,
			}
			t.Rounds = append(t.Rounds, r)
			if opts.OnRound != nil {
				opts.OnRound(r)
			}
		}
		if err != nil {
			return finish(e, t), err
		}
	}
	return finish(e, t), nil
}

func finish(e *solver.Engine, t Transcript) Transcript {
	t.State = e.State()
	if ans, ok := e.Answer(); ok {
		t.Answer = ans
	}
	return t
}
