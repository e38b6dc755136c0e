package oracle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/internal/oracle"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/words"
)

func wordleEngine(t *testing.T, opts ...solver.Option) *solver.Engine {
	t.Helper()
	l, err := words.Load(words.Source(""), "wordle", 5)
	require.NoError(t, err)
	e, err := solver.New(5, l.Candidates, l.Guesses, opts...)
	require.NoError(t, err)
	e.Merge()
	return e
}

func TestPlaySolvesEverySecret(t *testing.T) {
	base := wordleEngine(t)
	cands := base.Candidates()
	for i := 0; i < len(cands); i += 25 {
		secret := cands[i]
		for _, hard := range []bool{false, true} {
			e := wordleEngine(t, solver.WithHardMode(hard))
			tr, err := oracle.Play(e, oracle.Secret{Word: secret}, 0)
			require.NoError(t, err, "secret %s hard=%v", secret, hard)
			require.Equal(t, solver.Solved, tr.State)
			require.Equal(t, secret.String(), tr.Answer.String())

			prev := base.CandidateCount()
			for _, r := range tr.Rounds {
				require.Less(t, r.Remaining, prev, "candidates must shrink every round")
				prev = r.Remaining
			}
			require.GreaterOrEqual(t, tr.Turns(), len(tr.Rounds))
		}
	}
}

func TestPlayExhausted(t *testing.T) {
	e := wordleEngine(t)
	// A single non-exact position can never be Present: no secret matches.
	impossible, err := solver.ParseFeedback("22221")
	require.NoError(t, err)
	liar := oracle.Func(func(solver.Word) (solver.Feedback, error) { return impossible, nil })

	tr, err := oracle.Play(e, liar, 0)
	require.ErrorIs(t, err, solver.ErrExhausted)
	assert.Equal(t, solver.Exhausted, tr.State)
	require.Len(t, tr.Rounds, 1)
	assert.Equal(t, 0, tr.Rounds[0].Remaining)
	assert.Equal(t, candidateTotal(t), tr.Rounds[0].Removed)
}

func candidateTotal(t *testing.T) int { return wordleEngine(t).CandidateCount() }

func TestPlayRoundLimit(t *testing.T) {
	e := wordleEngine(t)
	secret := e.Candidates()[0]
	tr, err := oracle.Play(e, oracle.Secret{Word: secret}, 1)
	if err == nil {
		// solved in a single round is possible only for tiny lists
		assert.Equal(t, solver.Solved, tr.State)
		return
	}
	require.ErrorIs(t, err, oracle.ErrGaveUp)
	assert.Len(t, tr.Rounds, 1)
	assert.Equal(t, solver.Active, tr.State)
}

func TestPlayOracleError(t *testing.T) {
	boom := errors.New("boom")
	e := wordleEngine(t)
	_, err := oracle.Play(e, oracle.Func(func(solver.Word) (solver.Feedback, error) { return nil, boom }), 0)
	require.ErrorIs(t, err, boom)
}

func TestPlayWithOpening(t *testing.T) {
	base := wordleEngine(t)
	opening, err := base.BestGuess()
	require.NoError(t, err)
	secret := base.Candidates()[7]

	plain, err := oracle.Play(wordleEngine(t), oracle.Secret{Word: secret}, 0)
	require.NoError(t, err)

	var (
		seen      []oracle.Round
		suggested []solver.Suggestion
	)
	tr, err := oracle.PlayWith(wordleEngine(t), oracle.Secret{Word: secret}, oracle.Options{
		Opening:   &opening,
		OnSuggest: func(s solver.Suggestion) { suggested = append(suggested, s) },
		OnRound:   func(r oracle.Round) { seen = append(seen, r) },
	})
	require.NoError(t, err)
	assert.Equal(t, plain.Rounds, tr.Rounds, "a precomputed opening replays the same run")
	assert.Equal(t, tr.Rounds, seen)
	require.Len(t, suggested, len(tr.Rounds))
	assert.Equal(t, opening, suggested[0])
	for i, r := range tr.Rounds {
		assert.Equal(t, r.Guess, suggested[i].Word)
		assert.Equal(t, r.Score, suggested[i].Score)
	}
}

func TestTurns(t *testing.T) {
	solved, _ := solver.ParseFeedback("22222")
	partial, _ := solver.ParseFeedback("20022")
	assert.Equal(t, 2, oracle.Transcript{State: solver.Solved, Rounds: []oracle.Round{{Feedback: partial}, {Feedback: solved}}}.Turns())
	assert.Equal(t, 2, oracle.Transcript{State: solver.Solved, Rounds: []oracle.Round{{Feedback: partial}}}.Turns())
	assert.Equal(t, 1, oracle.Transcript{State: solver.Solved}.Turns())
	assert.Equal(t, 1, oracle.Transcript{State: solver.Exhausted, Rounds: []oracle.Round{{Feedback: partial}}}.Turns())
}

func TestDaily(t *testing.T) {
	day := time.Date(2026, 10, 19, 23, 0, 0, 0, time.FixedZone("x", -5*3600))
	assert.Equal(t, "2026-10-20", oracle.DateKey(day))

	cands := []solver.Word{solver.ParseWord("crane"), solver.ParseWord("slate"), solver.ParseWord("trace")}
	a, err := oracle.Daily(day, "salt", cands)
	require.NoError(t, err)
	b, err := oracle.Daily(day.Add(30*time.Minute), "salt", cands)
	require.NoError(t, err)
	assert.Equal(t, a.Word.String(), b.Word.String(), "same UTC day, same secret")

	idx := oracle.DayIndex(day, "salt", len(cands))
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, len(cands))
	assert.Equal(t, 0, oracle.DayIndex(day, "salt", 0))

	_, err = oracle.Daily(day, "salt", nil)
	require.ErrorIs(t, err, oracle.ErrNoCandidates)
}
