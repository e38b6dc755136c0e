package solver_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

func words(ss ...string) []solver.Word {
	out := make([]solver.Word, len(ss))
	for i, s := range ss {
		out[i] = solver.ParseWord(s)
	}
	return out
}

func strs(ws []solver.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

func fb(t require.TestingT, s string) solver.Feedback {
	f, err := solver.ParseFeedback(s)
	require.NoError(t, err)
	return f
}

// EngineSuite covers construction, merging and feedback application.
type EngineSuite struct {
	suite.Suite
}

func (s *EngineSuite) newEngine(n int, cands, guesses []string, opts ...solver.Option) *solver.Engine {
	e, err := solver.New(n, words(cands...), words(guesses...), opts...)
	s.Require().NoError(err)
	e.Merge()
	return e
}

func (s *EngineSuite) TestUnsupportedLength() {
	_, err := solver.New(3, words("abc"), nil)
	s.Require().ErrorIs(err, solver.ErrUnsupportedLength)
	_, err = solver.New(12, nil, nil)
	s.Require().ErrorIs(err, solver.ErrUnsupportedLength)
}

func (s *EngineSuite) TestWrongWordLength() {
	_, err := solver.New(5, words("apple", "pear"), nil)
	s.Require().ErrorIs(err, solver.ErrShape)
	var se *solver.ShapeError
	s.Require().True(errors.As(err, &se))
	s.Equal(5, se.Want)
	s.Equal(4, se.Got)
}

func (s *EngineSuite) TestNewSortsAndDedups() {
	e, err := solver.New(5, words("apply", "angle", "apply"), words("zebra", "apple", "zebra"))
	s.Require().NoError(err)
	s.Equal([]string{"angle", "apply"}, strs(e.Candidates()))
	s.Equal([]string{"apple", "zebra"}, strs(e.Guesses()))
}

func (s *EngineSuite) TestMerge() {
	e, err := solver.New(5, words("angle", "apple"), words("zebra", "apple"))
	s.Require().NoError(err)
	e.Merge()
	s.Equal([]string{"angle", "apple", "zebra"}, strs(e.Guesses()))
	e.Merge()
	s.Equal([]string{"angle", "apple", "zebra"}, strs(e.Guesses()))
}

func (s *EngineSuite) TestInitialState() {
	s.Equal(solver.Active, s.newEngine(5, []string{"apple", "angle"}, nil).State())
	s.Equal(solver.Solved, s.newEngine(5, []string{"apple"}, nil).State())
	s.Equal(solver.Exhausted, s.newEngine(5, nil, []string{"apple"}).State())
}

func (s *EngineSuite) TestApplyScenario() {
	e := s.newEngine(5, []string{"apple", "apply", "angle"}, nil)

	res, err := e.Apply(solver.ParseWord("apple"), fb(s.T(), "20022"))
	s.Require().NoError(err)
	s.Equal(2, res.Removed)
	s.Equal(1, res.Remaining)
	s.Equal(solver.Solved, res.State)

	ans, ok := e.Answer()
	s.Require().True(ok)
	s.Equal("angle", ans.String())
	// Not hard mode: the guess set is untouched.
	s.Equal(3, e.GuessCount())
}

func (s *EngineSuite) TestApplyExhausted() {
	e := s.newEngine(5, []string{"apple", "apply", "angle"}, nil)

	res, err := e.Apply(solver.ParseWord("apple"), fb(s.T(), "00000"))
	s.Require().ErrorIs(err, solver.ErrExhausted)
	var ce *solver.ContradictionError
	s.Require().True(errors.As(err, &ce))
	s.Equal(3, ce.Removed)
	s.Equal(3, res.Removed)
	s.Equal(0, res.Remaining)
	s.Equal(solver.Exhausted, e.State())

	_, err = e.BestGuess()
	s.Require().ErrorIs(err, solver.ErrExhausted)
}

func (s *EngineSuite) TestApplyShape() {
	e := s.newEngine(5, []string{"apple", "angle"}, nil)

	_, err := e.Apply(solver.ParseWord("app"), fb(s.T(), "20022"))
	s.Require().ErrorIs(err, solver.ErrShape)
	_, err = e.Apply(solver.ParseWord("apple"), fb(s.T(), "2002"))
	s.Require().ErrorIs(err, solver.ErrShape)
	_, err = e.Apply(solver.ParseWord("apple"), solver.Feedback{2, 0, 0, 2, 7})
	s.Require().ErrorIs(err, solver.ErrInvalidMark)

	// Rejected input leaves the sets alone.
	s.Equal(2, e.CandidateCount())
}

func (s *EngineSuite) TestHardMode() {
	cands := []string{"abcd", "abce", "abcf", "abdc", "bcda"}
	e := s.newEngine(4, cands, []string{"defx", "xyzw"}, solver.WithHardMode(true))
	s.True(e.HardMode())

	played := solver.ParseWord("abcd")
	res, err := e.Apply(played, fb(s.T(), "2220"))
	s.Require().NoError(err)
	s.Equal([]string{"abce", "abcf"}, strs(e.Candidates()))
	s.Equal(2, res.Remaining)

	for _, g := range e.Guesses() {
		got, err := solver.Score(played, g)
		s.Require().NoError(err)
		s.Equal("2220", got.String(), "guess %s contradicts feedback", g)
	}
	s.Equal([]string{"abce", "abcf"}, strs(e.Guesses()))
}

func (s *EngineSuite) TestMonotonicShrink() {
	rng := rand.New(rand.NewSource(11))
	dict := randomWords(rng, 400, 5, "abcdefgh")
	e, err := solver.New(5, dict, dict, solver.WithHardMode(true))
	s.Require().NoError(err)
	e.Merge()
	secret := e.Candidates()[137]

	prevC, prevG := e.CandidateCount(), e.GuessCount()
	for round := 0; e.State() == solver.Active; round++ {
		s.Require().Less(round, 20, "did not converge")
		sug, err := e.BestGuess()
		s.Require().NoError(err)
		got, err := solver.Score(sug.Word, secret)
		s.Require().NoError(err)
		_, err = e.Apply(sug.Word, got)
		s.Require().NoError(err)

		s.LessOrEqual(e.GuessCount(), prevG)
		s.Less(e.CandidateCount(), prevC)
		prevC, prevG = e.CandidateCount(), e.GuessCount()
	}
	ans, ok := e.Answer()
	s.Require().True(ok)
	s.Equal(secret.String(), ans.String())
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}
