package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/robalobadob/wordle-solver/internal/history"
	"github.com/robalobadob/wordle-solver/internal/oracle"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

// StoreSuite runs against a fresh SQLite file per test.
type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *history.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := history.Open(filepath.Join(s.T().TempDir(), "data", "solver.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })
	s.Require().NoError(history.Migrate(db))
	s.Require().NoError(history.Migrate(db), "migrations are idempotent")
	s.store = history.NewStore(db)
}

func round(guess, fb string, removed, remaining int) oracle.Round {
	f, _ := solver.ParseFeedback(fb)
	return oracle.Round{Guess: solver.ParseWord(guess), Feedback: f, Score: 1.5, Removed: removed, Remaining: remaining}
}

func (s *StoreSuite) TestUsers() {
	u, err := s.store.CreateUser(s.ctx, " alice ", "correct horse")
	s.Require().NoError(err)
	s.Equal("alice", u.Username)

	_, err = s.store.CreateUser(s.ctx, "ALICE", "another pass")
	s.Require().ErrorIs(err, history.ErrUsernameTaken)

	_, err = s.store.CreateUser(s.ctx, "bo", "short")
	s.Require().Error(err)

	got, err := s.store.Authenticate(s.ctx, "Alice", "correct horse")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)

	_, err = s.store.Authenticate(s.ctx, "alice", "wrong password")
	s.Require().ErrorIs(err, history.ErrUserNotFound)
	_, err = s.store.FindUserByID(s.ctx, "nobody")
	s.Require().ErrorIs(err, history.ErrUserNotFound)
}

func (s *StoreSuite) TestRunLifecycle() {
	u, err := s.store.CreateUser(s.ctx, "carol", "password123")
	s.Require().NoError(err)

	id, err := s.store.StartRun(s.ctx, history.Run{SessionID: "abc", UserID: u.ID, Dataset: "wordle", Length: 5, HardMode: true})
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddRound(s.ctx, id, round("roate", "00102", 400, 30)))
	s.Require().NoError(s.store.AddRound(s.ctx, id, round("slept", "22222", 29, 1)))
	s.Require().NoError(s.store.FinishRun(s.ctx, id, "solved", "slept"))
	s.Require().ErrorIs(s.store.FinishRun(s.ctx, id, "solved", "slept"), history.ErrRunNotFound)

	rounds, err := s.store.Rounds(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal(1, rounds[0].Seq)
	s.Equal("roate", rounds[0].Guess)
	s.Equal("00102", rounds[0].Feedback)
	s.Equal(2, rounds[1].Seq)

	runs, err := s.store.RunsByUser(s.ctx, u.ID, 10)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)
	s.Equal("solved", runs[0].State)
	s.Equal("slept", runs[0].Answer)
	s.True(runs[0].HardMode)
	s.Equal(2, runs[0].Rounds)

	me, err := s.store.FindUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(1, me.Runs)
	s.Equal(1, me.Solved)
}

func (s *StoreSuite) TestClaimAnonymous() {
	id, err := s.store.StartRun(s.ctx, history.Run{SessionID: "x", AnonymousID: "anon-7", Dataset: "wordle", Length: 5})
	s.Require().NoError(err)
	s.Require().NotZero(id)

	u, err := s.store.CreateUser(s.ctx, "dave", "password123")
	s.Require().NoError(err)
	s.Require().NoError(s.store.ClaimAnonymous(s.ctx, "anon-7", u.ID))

	runs, err := s.store.RunsByUser(s.ctx, u.ID, 0)
	s.Require().NoError(err)
	s.Require().Len(runs, 1)
	s.Equal("active", runs[0].State)

	// finished guest runs count toward the claiming user
	id2, err := s.store.StartRun(s.ctx, history.Run{SessionID: "y", AnonymousID: "anon-8", Dataset: "wordle", Length: 5})
	s.Require().NoError(err)
	s.Require().NoError(s.store.FinishRun(s.ctx, id2, "solved", "crane"))
	s.Require().NoError(s.store.ClaimAnonymous(s.ctx, "anon-8", u.ID))

	me, err := s.store.FindUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(1, me.Runs)
	s.Equal(1, me.Solved)

	owner, err := s.store.RunOwner(s.ctx, id2)
	s.Require().NoError(err)
	s.Equal(u.ID, owner)
	_, err = s.store.RunOwner(s.ctx, 9999)
	s.ErrorIs(err, history.ErrRunNotFound)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	db, err := history.Open(filepath.Join(dir, "x.db"))
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, db.Close())
	require.DirExists(t, dir)
}
