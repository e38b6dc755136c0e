// internal/history/store.go
//
// Solve history persistence: one row per run in `runs`, one row per applied
// feedback in `rounds`. Users' run/solved counters are bumped when a run
// finishes.

package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/wordle-solver/internal/oracle"
)

var ErrRunNotFound = errors.New("history: run not found")

// Run is one solving run as stored.
type Run struct {
	ID          int64  `json:"id"`
	SessionID   string `json:"sessionId"`
	UserID      string `json:"userId,omitempty"`
	AnonymousID string `json:"-"`
	Dataset     string `json:"dataset"`
	Length      int    `json:"length"`
	HardMode    bool   `json:"hardMode"`
	State       string `json:"state"`
	Answer      string `json:"answer,omitempty"`
	StartedAt   string `json:"startedAt"`
	FinishedAt  string `json:"finishedAt,omitempty"`
	Rounds      int    `json:"rounds"`
}

// RoundRow is one applied feedback.
type RoundRow struct {
	Seq       int     `json:"seq"`
	Guess     string  `json:"guess"`
	Feedback  string  `json:"feedback"`
	Score     float64 `json:"score"`
	Removed   int     `json:"removed"`
	Remaining int     `json:"remaining"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// StartRun inserts a run row and returns its ID.
func (s *Store) StartRun(ctx context.Context, r Run) (int64, error) {
	if r.State == "" {
		r.State = "active"
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO runs (session_id, user_id, anonymous_id, dataset, length, hard_mode, state, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, nullable(r.UserID), nullable(r.AnonymousID), r.Dataset, r.Length, r.HardMode, r.State, now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddRound appends a round to a run; the sequence number is assigned here.
func (s *Store) AddRound(ctx context.Context, runID int64, r oracle.Round) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO rounds (run_id, seq, guess, feedback, score, removed, remaining)
        SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?
        FROM rounds WHERE run_id = ?`,
		runID, r.Guess.String(), r.Feedback.String(), r.Score, r.Removed, r.Remaining, runID,
	)
	return err
}

// FinishRun records the terminal state and bumps the owner's counters.
func (s *Store) FinishRun(ctx context.Context, runID int64, state, answer string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM runs WHERE id=? AND finished_at IS NULL`, runID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRunNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE runs SET state=?, answer=?, finished_at=? WHERE id=?`,
		state, answer, now(), runID); err != nil {
		return err
	}
	if userID.Valid {
		solved := 0
		if state == "solved" {
			solved = 1
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET runs = runs + 1, solved = solved + ? WHERE id=?`,
			solved, userID.String); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RunsByUser lists a user's most recent runs, newest first.
func (s *Store) RunsByUser(ctx context.Context, userID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT r.id, r.session_id, r.dataset, r.length, r.hard_mode, r.state, r.answer,
               r.started_at, COALESCE(r.finished_at, ''),
               (SELECT COUNT(1) FROM rounds WHERE run_id = r.id)
        FROM runs r
        WHERE r.user_id=?
        ORDER BY r.started_at DESC, r.id DESC
        LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		r := Run{UserID: userID}
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Dataset, &r.Length, &r.HardMode, &r.State, &r.Answer,
			&r.StartedAt, &r.FinishedAt, &r.Rounds); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Rounds returns the rounds of a run in play order.
func (s *Store) Rounds(ctx context.Context, runID int64) ([]RoundRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT seq, guess, feedback, score, removed, remaining
        FROM rounds WHERE run_id=? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RoundRow{}
	for rows.Next() {
		var r RoundRow
		if err := rows.Scan(&r.Seq, &r.Guess, &r.Feedback, &r.Score, &r.Removed, &r.Remaining); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous transfers anonymous runs to a user after login. Runs that
// already finished are added to the user's counters.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var finished, solved int
	if err := tx.QueryRowContext(ctx, `
        SELECT COUNT(1), COALESCE(SUM(CASE WHEN state='solved' THEN 1 ELSE 0 END), 0)
        FROM runs WHERE anonymous_id=? AND finished_at IS NOT NULL`, anonID).Scan(&finished, &solved); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE runs SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		return err
	}
	if finished > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE users SET runs = runs + ?, solved = solved + ? WHERE id=?`,
			finished, solved, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RunOwner returns the user that owns a run, or ErrRunNotFound.
func (s *Store) RunOwner(ctx context.Context, runID int64) (string, error) {
	var userID sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM runs WHERE id=?`, runID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRunNotFound
	}
	return userID.String, err
}
