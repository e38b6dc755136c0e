// internal/httpserver/routes_solve.go
//
// Solve endpoints. A session owns one engine; clients ask for the next guess,
// report the feedback they saw, and repeat until the run is solved or the
// feedback contradicts every candidate.
//
//   POST   /solve/new                  {length, dataset, hard} → status + first suggestion
//   GET    /solve/{id}                 status (candidates listed once few remain)
//   GET    /solve/{id}/best            next suggestion
//   POST   /solve/{id}/feedback        {guess, feedback} → counts + next suggestion
//   GET    /solve/{id}/partition?guess= buckets the guess would split candidates into
//   DELETE /solve/{id}                 drop the session

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/internal/history"
	"github.com/robalobadob/wordle-solver/internal/oracle"
	"github.com/robalobadob/wordle-solver/internal/session"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

// candidatesShown caps the candidate list returned with a status.
const candidatesShown = 16

const (
	defaultLength  = 5
	defaultDataset = "wordle"
)

type newSolveReq struct {
	Length  int    `json:"length"`
	Dataset string `json:"dataset"`
	Hard    bool   `json:"hard"`
}

type feedbackReq struct {
	Guess    string `json:"guess"`
	Feedback string `json:"feedback"`
}

type suggestionRes struct {
	Guess    string  `json:"guess"`
	Excluded uint64  `json:"excluded"`
	Score    float64 `json:"score"`
}

type statusRes struct {
	ID         string         `json:"id"`
	Dataset    string         `json:"dataset"`
	Length     int            `json:"length"`
	HardMode   bool           `json:"hardMode"`
	State      string         `json:"state"`
	Remaining  int            `json:"remaining"`
	Guesses    int            `json:"guesses"`
	Answer     string         `json:"answer,omitempty"`
	Candidates []string       `json:"candidates,omitempty"`
	Best       *suggestionRes `json:"best,omitempty"`
}

type feedbackRes struct {
	statusRes
	Removed int `json:"removed"`
}

type bucketRes struct {
	Feedback string   `json:"feedback"`
	Count    int      `json:"count"`
	Words    []string `json:"words,omitempty"`
}

type partitionRes struct {
	Guess   string      `json:"guess"`
	Buckets []bucketRes `json:"buckets"`
}

// mountSolve registers the /solve routes on r.
func (s *Server) mountSolve(r chi.Router) {
	r.Post("/solve/new", s.handleNewSolve)
	r.Get("/solve/{id}", s.withSession(s.handleStatus))
	r.Get("/solve/{id}/best", s.withSession(s.handleBest))
	r.Post("/solve/{id}/feedback", s.withSession(s.handleFeedback))
	r.Get("/solve/{id}/partition", s.withSession(s.handlePartition))
	r.Delete("/solve/{id}", s.withSession(s.handleDeleteSolve))
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves {id} and hides sessions owned by someone else.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		if !s.callerOwns(r, sess.Owner) {
			writeError(w, http.StatusNotFound, "session_not_found")
			return
		}
		h(w, r, sess)
	}
}

// callerOwns matches the session owner against the user ID or anon cookie.
func (s *Server) callerOwns(r *http.Request, owner string) bool {
	if me := currentUser(r); me != nil && me.ID == owner {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && c.Value == owner
}

// handleNewSolve loads the lists, builds an engine and opens a session.
func (s *Server) handleNewSolve(w http.ResponseWriter, r *http.Request) {
	req := newSolveReq{Length: defaultLength, Dataset: defaultDataset}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Length == 0 {
		req.Length = defaultLength
	}
	if req.Dataset == "" {
		req.Dataset = defaultDataset
	}
	if req.Length < solver.MinLength || req.Length > solver.MaxLength {
		writeError(w, http.StatusBadRequest, solver.ErrUnsupportedLength.Error())
		return
	}

	if n := s.sessions.Sweep(r.Context(), time.Now().Add(-s.cfg.SessionTTL)); n > 0 {
		log.Debug().Int("sessions", n).Msg("swept idle sessions")
	}

	lists, err := s.lists.Get(req.Dataset, req.Length)
	if err != nil {
		writeError(w, solverStatus(err), err.Error())
		return
	}
	e, err := solver.New(req.Length, lists.Candidates, lists.Guesses,
		solver.WithHardMode(req.Hard), solver.WithWorkers(s.cfg.Workers))
	if err != nil {
		writeError(w, solverStatus(err), err.Error())
		return
	}
	e.Merge()

	userID, anonID := s.owner(w, r)
	owner := userID
	if owner == "" {
		owner = anonID
	}
	sess := session.New(e, req.Dataset, owner)

	if s.history != nil {
		runID, err := s.history.StartRun(r.Context(), history.Run{
			SessionID:   sess.ID,
			UserID:      userID,
			AnonymousID: anonID,
			Dataset:     req.Dataset,
			Length:      req.Length,
			HardMode:    req.Hard,
		})
		if err != nil {
			log.Error().Err(err).Msg("start run")
		} else {
			sess.RunID = runID
		}
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "session_error")
		return
	}

	var out statusRes
	err = sess.Do(func(e *solver.Engine) error {
		out = status(sess, e)
		return suggest(sess, e, &out)
	})
	if err != nil {
		writeError(w, solverStatus(err), err.Error())
		return
	}
	log.Info().
		Str("session", sess.ID).
		Str("dataset", req.Dataset).
		Int("length", req.Length).
		Bool("hard", req.Hard).
		Int("candidates", out.Remaining).
		Msg("solve started")
	writeJSON(w, http.StatusCreated, out)
}

// handleStatus reports counts and state; candidates are listed once few remain.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var out statusRes
	_ = sess.Do(func(e *solver.Engine) error {
		out = status(sess, e)
		return nil
	})
	writeJSON(w, http.StatusOK, out)
}

// handleBest runs the search and returns the next guess.
func (s *Server) handleBest(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var out suggestionRes
	err := sess.Do(func(e *solver.Engine) error {
		var st statusRes
		if err := suggest(sess, e, &st); err != nil {
			return err
		}
		out = *st.Best
		return nil
	})
	if err != nil {
		writeError(w, solverStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleFeedback applies one observed feedback and returns the next suggestion.
// A contradiction answers 409 with the counts so clients can show what happened;
// later feedback on the exhausted session gets the same 409 and is not recorded.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	guess := solver.ParseWord(strings.TrimSpace(req.Guess))
	fb, err := solver.ParseFeedback(strings.TrimSpace(req.Feedback))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		out   feedbackRes
		round oracle.Round
		ended bool
	)
	applyErr := sess.Do(func(e *solver.Engine) error {
		if e.State() == solver.Exhausted {
			ended = true
			out = feedbackRes{statusRes: status(sess, e)}
			return nil
		}
		score := 0.0
		if solver.Equal(sess.Last.Word, guess) {
			score = sess.Last.Score
		}
		res, err := e.Apply(guess, fb)
		if err != nil && !errors.Is(err, solver.ErrExhausted) {
			return err
		}
		round = oracle.Round{Guess: guess, Feedback: fb, Score: score, Removed: res.Removed, Remaining: res.Remaining}
		out = feedbackRes{statusRes: status(sess, e), Removed: res.Removed}
		if err != nil {
			return err
		}
		if e.State() == solver.Active {
			return suggest(sess, e, &out.statusRes)
		}
		return nil
	})
	if applyErr != nil && !errors.Is(applyErr, solver.ErrExhausted) {
		writeError(w, solverStatus(applyErr), applyErr.Error())
		return
	}
	if ended {
		// the run already closed on an earlier contradiction
		writeJSON(w, http.StatusConflict, out)
		return
	}

	s.recordRound(r.Context(), sess, round, out.State, out.Answer)

	if applyErr != nil {
		log.Info().Str("session", sess.ID).Str("guess", guess.String()).Str("feedback", fb.String()).Msg("contradiction")
		writeJSON(w, http.StatusConflict, out)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// recordRound persists a round and closes the run once it is terminal.
func (s *Server) recordRound(ctx context.Context, sess *session.Session, round oracle.Round, state, answer string) {
	if s.history == nil || sess.RunID == 0 {
		return
	}
	if err := s.history.AddRound(ctx, sess.RunID, round); err != nil {
		log.Error().Err(err).Int64("run", sess.RunID).Msg("add round")
		return
	}
	if state == solver.Active.String() {
		return
	}
	if err := s.history.FinishRun(ctx, sess.RunID, state, answer); err != nil && !errors.Is(err, history.ErrRunNotFound) {
		log.Error().Err(err).Int64("run", sess.RunID).Msg("finish run")
	}
}

// handlePartition groups the candidates by the feedback a guess would get.
func (s *Server) handlePartition(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	guess := solver.ParseWord(strings.TrimSpace(r.URL.Query().Get("guess")))
	var out partitionRes
	err := sess.Do(func(e *solver.Engine) error {
		buckets, err := e.Partition(guess)
		if err != nil {
			return err
		}
		out = partitionRes{Guess: guess.String(), Buckets: make([]bucketRes, 0, len(buckets))}
		for _, b := range buckets {
			br := bucketRes{Feedback: b.Feedback.String(), Count: len(b.Words)}
			if len(b.Words) <= candidatesShown {
				br.Words = wordStrings(b.Words)
			}
			out.Buckets = append(out.Buckets, br)
		}
		return nil
	})
	if err != nil {
		writeError(w, solverStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDeleteSolve drops the session; an unfinished run is left active in history.
func (s *Server) handleDeleteSolve(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	_ = s.sessions.Delete(r.Context(), sess.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ------------------------------ helpers -------------------------------------

// status snapshots e. Call inside sess.Do.
func status(sess *session.Session, e *solver.Engine) statusRes {
	out := statusRes{
		ID:        sess.ID,
		Dataset:   sess.Dataset,
		Length:    e.Len(),
		HardMode:  e.HardMode(),
		State:     e.State().String(),
		Remaining: e.CandidateCount(),
		Guesses:   e.GuessCount(),
	}
	if ans, ok := e.Answer(); ok {
		out.Answer = ans.String()
	}
	if out.Remaining <= candidatesShown {
		out.Candidates = wordStrings(e.Candidates())
	}
	return out
}

// suggest runs the search and stores the result on out and sess.Last.
func suggest(sess *session.Session, e *solver.Engine, out *statusRes) error {
	sug, err := e.BestGuess()
	if err != nil {
		return err
	}
	sess.Last = sug
	out.Best = &suggestionRes{Guess: sug.Word.String(), Excluded: sug.Excluded, Score: sug.Score}
	return nil
}

func wordStrings(ws []solver.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}
