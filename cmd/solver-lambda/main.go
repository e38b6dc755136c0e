// cmd/solver-lambda
//
// Stateless next-guess endpoint for AWS Lambda function URLs. The client
// sends every round it has seen so far; the handler replays them on a fresh
// engine and answers with the next suggestion.
//
//	{"length":5,"dataset":"wordle","hard":false,
//	 "history":[{"guess":"raise","feedback":"00120"}]}

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/words"
)

const shownCandidates = 16

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type suggestion struct {
	Guess    string  `json:"guess"`
	Excluded uint64  `json:"excluded"`
	Score    float64 `json:"score"`
}

type nextResult struct {
	State      string      `json:"state"`
	Remaining  int         `json:"remaining"`
	Answer     string      `json:"answer,omitempty"`
	Candidates []string    `json:"candidates,omitempty"`
	Best       *suggestion `json:"best,omitempty"`
	Round      int         `json:"round,omitempty"` // history entry that contradicted, 1-based
}

type handler struct {
	lists   *words.Cache
	workers int
}

func (h *handler) handle(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}
	if !gjson.Valid(body) {
		return errResp(http.StatusBadRequest, "invalid JSON")
	}

	req := gjson.Parse(body)
	n := 5
	if v := req.Get("length"); v.Exists() {
		n = int(v.Int())
	}
	dataset := req.Get("dataset").String()
	if dataset == "" {
		dataset = "wordle"
	}
	if n < solver.MinLength || n > solver.MaxLength {
		return errResp(http.StatusBadRequest, fmt.Sprintf("%v: %d", solver.ErrUnsupportedLength, n))
	}

	lists, err := h.lists.Get(dataset, n)
	if err != nil {
		return errResp(statusFor(err), err.Error())
	}
	e, err := solver.New(n, lists.Candidates, lists.Guesses,
		solver.WithHardMode(req.Get("hard").Bool()), solver.WithWorkers(h.workers))
	if err != nil {
		return errResp(statusFor(err), err.Error())
	}
	e.Merge()

	var out nextResult
	for i, r := range req.Get("history").Array() {
		guess := solver.ParseWord(strings.TrimSpace(r.Get("guess").String()))
		fb, err := solver.ParseFeedback(strings.TrimSpace(r.Get("feedback").String()))
		if err != nil {
			return errResp(http.StatusBadRequest, fmt.Sprintf("history[%d]: %v", i, err))
		}
		if _, err := e.Apply(guess, fb); err != nil {
			if errors.Is(err, solver.ErrExhausted) {
				out.Round = i + 1
				break
			}
			return errResp(statusFor(err), fmt.Sprintf("history[%d]: %v", i, err))
		}
	}

	out.State = e.State().String()
	out.Remaining = e.CandidateCount()
	if ans, ok := e.Answer(); ok {
		out.Answer = ans.String()
	}
	if out.Remaining <= shownCandidates {
		for _, w := range e.Candidates() {
			out.Candidates = append(out.Candidates, w.String())
		}
	}
	if e.State() == solver.Exhausted {
		log.Info().Str("dataset", dataset).Int("round", out.Round).Msg("contradictory history")
		return jsonResp(http.StatusConflict, out)
	}

	sug, err := e.BestGuess()
	if err != nil {
		return errResp(statusFor(err), err.Error())
	}
	out.Best = &suggestion{Guess: sug.Word.String(), Excluded: sug.Excluded, Score: sug.Score}
	return jsonResp(http.StatusOK, out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, solver.ErrShape), errors.Is(err, solver.ErrInvalidMark), errors.Is(err, solver.ErrUnsupportedLength):
		return http.StatusBadRequest
	case errors.Is(err, solver.ErrExhausted):
		return http.StatusConflict
	case errors.Is(err, words.ErrDatasetUnknown):
		return http.StatusNotFound
	case errors.Is(err, words.ErrEmptyList), errors.Is(err, solver.ErrEmptyGuessSet):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func jsonResp(code int, v any) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(v)
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	return jsonResp(code, map[string]string{"error": msg})
}

func main() {
	cfg := config.FromEnv()
	cfg.ApplyLogLevel()
	h := &handler{lists: words.NewCache(words.Source(cfg.WordsDir)), workers: cfg.Workers}
	lambda.Start(h.handle)
}
