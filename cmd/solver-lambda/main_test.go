package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/words"
)

var tinyData = fstest.MapFS{
	"tiny/possible.txt": {Data: []byte("bake\ncake\nfake\nlake\nmake\nrake\ntake\nwake\nlime\nline\n")},
	"caps/possible.txt": {Data: []byte("BAKE\nCAKE\nLAKE\n")},
}

func invoke(t *testing.T, body string, b64 bool) (int, nextResult) {
	t.Helper()
	h := &handler{lists: words.NewCache(tinyData)}
	if b64 {
		body = base64.StdEncoding.EncodeToString([]byte(body))
	}
	res, err := h.handle(context.Background(), events.LambdaFunctionURLRequest{Body: body, IsBase64Encoded: b64})
	require.NoError(t, err)
	assert.Equal(t, "application/json", res.Headers["Content-Type"])
	var out nextResult
	require.NoError(t, json.Unmarshal([]byte(res.Body), &out))
	return res.StatusCode, out
}

func TestHandleFirstGuess(t *testing.T) {
	code, out := invoke(t, `{"length":4,"dataset":"tiny"}`, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "active", out.State)
	assert.Equal(t, 10, out.Remaining)
	assert.Len(t, out.Candidates, 10)
	require.NotNil(t, out.Best)
	assert.Len(t, out.Best.Guess, 4)
}

func TestHandleReplaysHistory(t *testing.T) {
	secret := solver.ParseWord("wake")
	history := []map[string]string{}
	for i := 0; i < 10; i++ {
		body, _ := json.Marshal(map[string]any{"length": 4, "dataset": "tiny", "hard": true, "history": history})
		code, out := invoke(t, string(body), i%2 == 1)
		require.Equal(t, http.StatusOK, code)
		if out.State == "solved" {
			assert.Equal(t, "wake", out.Answer)
			assert.Equal(t, "wake", out.Best.Guess)
			return
		}
		fb, err := solver.Score(solver.ParseWord(out.Best.Guess), secret)
		require.NoError(t, err)
		history = append(history, map[string]string{"guess": out.Best.Guess, "feedback": fb.String()})
	}
	t.Fatal("history replay did not converge")
}

func TestHandleKeepsGuessCase(t *testing.T) {
	code, out := invoke(t, `{"length":4,"dataset":"caps","history":[{"guess":"LAKE","feedback":"2222"}]}`, false)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "solved", out.State)
	assert.Equal(t, "LAKE", out.Answer)
}

func TestHandleErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"not json", `{"length":`, http.StatusBadRequest},
		{"length", `{"length":12,"dataset":"tiny"}`, http.StatusBadRequest},
		{"dataset", `{"length":4,"dataset":"nope"}`, http.StatusNotFound},
		{"no words", `{"length":6,"dataset":"tiny"}`, http.StatusUnprocessableEntity},
		{"bad mark", `{"length":4,"dataset":"tiny","history":[{"guess":"lake","feedback":"20x2"}]}`, http.StatusBadRequest},
		{"bad shape", `{"length":4,"dataset":"tiny","history":[{"guess":"lakes","feedback":"2002"}]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := invoke(t, tc.body, false)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestHandleContradiction(t *testing.T) {
	code, out := invoke(t, `{"length":4,"dataset":"tiny","history":[{"guess":"lake","feedback":"0222"},{"guess":"bake","feedback":"2221"}]}`, false)
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "exhausted", out.State)
	assert.Equal(t, 2, out.Round)
	assert.Zero(t, out.Remaining)
	assert.Nil(t, out.Best)
}
