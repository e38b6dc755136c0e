package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/TwiN/go-color"
	"github.com/schollz/progressbar/v3"

	"github.com/robalobadob/wordle-solver/internal/oracle"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

const shownCandidates = 16

var markColors = [...]string{
	solver.Absent:  color.Gray,
	solver.Present: color.Yellow,
	solver.Exact:   color.Green,
}

// tiles renders a guess with each letter coloured by its mark.
func tiles(guess solver.Word, fb solver.Feedback) string {
	var b strings.Builder
	for i, r := range guess {
		b.WriteString(color.Ize(markColors[fb[i]], " "+string(r)+" "))
	}
	return b.String()
}

func joinWords(ws []solver.Word) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

// summary aggregates a simulation over every candidate secret.
type summary struct {
	games   int
	turns   map[int]int // turns to win → games
	failed  []string    // secrets not solved
	total   int         // turns summed over solved games
	longest int
}

// simulate plays every secret in secrets on a fresh engine. The opening is
// the same for every game, so it is searched once and replayed.
func simulate(newEngine func() (*solver.Engine, error), secrets []solver.Word, maxRounds int, progress bool) (summary, error) {
	s := summary{turns: make(map[int]int)}
	first, err := newEngine()
	if err != nil {
		return s, err
	}
	opening, err := first.BestGuess()
	if err != nil {
		return s, err
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(secrets)), "simulating")
	}
	for _, secret := range secrets {
		e, err := newEngine()
		if err != nil {
			return s, err
		}
		tr, err := oracle.PlayWith(e, oracle.Secret{Word: secret}, oracle.Options{MaxRounds: maxRounds, Opening: &opening})
		s.games++
		if err != nil || tr.State != solver.Solved {
			s.failed = append(s.failed, secret.String())
		} else {
			n := tr.Turns()
			s.turns[n]++
			s.total += n
			s.longest = max(s.longest, n)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return s, nil
}

func (s summary) solved() int { return s.games - len(s.failed) }

func (s summary) average() float64 {
	if s.solved() == 0 {
		return 0
	}
	return float64(s.total) / float64(s.solved())
}

func (s summary) print(w io.Writer) {
	keys := make([]int, 0, len(s.turns))
	for k := range s.turns {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	fmt.Fprintf(w, "\nsolved %d/%d, average %.3f turns, worst %d\n", s.solved(), s.games, s.average(), s.longest)
	for _, k := range keys {
		c := s.turns[k]
		fmt.Fprintf(w, "%3d turns: %5d %s\n", k, c, strings.Repeat("#", (c*50+s.games-1)/s.games))
	}
	if len(s.failed) > 0 {
		fmt.Fprintln(w, "failed:", strings.Join(s.failed, " "))
	}
}
