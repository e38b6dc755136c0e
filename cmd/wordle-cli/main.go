// cmd/wordle-cli
//
// Terminal front end for the solver.
//
// Modes:
//   - interactive (default): suggests a guess, reads the observed feedback
//     (0 grey, 1 yellow, 2 green), repeats until one candidate remains.
//   - -target WORD / -daily: plays against a known secret and prints the run.
//   - -simulate: plays every candidate as the secret and prints the
//     distribution of turns.
//
// Missing -length / -dataset are asked for on stdin.

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/oracle"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/words"
)

type options struct {
	length   int
	dataset  string
	hard     bool
	dataDir  string
	target   string
	daily    bool
	simulate bool
	workers  int
	rounds   int
}

func main() {
	cfg := config.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	cfg.ApplyLogLevel()

	var o options
	flag.IntVar(&o.length, "length", 0, "word length (4-11); asked for when 0")
	flag.StringVar(&o.dataset, "dataset", "", "dataset directory name; asked for when empty")
	flag.BoolVar(&o.hard, "hard", false, "hard mode: only guesses consistent with all feedback")
	flag.StringVar(&o.dataDir, "data", cfg.WordsDir, "dataset root (default: embedded lists)")
	flag.StringVar(&o.target, "target", "", "play against this secret instead of asking for feedback")
	flag.BoolVar(&o.daily, "daily", false, "play against today's secret (DAILY_SALT)")
	flag.BoolVar(&o.simulate, "simulate", false, "play every candidate and report the turn distribution")
	flag.IntVar(&o.workers, "workers", cfg.Workers, "search workers (0 = GOMAXPROCS)")
	flag.IntVar(&o.rounds, "max-rounds", 0, "give up after this many rounds (0 = no limit)")
	flag.Parse()

	if err := run(o, cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("solver failed")
	}
}

func run(o options, cfg config.Config, stdin io.Reader, stdout io.Writer) error {
	in := bufio.NewScanner(stdin)
	fsys := words.Source(o.dataDir)

	if o.length == 0 {
		n, err := askLength(in)
		if err != nil {
			return err
		}
		o.length = n
	}
	if o.dataset == "" {
		names, err := words.Available(fsys)
		if err != nil {
			return err
		}
		if o.dataset, err = askDataset(in, names); err != nil {
			return err
		}
	}
	if o.length < solver.MinLength || o.length > solver.MaxLength {
		return fmt.Errorf("%w: %d", solver.ErrUnsupportedLength, o.length)
	}

	lists, err := words.Load(fsys, o.dataset, o.length)
	if err != nil {
		return err
	}
	log.Info().Int("words", len(lists.Candidates)).Msg("read problem words set")
	log.Info().Int("words", len(lists.Guesses)).Msg("read all words set")

	newEngine := func() (*solver.Engine, error) {
		e, err := solver.New(o.length, lists.Candidates, lists.Guesses,
			solver.WithHardMode(o.hard), solver.WithWorkers(o.workers))
		if err != nil {
			return nil, err
		}
		e.Merge()
		return e, nil
	}

	switch {
	case o.simulate:
		s, err := simulate(newEngine, lists.Candidates, o.rounds, true)
		if err != nil {
			return err
		}
		s.print(stdout)
		return nil
	case o.target != "" || o.daily:
		secret := oracle.Secret{Word: solver.ParseWord(strings.TrimSpace(o.target))}
		if o.daily {
			if secret, err = oracle.Daily(time.Now(), cfg.DailySalt, lists.Candidates); err != nil {
				return err
			}
		}
		if len(secret.Word) != o.length {
			return fmt.Errorf("target %q: %w", secret.Word, solver.ErrShape)
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		return play(e, secret, o.rounds, stdout)
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	return play(e, &prompter{in: in, out: stdout, n: o.length}, o.rounds, stdout)
}

// play runs one game, printing each round and the outcome.
func play(e *solver.Engine, src oracle.Oracle, maxRounds int, out io.Writer) error {
	tr, err := oracle.PlayWith(e, src, oracle.Options{
		MaxRounds: maxRounds,
		OnSuggest: func(sug solver.Suggestion) {
			log.Info().Uint64("excluded", sug.Excluded).Msgf("`%s` exclude %.2f words", sug.Word, sug.Score)
		},
		OnRound: func(r oracle.Round) {
			fmt.Fprintln(out, tiles(r.Guess, r.Feedback))
			log.Info().Int("removed", r.Removed).Int("remaining", r.Remaining).Msg("applied feedback")
			if r.Remaining > 0 && r.Remaining <= shownCandidates {
				fmt.Fprintln(out, "candidates:", joinWords(e.Candidates()))
			}
		},
	})
	if errors.Is(err, errQuit) {
		err = nil
	}
	if err != nil && !errors.Is(err, solver.ErrExhausted) && !errors.Is(err, oracle.ErrGaveUp) {
		return err
	}
	if tr.State == solver.Solved {
		fmt.Fprintf(out, "final answer: %s (%d turns)\n", tr.Answer, tr.Turns())
	} else {
		fmt.Fprintln(out, "no answer found")
	}
	return nil
}

var errQuit = errors.New("quit")

// prompter is the interactive oracle: it shows the suggestion and reads the
// feedback the game displayed, asking again on malformed input.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
	n   int
}

func (p *prompter) Feedback(guess solver.Word) (solver.Feedback, error) {
	fmt.Fprintf(p.out, "try: %s\n", guess)
	for {
		fmt.Fprint(p.out, "result (0 grey, 1 yellow, 2 green; q quits): ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return nil, err
			}
			return nil, errQuit
		}
		line := strings.TrimSpace(p.in.Text())
		if line == "q" {
			return nil, errQuit
		}
		fb, err := solver.ParseFeedback(line)
		if err != nil {
			log.Error().Err(err).Msg("invalid result")
			continue
		}
		if len(fb) != p.n {
			log.Error().Msgf("result size does not match: %d != %d", len(fb), p.n)
			continue
		}
		return fb, nil
	}
}

func askLength(in *bufio.Scanner) (int, error) {
	for {
		fmt.Fprintf(os.Stderr, "word size (%d-%d): ", solver.MinLength, solver.MaxLength)
		if !in.Scan() {
			return 0, errQuit
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && n >= solver.MinLength && n <= solver.MaxLength {
			return n, nil
		}
		log.Error().Str("input", in.Text()).Msg("invalid word size")
	}
}

func askDataset(in *bufio.Scanner, names []string) (string, error) {
	if len(names) == 0 {
		return "", words.ErrDatasetUnknown
	}
	for {
		fmt.Fprintln(os.Stderr, "dataset:")
		for i, name := range names {
			fmt.Fprintf(os.Stderr, "%d.%s\n", i+1, name)
		}
		if !in.Scan() {
			return "", errQuit
		}
		choice := strings.TrimSpace(in.Text())
		if i, err := strconv.Atoi(choice); err == nil && i >= 1 && i <= len(names) {
			return names[i-1], nil
		}
		for _, name := range names {
			if name == choice {
				return name, nil
			}
		}
		log.Error().Str("input", choice).Msg("unknown dataset")
	}
}
