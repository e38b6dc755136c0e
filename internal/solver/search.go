// internal/solver/search.go
//
// Best-guess search.
//
// Every guess g partitions the candidates into buckets by feedback. With
// bucket sizes c_i over |C| candidates the guess scores
//
//	excluded(g) = Σ c_i·(|C| − c_i)   (+1 if the all-exact bucket is non-empty)
//
// which is maximal exactly when Σ c_i² is minimal. The highest score wins;
// ties go to the guess that sorts first.

package solver

import (
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// counter is one worker's private bucket array. Only touched buckets are
// visited and cleared, so a 3^11 array is not rescanned per guess.
type counter struct {
	counts  []uint32
	touched []int
}

func newCounter(n int) *counter {
	return &counter{counts: make([]uint32, bucketCount(n))}
}

func (c *counter) add(idx int) {
	if c.counts[idx] == 0 {
		c.touched = append(c.touched, idx)
	}
	c.counts[idx]++
}

// drain computes excluded(g) for total candidates and resets the counter.
func (c *counter) drain(total uint64) uint64 {
	var excluded uint64
	for _, idx := range c.touched {
		k := uint64(c.counts[idx])
		excluded += k * (total - k)
	}
	// exact bias
	if c.counts[len(c.counts)-1] > 0 {
		excluded++
	}
	for _, idx := range c.touched {
		c.counts[idx] = 0
	}
	c.touched = c.touched[:0]
	return excluded
}

// BestGuess picks the guess expected to eliminate the most candidates.
//
// With one candidate left it is returned with score 1. With none left the
// error matches ErrExhausted; with an empty guess set it wraps
// ErrEmptyGuessSet. No fallback guess is ever substituted.
func (e *Engine) BestGuess() (Suggestion, error) {
	switch len(e.candidates) {
	case 0:
		return Suggestion{}, fmt.Errorf("%w: cannot search", ErrExhausted)
	case 1:
		return Suggestion{Word: slices.Clone(e.candidates[0]), Score: 1}, nil
	}
	if len(e.guesses) == 0 {
		return Suggestion{}, fmt.Errorf("%w: %d candidates remain", ErrEmptyGuessSet, len(e.candidates))
	}

	scores := make([]uint64, len(e.guesses))
	total := uint64(len(e.candidates))
	size := chunkSize(len(e.guesses), e.workers, 1)

	var g errgroup.Group
	for start := 0; start < len(e.guesses); start += size {
		lo, hi := start, min(start+size, len(e.guesses))
		g.Go(func() error {
			c := newCounter(e.n)
			for i := lo; i < hi; i++ {
				guess := e.guesses[i]
				for _, secret := range e.candidates {
					c.add(code(guess, secret))
				}
				scores[i] = c.drain(total)
			}
			return nil
		})
	}
	_ = g.Wait()

	// First maximum in sorted order.
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return Suggestion{
		Word:     slices.Clone(e.guesses[best]),
		Excluded: scores[best],
		Score:    float64(scores[best]) / float64(total),
	}, nil
}

// Partition buckets the current candidates by the feedback they give guess.
// Buckets are ordered by feedback index; their sizes sum to the candidate
// count.
func (e *Engine) Partition(guess Word) ([]Bucket, error) {
	if len(guess) != e.n {
		return nil, &ShapeError{What: "guess", Want: e.n, Got: len(guess)}
	}
	byCode := make(map[int][]Word)
	for _, secret := range e.candidates {
		idx := code(guess, secret)
		byCode[idx] = append(byCode[idx], secret)
	}
	keys := make([]int, 0, len(byCode))
	for k := range byCode {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, Bucket{Feedback: feedbackAt(k, e.n), Words: byCode[k]})
	}
	return out, nil
}
