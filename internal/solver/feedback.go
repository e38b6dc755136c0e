// internal/solver/feedback.go
//
// Feedback computation between a guess and a secret.
//
// Implements the standard two-pass scoring:
//   Pass 1: every position that is not an exact match makes the secret's
//           letter available.
//   Pass 2: in guess order, exact positions are Exact; other positions take
//           one available occurrence of the guessed letter (Present) or get
//           Absent when none is left.
//
// Left-to-right consumption is what makes repeated letters come out right:
// a letter guessed twice against a secret holding it once is Present the
// first time and Absent the second.

package solver

import "fmt"

// tally counts available secret letters. At most MaxLength distinct keys are
// ever added, so a linear scan over a fixed array beats a map here.
type tally struct {
	keys   [MaxLength]rune
	counts [MaxLength]uint8
	n      int
}

func (t *tally) add(r rune) {
	for i := 0; i < t.n; i++ {
		if t.keys[i] == r {
			t.counts[i]++
			return
		}
	}
	t.keys[t.n] = r
	t.counts[t.n] = 1
	t.n++
}

// take consumes one occurrence of r, reporting whether one was available.
func (t *tally) take(r rune) bool {
	for i := 0; i < t.n; i++ {
		if t.keys[i] == r {
			if t.counts[i] == 0 {
				return false
			}
			t.counts[i]--
			return true
		}
	}
	return false
}

// marks scores guess against secret into a fixed array. Both words must have
// the same length, no longer than MaxLength.
func marks(guess, secret Word) (out [MaxLength]Mark) {
	var t tally
	for i := range guess {
		if guess[i] != secret[i] {
			t.add(secret[i])
		}
	}
	for i := range guess {
		switch {
		case guess[i] == secret[i]:
			out[i] = Exact
		case t.take(guess[i]):
			out[i] = Present
		default:
			out[i] = Absent
		}
	}
	return out
}

// code returns the bucket index of the feedback for guess against secret
// without allocating.
func code(guess, secret Word) int {
	m := marks(guess, secret)
	idx := 0
	for i := range guess {
		idx = idx*3 + int(m[i])
	}
	return idx
}

// Score returns the feedback a guess receives against a secret.
func Score(guess, secret Word) (Feedback, error) {
	if len(guess) != len(secret) {
		return nil, &ShapeError{What: "guess", Want: len(secret), Got: len(guess)}
	}
	if len(guess) > MaxLength {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLength, len(guess))
	}
	m := marks(guess, secret)
	out := make(Feedback, len(guess))
	copy(out, m[:len(guess)])
	return out, nil
}

// bucketCount returns 3^n, the number of distinct feedback codes.
func bucketCount(n int) int {
	c := 1
	for i := 0; i < n; i++ {
		c *= 3
	}
	return c
}

// feedbackAt decodes a bucket index back into feedback of length n.
func feedbackAt(idx, n int) Feedback {
	out := make(Feedback, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = Mark(idx % 3)
		idx /= 3
	}
	return out
}
