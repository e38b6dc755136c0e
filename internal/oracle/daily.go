package oracle

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"time"

	"github.com/robalobadob/wordle-solver/internal/solver"
)

var ErrNoCandidates = errors.New("oracle: no candidates to pick from")

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func DayIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Daily picks the secret of the day from a sorted candidate list.
func Daily(date time.Time, salt string, candidates []solver.Word) (Secret, error) {
	if len(candidates) == 0 {
		return Secret{}, ErrNoCandidates
	}
	return Secret{Word: candidates[DayIndex(date, salt, len(candidates))]}, nil
}
