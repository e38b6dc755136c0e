// internal/words/words.go
//
// Dataset loading for the solver.
//
// Responsibilities:
//   - Read candidate ("possible.txt") and guess ("valid.txt") lists for a
//     dataset and word length from a directory tree or the embedded defaults.
//   - Convert UTF-8 lines to fixed-length code-point words, skipping lines of
//     any other length, then sort and deduplicate.
//   - Cache loaded lists so repeated sessions do not re-read files.
//
// Directory layout (WORDS_DATA_DIR or embedded assets):
//   <root>/<dataset>/possible.txt
//   <root>/<dataset>/valid.txt
//
// Constraints:
//   • Blank lines and lines starting with '#' are ignored.
//   • Lines are compared as written; no case folding (non-Latin datasets).
//   • A missing valid.txt is treated as an empty guess list.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/robalobadob/wordle-solver/assets"
	"github.com/robalobadob/wordle-solver/internal/solver"
)

const (
	PossibleFile = "possible.txt"
	ValidFile    = "valid.txt"
)

// Known dataset identifiers, in menu order. Any directory under the data root
// may be loaded; Available lists these first.
var Known = []string{
	"bopomofo",
	"japanese",
	"nerdlegame",
	"nerdlegame_mini",
	"wordle",
	"wordlegame",
	"zidou",
}

var (
	ErrDatasetUnknown = errors.New("words: unknown dataset")
	ErrEmptyList      = errors.New("words: candidate list is empty")
)

// Lists is one loaded dataset at one word length.
type Lists struct {
	Dataset    string
	Length     int
	Candidates []solver.Word // sorted, deduplicated
	Guesses    []solver.Word // sorted, deduplicated; not yet merged with Candidates
}

// Source picks the dataset root: dir when set, otherwise the embedded assets.
func Source(dir string) fs.FS {
	if dir == "" {
		return assets.Data()
	}
	return os.DirFS(dir)
}

// Read parses one word list, keeping lines of exactly n code points.
func Read(r io.Reader, n int) ([]solver.Word, error) {
	var out []solver.Word
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !utf8.ValidString(line) || utf8.RuneCountInString(line) != n {
			continue
		}
		out = append(out, solver.ParseWord(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	slices.SortFunc(out, solver.Compare)
	return slices.CompactFunc(out, solver.Equal), nil
}

// Load reads both lists of dataset at length n from fsys.
func Load(fsys fs.FS, dataset string, n int) (Lists, error) {
	if dataset == "" || strings.ContainsAny(dataset, `/\`) || dataset == "." || dataset == ".." {
		return Lists{}, fmt.Errorf("%w: %q", ErrDatasetUnknown, dataset)
	}
	if st, err := fs.Stat(fsys, dataset); err != nil || !st.IsDir() {
		return Lists{}, fmt.Errorf("%w: %q", ErrDatasetUnknown, dataset)
	}

	cands, err := readFile(fsys, path.Join(dataset, PossibleFile), n)
	if err != nil {
		return Lists{}, fmt.Errorf("read %s/%s: %w", dataset, PossibleFile, err)
	}
	if len(cands) == 0 {
		return Lists{}, fmt.Errorf("%w: %s at length %d", ErrEmptyList, dataset, n)
	}
	guesses, err := readFile(fsys, path.Join(dataset, ValidFile), n)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Lists{}, fmt.Errorf("read %s/%s: %w", dataset, ValidFile, err)
	}
	return Lists{Dataset: dataset, Length: n, Candidates: cands, Guesses: guesses}, nil
}

func readFile(fsys fs.FS, name string, n int) ([]solver.Word, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, n)
}

// Available lists the dataset directories present under fsys: known
// datasets first in menu order, then any others alphabetically.
func Available(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	rank := func(name string) int {
		if i := slices.Index(Known, name); i >= 0 {
			return i
		}
		return len(Known)
	}
	slices.SortStableFunc(out, func(a, b string) int {
		if d := rank(a) - rank(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return out, nil
}

// Cache memoizes Load per (dataset, length). Returned lists are shared and
// must be treated as read-only; solver.New copies them.
type Cache struct {
	fsys  fs.FS
	mu    sync.Mutex
	lists map[string]Lists
}

// NewCache wraps a dataset root.
func NewCache(fsys fs.FS) *Cache {
	return &Cache{fsys: fsys, lists: make(map[string]Lists)}
}

// Get loads or returns the cached lists.
func (c *Cache) Get(dataset string, n int) (Lists, error) {
	key := fmt.Sprintf("%s|%d", dataset, n)
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lists[key]; ok {
		return l, nil
	}
	l, err := Load(c.fsys, dataset, n)
	if err != nil {
		return Lists{}, err
	}
	c.lists[key] = l
	return l, nil
}

// Datasets lists what the cache's root offers.
func (c *Cache) Datasets() ([]string, error) { return Available(c.fsys) }
