// Package search ranks the assignable categories against free text typed
// by the user.
package search

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/match"
	"github.com/Veraticus/moneyspice/internal/model"
)

// ErrQueryTooShort is returned for queries below the minimum length.
var ErrQueryTooShort = errors.New("search query too short")

// Config holds search parameters.
type Config struct {
	MinQueryLength int
	MaxResults     int
	NoiseFloor     float64
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{
		MinQueryLength: 2,
		MaxResults:     10,
		NoiseFloor:     match.DefaultConfig().NoiseFloor,
	}
}

// Engine searches one catalog. It holds no mutable state.
type Engine struct {
	tree   *catalog.Tree
	scorer match.Scorer
	cfg    Config
}

// NewEngine creates a search engine over tree.
func NewEngine(tree *catalog.Tree, cfg Config) *Engine {
	d := DefaultConfig()
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = d.MinQueryLength
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = d.MaxResults
	}
	if cfg.NoiseFloor <= 0 {
		cfg.NoiseFloor = d.NoiseFloor
	}
	return &Engine{
		tree: tree,
		// Every accepted query is long enough for substring matching.
		scorer: match.Scorer{NoiseFloor: cfg.NoiseFloor, MinPartialLength: cfg.MinQueryLength},
		cfg:    cfg,
	}
}

// MinQueryLength returns the configured minimum query length in runes.
func (e *Engine) MinQueryLength() int {
	return e.cfg.MinQueryLength
}

type hit struct {
	cat   model.Category
	path  string
	score float64
}

// Search returns up to MaxResults assignable categories ordered by
// descending score, then shorter path, then path alphabetically.
func (e *Engine) Search(query string) ([]model.Category, error) {
	q := strings.TrimSpace(query)
	if n := utf8.RuneCountInString(q); n < e.cfg.MinQueryLength {
		return nil, fmt.Errorf("%w: %d of %d characters", ErrQueryTooShort, n, e.cfg.MinQueryLength)
	}

	var hits []hit
	for cat := range e.tree.Assignable() {
		score := e.scorer.Category(q, cat)
		if score <= 0 {
			continue
		}
		hits = append(hits, hit{cat: cat, path: strings.ToLower(cat.FullPath()), score: score})
	}

	slices.SortFunc(hits, func(a, b hit) int {
		switch {
		case a.score != b.score:
			if a.score > b.score {
				return -1
			}
			return 1
		case len(a.cat.Path) != len(b.cat.Path):
			return len(a.cat.Path) - len(b.cat.Path)
		default:
			return strings.Compare(a.path, b.path)
		}
	})

	if len(hits) > e.cfg.MaxResults {
		hits = hits[:e.cfg.MaxResults]
	}
	out := make([]model.Category, len(hits))
	for i, h := range hits {
		out[i] = h.cat
	}
	return out, nil
}
