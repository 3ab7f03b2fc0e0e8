package match

import (
	"cmp"
	"slices"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
)

// Resolver tries its strategies in order; the first success wins.
type Resolver struct {
	tree       *catalog.Tree
	strategies []Strategy
	cfg        Config
}

// NewResolver creates a resolver with the ExactID, ExactPath and Fuzzy tiers.
func NewResolver(tree *catalog.Tree, cfg Config) *Resolver {
	cfg = cfg.withDefaults()
	return NewResolverWithStrategies(tree, cfg,
		ExactID(),
		ExactPath(),
		Fuzzy(cfg.Scorer(), cfg.FuzzyThreshold),
	)
}

// NewResolverWithStrategies creates a resolver with a custom tier list.
func NewResolverWithStrategies(tree *catalog.Tree, cfg Config, strategies ...Strategy) *Resolver {
	return &Resolver{
		tree:       tree,
		strategies: strategies,
		cfg:        cfg.withDefaults(),
	}
}

// Resolve validates one candidate. An unresolved candidate is reported with
// ok == false and is not an error.
func (r *Resolver) Resolve(c model.Candidate) (model.ValidatedSuggestion, bool) {
	for _, s := range r.strategies {
		cat, ok := s.Match(c, r.tree)
		if !ok || !cat.Assignable() {
			continue
		}
		return model.ValidatedSuggestion{Candidate: c, Category: cat, Stage: s.Stage}, true
	}
	return model.ValidatedSuggestion{}, false
}

// BuildSet resolves candidates into a deduplicated suggestion list sorted by
// confidence, highest first. Equal confidences keep candidate order. The list
// is capped at Config.MaxSuggestions.
func (r *Resolver) BuildSet(candidates []model.Candidate) []model.ValidatedSuggestion {
	type entry struct {
		s     model.ValidatedSuggestion
		order int
	}

	byID := make(map[string]int)
	entries := make([]entry, 0, len(candidates))
	for i, c := range candidates {
		s, ok := r.Resolve(c)
		if !ok {
			continue
		}
		if idx, seen := byID[s.Category.ID]; seen {
			if s.Candidate.Score() > entries[idx].s.Candidate.Score() {
				entries[idx] = entry{s: s, order: i}
			}
			continue
		}
		byID[s.Category.ID] = len(entries)
		entries = append(entries, entry{s: s, order: i})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(b.s.Candidate.Score(), a.s.Candidate.Score()); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	if len(entries) > r.cfg.MaxSuggestions {
		entries = entries[:r.cfg.MaxSuggestions]
	}

	out := make([]model.ValidatedSuggestion, len(entries))
	for i, e := range entries {
		out[i] = e.s
	}
	return out
}
