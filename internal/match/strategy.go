package match

import (
	"strings"
	"unicode"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
)

// Strategy is one resolution tier. Match must be pure and must only return
// assignable categories.
type Strategy struct {
	Match func(c model.Candidate, tree *catalog.Tree) (model.Category, bool)
	Stage model.MatchStage
}

// ExactID matches candidates whose text is a single token naming a catalog
// entry by id. MoneyMoney ids are UUIDs; catalog files may use any token.
func ExactID() Strategy {
	return Strategy{
		Stage: model.StageExactID,
		Match: func(c model.Candidate, tree *catalog.Tree) (model.Category, bool) {
			text := strings.TrimSpace(c.RawText)
			if !isIDToken(text) {
				return model.Category{}, false
			}
			cat, ok := tree.FindByID(text)
			if !ok || !cat.Assignable() {
				return model.Category{}, false
			}
			return cat, true
		},
	}
}

// isIDToken reports whether s could be an id: non-empty, no whitespace.
func isIDToken(s string) bool {
	return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
}

// ExactPath matches candidates naming a full backslash-delimited path.
func ExactPath() Strategy {
	return Strategy{
		Stage: model.StageExactPath,
		Match: func(c model.Candidate, tree *catalog.Tree) (model.Category, bool) {
			cat, ok := tree.FindByPath(c.RawText)
			if !ok || !cat.Assignable() {
				return model.Category{}, false
			}
			return cat, true
		},
	}
}

// Fuzzy picks the assignable category most similar to the candidate text,
// provided it reaches threshold. Ties go to the shorter path, then the
// alphabetically first one.
func Fuzzy(scorer Scorer, threshold float64) Strategy {
	return Strategy{
		Stage: model.StageFuzzy,
		Match: func(c model.Candidate, tree *catalog.Tree) (model.Category, bool) {
			text := strings.TrimSpace(c.RawText)
			if text == "" {
				return model.Category{}, false
			}

			var (
				best      model.Category
				bestScore float64
				found     bool
			)
			for cat := range tree.Assignable() {
				score := scorer.Category(text, cat)
				if score <= 0 {
					continue
				}
				if !found || score > bestScore || (score == bestScore && ranksBefore(cat, best)) {
					best, bestScore, found = cat, score, true
				}
			}
			if !found || bestScore < threshold {
				return model.Category{}, false
			}
			return best, true
		},
	}
}

// ranksBefore orders equally scored categories: shorter path first, then
// alphabetical by full path.
func ranksBefore(a, b model.Category) bool {
	if len(a.Path) != len(b.Path) {
		return len(a.Path) < len(b.Path)
	}
	return strings.ToLower(a.FullPath()) < strings.ToLower(b.FullPath())
}
