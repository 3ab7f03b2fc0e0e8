package match

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Veraticus/moneyspice/internal/model"
)

// Scorer computes a normalized string similarity in [0, 1].
//
// The score is the better of the full Levenshtein ratio and the partial
// ratio, where the shorter string is compared against every equally long
// window of the longer one. The partial ratio only applies when the shorter
// string has at least MinPartialLength runes. Scores at or below NoiseFloor
// are reported as zero.
type Scorer struct {
	NoiseFloor       float64
	MinPartialLength int
}

// Similarity compares two strings case-insensitively.
func (s Scorer) Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	score := ratio(ra, rb)
	if score < 1 {
		short, long := ra, rb
		if len(short) > len(long) {
			short, long = long, short
		}
		if len(short) >= s.MinPartialLength && len(short) < len(long) {
			score = max(score, partialRatio(short, long))
		}
	}

	if score <= s.NoiseFloor {
		return 0
	}
	return score
}

// Category scores text against a category's leaf name and full path,
// keeping the better of the two.
func (s Scorer) Category(text string, c model.Category) float64 {
	return max(s.Similarity(text, c.Name), s.Similarity(text, c.FullPath()))
}

func ratio(a, b []rune) float64 {
	longest := max(len(a), len(b))
	d := levenshtein.ComputeDistance(string(a), string(b))
	return 1 - float64(d)/float64(longest)
}

func partialRatio(short, long []rune) float64 {
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(short, long[i:i+len(short)])
		if r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}
