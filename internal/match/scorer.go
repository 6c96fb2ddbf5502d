// Package match implements the frame-to-step matching engine: similarity
// scoring, the pairwise score matrix, greedy assignment and the
// chronological fallback.
package match

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/pkarpov/stepshot/internal/model"
)

// Token weights. Importance keywords carry the most signal, long specific
// tokens (application names and the like) more than short generic ones.
const (
	weightBase       = 1.0
	weightLong       = 2.0
	weightImportance = 3.0

	creditSynonym   = 0.7
	creditSubstring = 0.5

	longTokenLen    = 6
	substringMinLen = 5
	substringPrefix = 5
)

var tokenPattern = regexp.MustCompile(`[a-z]{3,}`)

// Scorer computes a bounded similarity score between two text fragments
// using token overlap, synonym expansion, substring bonuses and importance
// weighting. All heuristic data is injected through the configuration.
type Scorer struct {
	importance map[string]struct{}
	stopwords  map[string]struct{}
	synonyms   map[string]map[string]struct{}
}

// NewScorer builds a scorer from the matching configuration. The synonym
// table is closed symmetrically so Score stays commutative regardless of
// how the table was written.
func NewScorer(cfg model.MatchingConfig) *Scorer {
	s := &Scorer{
		importance: make(map[string]struct{}, len(cfg.ImportanceKeywords)),
		stopwords:  make(map[string]struct{}, len(cfg.Stopwords)),
		synonyms:   make(map[string]map[string]struct{}, len(cfg.SynonymTable)),
	}

	for _, kw := range cfg.ImportanceKeywords {
		s.importance[kw] = struct{}{}
	}
	for _, sw := range cfg.Stopwords {
		s.stopwords[sw] = struct{}{}
	}
	for word, related := range cfg.SynonymTable {
		for _, syn := range related {
			s.addSynonym(word, syn)
			s.addSynonym(syn, word)
		}
	}

	return s
}

func (s *Scorer) addSynonym(a, b string) {
	set, ok := s.synonyms[a]
	if !ok {
		set = make(map[string]struct{})
		s.synonyms[a] = set
	}
	set[b] = struct{}{}
}

// Score returns the similarity of two texts in [0,1]. It is commutative and
// returns 0.0 when either side has no meaningful tokens; two empty strings
// score 0.0 by definition, not as an error.
//
// Each side's matched weight is normalized by that side's maximum possible
// weighted sum; the final score is the smaller of the two directions, which
// amounts to normalizing by the longer (heavier) text.
func (s *Scorer) Score(a, b string) float64 {
	tokensA := s.tokenize(a)
	tokensB := s.tokenize(b)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	ab := s.overlap(tokensA, tokensB)
	ba := s.overlap(tokensB, tokensA)

	return clamp01(math.Min(ab, ba))
}

// overlap computes the weighted fraction of tokens that find a counterpart
// in other: full credit for direct matches, partial credit for synonym and
// prefix matches. Credits are summed in sorted token order; map iteration
// order would make the floating-point sum vary in the last bit between
// calls, breaking exact commutativity and run-to-run determinism.
func (s *Scorer) overlap(tokens, other map[string]struct{}) float64 {
	ordered := make([]string, 0, len(tokens))
	for token := range tokens {
		ordered = append(ordered, token)
	}
	sort.Strings(ordered)

	var matched, max float64

	for _, token := range ordered {
		weight := s.weight(token)
		max += weight

		switch {
		case contains(other, token):
			matched += weight
		case s.hasSynonymIn(token, other):
			matched += weight * creditSynonym
		case hasPrefixMatch(token, other):
			matched += weight * creditSubstring
		}
	}

	if max == 0 {
		return 0.0
	}
	return matched / max
}

// tokenize extracts meaningful lowercase tokens: alphabetic, at least three
// characters, stopwords removed. Inputs are already lowercased by the OCR
// normalizer but step text arrives raw, so the pattern matches post-fold.
func (s *Scorer) tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := s.stopwords[token]; stop {
			continue
		}
		tokens[token] = struct{}{}
	}
	return tokens
}

func (s *Scorer) weight(token string) float64 {
	if _, ok := s.importance[token]; ok {
		return weightImportance
	}
	if len(token) >= longTokenLen {
		return weightLong
	}
	return weightBase
}

func (s *Scorer) hasSynonymIn(token string, other map[string]struct{}) bool {
	related, ok := s.synonyms[token]
	if !ok {
		return false
	}
	for candidate := range other {
		if _, hit := related[candidate]; hit {
			return true
		}
	}
	return false
}

// hasPrefixMatch tolerates OCR noise and pluralization: two tokens of five
// or more characters sharing their first five characters count as a partial
// match ("management" vs "manage").
func hasPrefixMatch(token string, other map[string]struct{}) bool {
	if len(token) < substringMinLen {
		return false
	}
	prefix := token[:substringPrefix]
	for candidate := range other {
		if len(candidate) >= substringMinLen && candidate[:substringPrefix] == prefix {
			return true
		}
	}
	return false
}

func contains(set map[string]struct{}, token string) bool {
	_, ok := set[token]
	return ok
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
