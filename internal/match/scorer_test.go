package match

import (
	"math"
	"testing"

	"github.com/pkarpov/stepshot/internal/model"
)

func testMatchingConfig() model.MatchingConfig {
	cfg := model.DefaultConfig().Matching
	return cfg
}

func TestScorer_Bounds(t *testing.T) {
	scorer := NewScorer(testMatchingConfig())

	pairs := [][2]string{
		{"click submit button", "press the save button"},
		{"open settings menu", "settings > preferences"},
		{"download the report", "export data to csv file"},
		{"", ""},
		{"hello", ""},
		{"completely unrelated words here", "quantum flux capacitor"},
		{"identical text fragment", "identical text fragment"},
	}

	for _, pair := range pairs {
		score := scorer.Score(pair[0], pair[1])
		if score < 0.0 || score > 1.0 {
			t.Errorf("Score(%q, %q) = %v, outside [0,1]", pair[0], pair[1], score)
		}
	}
}

func TestScorer_Commutative(t *testing.T) {
	scorer := NewScorer(testMatchingConfig())

	pairs := [][2]string{
		{"click submit button", "SUBMIT"},
		{"open settings menu", "settings > preferences"},
		{"navigate to the user management portal", "dashboard user admin"},
		{"export license report", "download subscription data"},
		{"management console", "manage"},
	}

	for _, pair := range pairs {
		ab := scorer.Score(pair[0], pair[1])
		ba := scorer.Score(pair[1], pair[0])
		if ab != ba {
			t.Errorf("Score(%q, %q) = %v but reversed = %v", pair[0], pair[1], ab, ba)
		}
	}
}

func TestScorer_BitIdenticalAcrossCalls(t *testing.T) {
	// Mixed credit magnitudes (importance direct match plus synonym
	// credits) expose any order-dependence in the floating-point sum.
	cfg := testMatchingConfig()
	cfg.ImportanceKeywords = []string{"aaa"}
	cfg.SynonymTable = map[string][]string{
		"bob":    {"yyy"},
		"grande": {"zzz"},
	}
	scorer := NewScorer(cfg)

	a, b := "aaa bob grande zeb", "aaa yyy zzz"
	want := math.Float64bits(scorer.Score(a, b))

	for i := 0; i < 5000; i++ {
		if got := math.Float64bits(scorer.Score(a, b)); got != want {
			t.Fatalf("call %d: Score(a,b) bits %x, want %x", i, got, want)
		}
		if got := math.Float64bits(scorer.Score(b, a)); got != want {
			t.Fatalf("call %d: Score(b,a) bits %x, want %x", i, got, want)
		}
	}
}

func TestScorer_EmptyInputs(t *testing.T) {
	scorer := NewScorer(testMatchingConfig())

	if got := scorer.Score("", ""); got != 0.0 {
		t.Errorf("two empty strings must score 0.0, got %v", got)
	}
	if got := scorer.Score("click submit", ""); got != 0.0 {
		t.Errorf("empty side must score 0.0, got %v", got)
	}
	// Texts reduced to nothing by tokenization behave like empty input.
	if got := scorer.Score("a an it", "of to"); got != 0.0 {
		t.Errorf("token-free texts must score 0.0, got %v", got)
	}
}

func TestScorer_SelfSimilarityDominates(t *testing.T) {
	scorer := NewScorer(testMatchingConfig())

	text := "open the license management portal and export the report"
	unrelated := "quantum flux wormhole cabbage"

	self := scorer.Score(text, text)
	cross := scorer.Score(text, unrelated)

	if self != 1.0 {
		t.Errorf("self-similarity of non-empty text should be 1.0, got %v", self)
	}
	if self < cross {
		t.Errorf("self-similarity %v undercuts unrelated score %v", self, cross)
	}
	if cross != 0.0 {
		t.Errorf("texts sharing no tokens should score 0.0, got %v", cross)
	}
}

func TestScorer_SynonymExpansion(t *testing.T) {
	cfg := testMatchingConfig()
	cfg.SynonymTable = map[string][]string{"click": {"press"}}
	cfg.ImportanceKeywords = nil
	scorer := NewScorer(cfg)

	with := scorer.Score("click confirm", "press confirm")
	cfg.SynonymTable = nil
	without := NewScorer(cfg).Score("click confirm", "press confirm")

	if with <= without {
		t.Errorf("synonym match should raise the score: with=%v without=%v", with, without)
	}

	// Symmetric application even though the table only maps click → press.
	reversed := scorer.Score("press confirm", "click confirm")
	if reversed != with {
		t.Errorf("synonym table must act symmetrically: %v vs %v", reversed, with)
	}
}

func TestScorer_SubstringBonusBelowFullMatch(t *testing.T) {
	cfg := testMatchingConfig()
	cfg.SynonymTable = nil
	cfg.ImportanceKeywords = nil
	scorer := NewScorer(cfg)

	partial := scorer.Score("management", "manage")
	full := scorer.Score("manage", "manage")

	if partial <= 0.0 {
		t.Error("prefix overlap should contribute a partial bonus")
	}
	if partial >= full {
		t.Errorf("substring credit %v must stay below full-match %v", partial, full)
	}
}

func TestScorer_ImportanceWeighting(t *testing.T) {
	cfg := testMatchingConfig()
	cfg.SynonymTable = nil
	cfg.Stopwords = nil

	cfg.ImportanceKeywords = []string{"submit"}
	weighted := NewScorer(cfg)
	cfg.ImportanceKeywords = nil
	unweighted := NewScorer(cfg)

	// Both texts share only "submit"; elevating its weight should raise
	// the score relative to the same overlap without elevation.
	a := "submit invoice form"
	b := "submit expense request"

	if w, u := weighted.Score(a, b), unweighted.Score(a, b); w <= u {
		t.Errorf("importance keyword should lift the score: weighted=%v unweighted=%v", w, u)
	}
}

func TestScorer_CaseInsensitive(t *testing.T) {
	scorer := NewScorer(testMatchingConfig())

	if scorer.Score("click SUBMIT button", "submit") != scorer.Score("click submit button", "SUBMIT") {
		t.Error("scoring must be case-insensitive")
	}
	if scorer.Score("SUBMIT", "submit") != 1.0 {
		t.Error("case difference alone must not reduce the score")
	}
}
