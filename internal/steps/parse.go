package steps

import (
	"regexp"
	"strings"
)

var (
	listMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+`)
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)
)

// ParseNumbered extracts step descriptions from LLM list output. It accepts
// "1." / "1)" / "-" / "*" markers and ignores prose lines without one,
// which filters out preambles like "Here are the steps:".
func ParseNumbered(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		marker := listMarker.FindString(line)
		if marker == "" {
			continue
		}
		step := strings.TrimSpace(strings.TrimPrefix(line, marker))
		if step != "" {
			out = append(out, step)
		}
	}
	return out
}

// Fallback derives steps directly from the transcript when no LLM provider
// is configured: sentences mentioning an action keyword become steps, in
// spoken order. Crude next to a model, but deterministic and offline.
func Fallback(transcript string, keywords []string, maxSteps int) []string {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	var out []string
	seen := make(map[string]bool)
	for _, raw := range sentenceRe.FindAllString(transcript, -1) {
		sentence := strings.TrimSpace(raw)
		if len(sentence) < 15 {
			continue
		}

		text := strings.ToLower(sentence)
		for _, kw := range lowered {
			if !strings.Contains(text, kw) {
				continue
			}
			if !seen[text] {
				seen[text] = true
				out = append(out, strings.TrimRight(sentence, ".!?"))
			}
			break
		}

		if maxSteps > 0 && len(out) >= maxSteps {
			break
		}
	}
	return out
}
