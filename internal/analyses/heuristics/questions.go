package heuristics

import (
	"strings"
	"unicode/utf8"
)

const (
	minQuestionLen = 5
	maxQuestionLen = 220

	// liabilityClarification is synthesized when liability is discussed but
	// never explicitly questioned.
	liabilityClarification = "Can we clarify the liability limits?"
)

// Questions merges the upstream question guesses with interrogative sentences
// found in the email. Three dedup passes run, each targeting a distinct
// source of duplication: exact-key dedup for upstream repeats, the liability
// safeguard for a missing mandatory clarification, and core-phrase collapse
// for boilerplate lead-in variation. Order of first appearance is preserved
// and every returned entry ends with '?'.
func Questions(emailText string, existing []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(q string) {
		key := normKey(q)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}

	for _, q := range existing {
		add(q)
	}

	for _, sentence := range splitSentences(emailText) {
		lower := strings.ToLower(strings.TrimSpace(sentence))
		if lower == "" {
			continue
		}
		isQuestion := strings.HasSuffix(lower, "?")
		if !isQuestion {
			for _, hint := range questionHints {
				if hint.MatchString(lower) {
					isQuestion = true
					break
				}
			}
		}
		if !isQuestion {
			continue
		}
		if n := utf8.RuneCountInString(lower); n < minQuestionLen || n > maxQuestionLen {
			continue
		}
		candidate := strings.TrimSpace(sentence)
		if !strings.HasSuffix(candidate, "?") {
			if strings.HasSuffix(candidate, ".") {
				candidate = strings.TrimSuffix(candidate, ".") + "?"
			} else {
				candidate += "?"
			}
		}
		add(candidate)
	}

	if strings.Contains(strings.ToLower(emailText), "liability") && !hasLiabilityClarification(out) {
		out = append(out, liabilityClarification)
	}

	coreSeen := make(map[string]struct{})
	collapsed := out[:0]
	for _, q := range out {
		key := coreKey(q)
		if _, dup := coreSeen[key]; dup {
			continue
		}
		coreSeen[key] = struct{}{}
		collapsed = append(collapsed, q)
	}
	return collapsed
}

func hasLiabilityClarification(questions []string) bool {
	for _, q := range questions {
		n := normKey(q)
		if !strings.Contains(n, "liability") {
			continue
		}
		if strings.Contains(n, "clarify") || strings.Contains(n, "can we") || strings.Contains(n, "could we") {
			return true
		}
	}
	return false
}

// normKey lower-cases and collapses non-alphanumeric runs to single spaces.
func normKey(q string) string {
	return strings.TrimSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(q), " "))
}

// coreKey strips boilerplate lead-ins, the trailing '?', and articles, so
// differently-phrased versions of the same underlying ask share a key.
func coreKey(q string) string {
	core := strings.ToLower(q)
	for _, leadIn := range coreLeadIns {
		core = leadIn.ReplaceAllString(core, "")
	}
	core = trailingQMarksRe.ReplaceAllString(core, "")
	core = nonAlnumRe.ReplaceAllString(core, " ")
	fields := strings.Fields(core)
	kept := fields[:0]
	for _, f := range fields {
		if f == "a" || f == "an" || f == "the" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// splitSentences breaks text on whitespace that follows '.', '?' or '!'.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 >= len(text) || !isSpaceByte(text[i+1]) {
			continue
		}
		out = append(out, text[start:i+1])
		j := i + 1
		for j < len(text) && isSpaceByte(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
