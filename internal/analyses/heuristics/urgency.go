package heuristics

import "strings"

// Urgency classifies the email's urgency as "high", "medium", "low" or "".
// Explicit urgency language in the text always beats the upstream guess; the
// keyword sets are checked in priority order so high wins ties. When no
// signal is present a valid existing classification is preserved.
func Urgency(emailText, existing string) string {
	lower := strings.ToLower(emailText)
	if containsAny(lower, highUrgencyKeywords) {
		return "high"
	}
	if containsAny(lower, mediumUrgencyKeywords) {
		return "medium"
	}
	if containsAny(lower, lowUrgencyKeywords) {
		return "low"
	}
	switch existing {
	case "high", "medium", "low":
		return existing
	}
	return ""
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
