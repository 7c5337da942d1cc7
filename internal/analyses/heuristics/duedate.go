package heuristics

import "strings"

// DueDate returns the requested due date for the email. A non-empty existing
// value always wins: the heuristic refines, it never overrides. Otherwise the
// ordered deadline rules are scanned and the first match decides — either its
// canonical label or, for phrase-preserving rules, the matched span itself.
func DueDate(emailText, existing string) string {
	if existing != "" {
		return existing
	}
	lower := strings.ToLower(emailText)
	for _, rule := range dueDateRules {
		m := rule.Pattern.FindString(lower)
		if m == "" {
			continue
		}
		if rule.Label != "" {
			return rule.Label
		}
		return m
	}
	return ""
}
