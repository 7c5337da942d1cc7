package heuristics

import "strings"

// CompoundApprovalClarification is returned when an email both asks for
// approval and for clarification; it takes precedence over any other signal.
const CompoundApprovalClarification = "requesting approval and clarification"

// Intent refines the mapped intent label using textual cues. When the mapped
// intent is empty or the generic "other", the intent synonym groups are
// scanned in declared order and the first matching canonical label is used;
// otherwise the mapped intent passes through unchanged.
func Intent(emailText, mappedIntent string) string {
	lower := strings.ToLower(emailText)
	if (strings.Contains(lower, "approve") || strings.Contains(lower, "approval")) &&
		(strings.Contains(lower, "clarify") || strings.Contains(lower, "clarification")) {
		return CompoundApprovalClarification
	}
	if mappedIntent == "" || mappedIntent == "other" {
		for _, group := range intentGroups {
			if containsAny(lower, group.Keywords) {
				return group.Label
			}
		}
	}
	return mappedIntent
}
