package heuristics

import "strings"

var amendmentKeywords = []string{"amend", "amendment", "change", "update", "revision"}

// Topic narrows a generic topic estimate using keyword co-occurrence. An MSA
// mention alongside amendment language overrides any existing topic; a bare
// MSA mention only fills an empty one.
func Topic(emailText, existingTopic string) string {
	lower := strings.ToLower(emailText)
	if strings.Contains(lower, "msa") && containsAny(lower, amendmentKeywords) {
		return "MSA amendments"
	}
	if existingTopic == "" && strings.Contains(lower, "msa") {
		return "MSA"
	}
	return existingTopic
}
