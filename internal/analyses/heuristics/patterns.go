// Package heuristics refines the upstream model's first-pass analysis of a
// legal email. The model provides a best-effort JSON guess; these functions
// gently correct it against rule-based signals in the raw text without ever
// inventing data. All functions are pure and safe for concurrent use.
package heuristics

import "regexp"

// dueDateRule maps a deadline phrase to a canonical label. An empty Label
// means the matched span itself is returned verbatim.
type dueDateRule struct {
	Pattern *regexp.Regexp
	Label   string
}

// Rules are evaluated in order; the first match wins.
var dueDateRules = []dueDateRule{
	{regexp.MustCompile(`\b(end of (the )?week)\b`), "end of week"},
	{regexp.MustCompile(`\bby end of week\b`), "end of week"},
	{regexp.MustCompile(`\beow\b`), "end of week"},
	{regexp.MustCompile(`\bby friday\b`), "end of week"},
	{regexp.MustCompile(`\bby (monday|tuesday|wednesday|thursday|friday)\b`), ""},
	{regexp.MustCompile(`\bby (eod|close of business)\b`), "end of day"},
	{regexp.MustCompile(`\bwithin (\d{1,2}) days\b`), ""},
}

// Urgency keyword sets, checked high first; high wins ties. Bare "urgent" is
// deliberately absent from the high set: phrasing like "fairly urgent" is a
// medium signal at best, and the explicit deadline words carry the decision.
var (
	highUrgencyKeywords   = []string{"asap", "immediately", "critical", "time-sensitive", "tomorrow"}
	mediumUrgencyKeywords = []string{"soon", "priority", "at your earliest convenience", "follow up", "end of week", "eow", "early next week"}
	lowUrgencyKeywords    = []string{"whenever", "no rush", "not urgent"}
)

// intentGroup pairs a canonical intent label with its trigger keywords.
type intentGroup struct {
	Label    string
	Keywords []string
}

var intentGroups = []intentGroup{
	{"approval_request", []string{"approve", "approval", "sign off"}},
	{"information_request", []string{"info", "information", "detail", "details"}},
	{"termination_notice", []string{"terminate", "termination", "ending"}},
	{"invoice", []string{"invoice", "payment", "bill"}},
	{"negotiation", []string{"negotiate", "negotiation", "counteroffer", "counter"}},
}

// questionHints mark interrogative sentences that lack a terminal '?'.
var questionHints = []*regexp.Regexp{
	regexp.MustCompile(`\bcan we\b`),
	regexp.MustCompile(`\bcould we\b`),
	regexp.MustCompile(`\bwhether we can\b`),
	regexp.MustCompile(`\bwhether we could\b`),
	regexp.MustCompile(`\bcan you\b`),
	regexp.MustCompile(`\bcould you\b`),
	regexp.MustCompile(`\bplease advise whether\b`),
	regexp.MustCompile(`\bplease advise if\b`),
	regexp.MustCompile(`\bplease confirm\b`),
	regexp.MustCompile(`\bwould you\b`),
}

// coreLeadIns are boilerplate question openers stripped sequentially, in this
// order, when computing the core-phrase key used to collapse near-duplicate
// questions. "confirm whether" comes last so chained openers like
// "could you confirm whether ..." reduce fully.
var coreLeadIns = []*regexp.Regexp{
	regexp.MustCompile(`^additionally,\s*`),
	regexp.MustCompile(`^please\s+advise\s+whether\s*`),
	regexp.MustCompile(`^can we\s+`),
	regexp.MustCompile(`^could you\s+`),
	regexp.MustCompile(`^would you\s+`),
	regexp.MustCompile(`^please\s+`),
	regexp.MustCompile(`^confirm\s+whether\s+`),
}

var (
	// betweenRe captures the two parties of a "between A and B" clause.
	betweenRe = regexp.MustCompile(`(?i)between\s+(.+?)\s+and\s+(.+?)([.,\n]|$)`)
	// entitySuffixRe matches a trailing legal-entity suffix for upper-casing.
	entitySuffixRe = regexp.MustCompile(`(?i)\b(ltd|inc|corp|llc|gmbh|s\.a\.|plc)\.?$`)
	// capTokenRe matches a single capitalized organization-name token.
	capTokenRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9.&'-]*$`)
	// nonAlnumRe collapses runs of non-alphanumerics for dedup keys.
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
	// trailingQMarksRe strips terminal question marks for the core key.
	trailingQMarksRe = regexp.MustCompile(`\?+$`)
)
