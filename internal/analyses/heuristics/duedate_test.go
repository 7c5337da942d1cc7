package heuristics

import "testing"

func TestDueDateExistingWins(t *testing.T) {
	got := DueDate("please respond by end of week", "2025-03-05")
	if got != "2025-03-05" {
		t.Fatalf("expected existing value preserved, got %q", got)
	}
}

func TestDueDateCanonicalBuckets(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"end of week", "Ideally by end of week, please.", "end of week"},
		{"end of the week", "We need this by the end of the week.", "end of week"},
		{"eow", "Need sign-off EOW at the latest.", "end of week"},
		{"by friday", "Send the redline by Friday.", "end of week"},
		{"eod", "Please confirm by EOD.", "end of day"},
		{"close of business", "Reply by close of business.", "end of day"},
		{"no deadline", "Let us know your thoughts.", ""},
	}
	for _, tc := range cases {
		if got := DueDate(tc.text, ""); got != tc.want {
			t.Errorf("%s: DueDate(%q) = %q, want %q", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestDueDatePreservesMatchedSpan(t *testing.T) {
	if got := DueDate("Please revert by Monday morning.", ""); got != "by monday" {
		t.Fatalf("day-of-week phrase should be preserved, got %q", got)
	}
	if got := DueDate("We expect delivery within 14 days of notice.", ""); got != "within 14 days" {
		t.Fatalf("within-N-days phrase should be preserved, got %q", got)
	}
}

func TestDueDateFirstRuleWins(t *testing.T) {
	// Both an end-of-week and a by-Monday phrase; the ordered rule list puts
	// the canonical end-of-week bucket first.
	got := DueDate("by end of week, or by monday at the latest", "")
	if got != "end of week" {
		t.Fatalf("expected first rule to win, got %q", got)
	}
}
