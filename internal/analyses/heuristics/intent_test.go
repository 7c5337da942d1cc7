package heuristics

import "testing"

func TestIntentCompoundApprovalClarification(t *testing.T) {
	text := "Please approve the changes. Could you also clarify clause 9.2?"
	if got := Intent(text, "negotiation"); got != CompoundApprovalClarification {
		t.Fatalf("compound intent must take precedence, got %q", got)
	}
}

func TestIntentFillsGenericFromKeywords(t *testing.T) {
	cases := []struct {
		text   string
		mapped string
		want   string
	}{
		{"please sign off on the attached", "", "approval_request"},
		{"we need more details on the schedule", "other", "information_request"},
		{"notice that we intend to terminate", "", "termination_notice"},
		{"the invoice remains unpaid", "", "invoice"},
		{"we would like to negotiate the fee", "other", "negotiation"},
		{"nothing actionable here", "", ""},
		{"nothing actionable here", "other", "other"},
	}
	for _, tc := range cases {
		if got := Intent(tc.text, tc.mapped); got != tc.want {
			t.Errorf("Intent(%q, %q) = %q, want %q", tc.text, tc.mapped, got, tc.want)
		}
	}
}

func TestIntentPreservesSpecificMapped(t *testing.T) {
	// A specific upstream label is trusted even when keywords would suggest
	// something else.
	if got := Intent("the invoice remains unpaid", "termination_notice"); got != "termination_notice" {
		t.Fatalf("specific mapped intent should pass through, got %q", got)
	}
}
