package analyses

import (
	"errors"
	"strings"
	"testing"
)

const sowEmail = "Dear Counsel,\n\n" +
	"Under the Statement of Work dated 12 February 2024 between Helios Labs and Quantum Systems Ltd., the vendor has failed to deliver Milestone 3 despite multiple reminders.\n\n" +
	"We are evaluating whether we can terminate the SOW for non-performance. Additionally, please advise whether we can withhold the next payment scheduled for 5 March 2025.\n\n" +
	"Please revert by tomorrow as we need to brief management.\n\n" +
	"Regards,\n" +
	"Aarav Mehta\n" +
	"Legal, Helios Labs\n"

func TestNormalizeEndToEnd(t *testing.T) {
	raw := `{
		"intent": "termination",
		"primary_topic": "termination",
		"parties": ["Helios Labs", "Quantum Systems Ltd."],
		"agreement_reference": "Statement of Work",
		"questions": "Can we terminate the SOW for non-performance.?",
		"requested_due_date": null,
		"urgency_level": "HIGH"
	}`

	rec, err := Normalize(raw, sowEmail)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Intent != "termination_notice" {
		t.Errorf("intent = %q, want termination_notice", rec.Intent)
	}
	if rec.PrimaryTopic != "termination" {
		t.Errorf("primary_topic = %q", rec.PrimaryTopic)
	}
	if rec.Parties.Client != "Helios Labs" || rec.Parties.Counterparty != "Quantum Systems Ltd." {
		t.Errorf("parties = %+v", rec.Parties)
	}
	if rec.AgreementReference.Type != "Statement of Work" || rec.AgreementReference.Date != "" {
		t.Errorf("agreement_reference = %+v", rec.AgreementReference)
	}
	if rec.RequestedDueDate != "" {
		t.Errorf("requested_due_date = %q, want empty", rec.RequestedDueDate)
	}
	if rec.UrgencyLevel != "high" {
		t.Errorf("urgency_level = %q, want high", rec.UrgencyLevel)
	}

	if len(rec.Questions) == 0 {
		t.Fatal("expected questions")
	}
	if rec.Questions[0] != "Can we terminate the SOW for non-performance?" {
		t.Errorf("first question = %q, want cleaned punctuation", rec.Questions[0])
	}
	var sawWithhold bool
	for _, q := range rec.Questions {
		if strings.HasSuffix(q, ".?") || !strings.HasSuffix(q, "?") {
			t.Errorf("question %q has malformed terminal punctuation", q)
		}
		if strings.Contains(strings.ToLower(q), "withhold") {
			sawWithhold = true
		}
	}
	if !sawWithhold {
		t.Errorf("expected a withhold question, got %v", rec.Questions)
	}
}

func TestNormalizeFencedOutput(t *testing.T) {
	raw := "```json\n{\"intent\": \"info\"}\n```"
	rec, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Intent != "information_request" {
		t.Errorf("intent = %q, want information_request", rec.Intent)
	}
	if rec.Questions == nil || len(rec.Questions) != 0 {
		t.Errorf("questions = %#v, want empty list", rec.Questions)
	}
}

func TestNormalizeEmbeddedJSON(t *testing.T) {
	raw := "Here is the structured result you asked for:\n{\"intent\": \"terminate\"}"
	rec, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Intent != "termination_notice" {
		t.Errorf("intent = %q, want termination_notice", rec.Intent)
	}
}

func TestNormalizeRejectsNonJSON(t *testing.T) {
	_, err := Normalize("I could not process this email.", "")
	if !errors.Is(err, ErrUpstreamJSON) {
		t.Fatalf("err = %v, want ErrUpstreamJSON", err)
	}
}

func TestNormalizePartiesObjectShape(t *testing.T) {
	raw := `{"parties": {"client": "Acme Corp", "counterparty": "Globex LLC"}}`
	rec, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Parties.Client != "Acme Corp" || rec.Parties.Counterparty != "Globex LLC" {
		t.Errorf("parties = %+v", rec.Parties)
	}
}

func TestNormalizeAgreementBackfilledFromEmail(t *testing.T) {
	email := "Hello,\n\nWe would like to amend the MSA terms soon.\n\nThanks,\nDana\n"
	raw := `{"intent": "", "agreement_reference": null}`
	rec, err := Normalize(raw, email)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.AgreementReference.Type != "MSA" {
		t.Errorf("agreement type = %q, want MSA", rec.AgreementReference.Type)
	}
	if rec.PrimaryTopic != "MSA amendments" {
		t.Errorf("primary_topic = %q, want MSA amendments", rec.PrimaryTopic)
	}
	if rec.UrgencyLevel != "medium" {
		t.Errorf("urgency_level = %q, want medium", rec.UrgencyLevel)
	}
}

func TestNormalizeScalarCoercion(t *testing.T) {
	raw := `{"questions": [null, "Can we proceed?"], "urgency_level": "unknown"}`
	rec, err := Normalize(raw, "")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(rec.Questions) != 1 || rec.Questions[0] != "Can we proceed?" {
		t.Errorf("questions = %v", rec.Questions)
	}
	if rec.UrgencyLevel != "" {
		t.Errorf("urgency_level = %q, want empty", rec.UrgencyLevel)
	}
}

func TestNormalizeApprovalWithClarification(t *testing.T) {
	email := "Please approve the proposed changes to the MSA. " +
		"This is fairly urgent, ideally by end of week. " +
		"Also, could you clarify the liability limits?"
	raw := `{
		"intent": "approval",
		"primary_topic": "",
		"parties": {},
		"agreement_reference": {},
		"questions": [],
		"requested_due_date": "",
		"urgency_level": "high"
	}`

	rec, err := Normalize(raw, email)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Intent != "requesting approval and clarification" {
		t.Errorf("intent = %q, want requesting approval and clarification", rec.Intent)
	}
	if rec.PrimaryTopic != "MSA amendments" {
		t.Errorf("primary_topic = %q, want MSA amendments", rec.PrimaryTopic)
	}
	if rec.AgreementReference.Type != "MSA" {
		t.Errorf("agreement_reference.type = %q, want MSA", rec.AgreementReference.Type)
	}
	if rec.RequestedDueDate != "end of week" {
		t.Errorf("requested_due_date = %q, want end of week", rec.RequestedDueDate)
	}
	// "fairly urgent" is not a high-urgency keyword; the explicit
	// "end of week" deadline decides, overruling the upstream guess.
	if rec.UrgencyLevel != "medium" {
		t.Errorf("urgency_level = %q, want medium", rec.UrgencyLevel)
	}

	var liability int
	for _, q := range rec.Questions {
		if strings.Contains(strings.ToLower(q), "liability") {
			liability++
		}
	}
	if liability != 1 {
		t.Errorf("expected exactly one liability question, got %v", rec.Questions)
	}
}
