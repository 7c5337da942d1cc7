package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MockClient is a deterministic offline client used when no API key is
// configured. Its output intentionally exercises the lenient decode paths:
// parties come back as a list and agreement_reference as a bare string.
type MockClient struct{}

// StructuredJSON returns a keyword-driven guess for the email.
func (MockClient) StructuredJSON(ctx context.Context, input AnalyzeInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lower := strings.ToLower(input.EmailText)

	intent := "information_request"
	switch {
	case strings.Contains(lower, "terminate") || strings.Contains(lower, "termination"):
		intent = "termination_notice"
	case strings.Contains(lower, "approve") || strings.Contains(lower, "approval"):
		intent = "approval_request"
	case strings.Contains(lower, "invoice") || strings.Contains(lower, "payment"):
		intent = "invoice"
	case strings.Contains(lower, "negotiate") || strings.Contains(lower, "counter"):
		intent = "negotiation"
	}

	urgency := "low"
	switch {
	case strings.Contains(lower, "asap") || strings.Contains(lower, "urgent"):
		urgency = "high"
	case strings.Contains(lower, "soon"):
		urgency = "medium"
	}

	questions := []string{}
	for _, topic := range []string{"liability", "timeline", "fees", "termination"} {
		if strings.Contains(lower, topic) {
			questions = append(questions, fmt.Sprintf("Question regarding %s", topic))
		}
	}

	parties := []string{}
	for _, p := range []string{"Seller", "Buyer"} {
		if strings.Contains(lower, strings.ToLower(p)) {
			parties = append(parties, p)
		}
	}
	if len(parties) == 0 {
		parties = []string{"Counterparty"}
	}

	var agreement any
	if strings.Contains(lower, "msa") || strings.Contains(lower, "agreement") {
		agreement = "MSA-2023"
	}

	guess := map[string]any{
		"intent":              intent,
		"primary_topic":       "contract",
		"parties":             parties,
		"agreement_reference": agreement,
		"questions":           questions,
		"requested_due_date":  nil,
		"urgency_level":       urgency,
	}
	payload, err := json.Marshal(guess)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// GenerateDraft returns a fixed cautious reply.
func (MockClient) GenerateDraft(ctx context.Context, input DraftInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "Subject: Re: Your email\n\n" +
		"Thank you for your message. We acknowledge receipt and will review the matter with care. " +
		"Based on our review, we will proceed cautiously and avoid firm commitments at this stage. " +
		"Referencing clauses 9.1, 9.2, 10.2 where applicable.\n\n" +
		"Best regards,\nLegal Team", nil
}

// Candidates reports the single pseudo model.
func (MockClient) Candidates() []string { return []string{"mock"} }

// Current reports the single pseudo model.
func (MockClient) Current() string { return "mock" }
