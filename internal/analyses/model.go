package analyses

import "time"

// Record is the normalized analysis payload returned by the API. Every field
// is always present; unknown values are empty strings rather than nulls.
type Record struct {
	Intent             string             `json:"intent"`
	PrimaryTopic       string             `json:"primary_topic"`
	Parties            Parties            `json:"parties"`
	AgreementReference AgreementReference `json:"agreement_reference"`
	Questions          []string           `json:"questions"`
	RequestedDueDate   string             `json:"requested_due_date"`
	UrgencyLevel       string             `json:"urgency_level"`
}

// Parties identifies the sender organization and the other side.
type Parties struct {
	Client       string `json:"client"`
	Counterparty string `json:"counterparty"`
}

// AgreementReference points at the contract the email is about.
type AgreementReference struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

// Analysis is a stored history row for a completed analysis.
type Analysis struct {
	ID            string    `json:"id"`
	Fingerprint   string    `json:"fingerprint"`
	PromptVersion string    `json:"promptVersion"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	Record        Record    `json:"record"`
	CreatedAt     time.Time `json:"createdAt"`
}
