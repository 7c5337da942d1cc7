package analyses

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"legalmail-backend/internal/analyses/heuristics"
)

// intentAliases maps the free-form intent labels models tend to produce onto
// the labels the API exposes. Unmapped labels pass through untouched.
var intentAliases = map[string]string{
	"request_for_approval": "approval_request",
	"approval":             "approval_request",
	"approve_request":      "approval_request",
	"approval_request":     "approval_request",
	"information_request":  "information_request",
	"info_request":         "information_request",
	"information":          "information_request",
	"info":                 "information_request",
	"termination_notice":   "termination_notice",
	"termination":          "termination_notice",
	"terminate":            "termination_notice",
	"invoice":              "invoice",
	"billing":              "invoice",
	"payment":              "invoice",
	"negotiate":            "negotiation",
	"negotiation":          "negotiation",
	"counter":              "negotiation",
	"other":                "other",
}

var jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// rawGuess defers decoding of each field so polymorphic shapes can be
// handled explicitly per field.
type rawGuess struct {
	Intent             json.RawMessage `json:"intent"`
	PrimaryTopic       json.RawMessage `json:"primary_topic"`
	Parties            json.RawMessage `json:"parties"`
	AgreementReference json.RawMessage `json:"agreement_reference"`
	Questions          json.RawMessage `json:"questions"`
	RequestedDueDate   json.RawMessage `json:"requested_due_date"`
	UrgencyLevel       json.RawMessage `json:"urgency_level"`
}

// ExtractJSON locates the JSON object in model output, tolerating markdown
// fences and surrounding prose.
func ExtractJSON(text string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		var kept []string
		for _, line := range strings.Split(cleaned, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		cleaned = strings.TrimSpace(strings.Join(kept, "\n"))
	}
	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned), nil
	}
	if m := jsonObjectRe.FindString(cleaned); m != "" && json.Valid([]byte(m)) {
		return json.RawMessage(m), nil
	}
	return nil, fmt.Errorf("%w", ErrUpstreamJSON)
}

// Normalize turns raw model output into a Record. The model's guess is
// treated as untrusted: every field is re-checked against the email text by
// the heuristic refiners, and shapes the model gets wrong (parties as a
// list, agreement_reference as a bare string) are decoded leniently.
func Normalize(rawText, emailText string) (Record, error) {
	payload, err := ExtractJSON(rawText)
	if err != nil {
		return Record{}, err
	}
	var guess rawGuess
	if err := json.Unmarshal(payload, &guess); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrUpstreamJSON, err)
	}

	lower := strings.ToLower(emailText)
	var out Record

	rawIntent := strings.ToLower(strings.TrimSpace(stringField(guess.Intent)))
	intent := rawIntent
	if mapped, ok := intentAliases[rawIntent]; ok {
		intent = mapped
	}

	out.PrimaryTopic = heuristics.Topic(emailText, stringField(guess.PrimaryTopic))

	rawClient, rawCounterparty := decodeParties(guess.Parties)
	client, counterparty := heuristics.Parties(emailText, rawClient, rawCounterparty)
	out.Parties = Parties{Client: client, Counterparty: counterparty}

	out.AgreementReference = decodeAgreement(guess.AgreementReference, lower)

	extracted := heuristics.Questions(emailText, decodeQuestions(guess.Questions))
	cleaned := make([]string, 0, len(extracted))
	for _, q := range extracted {
		q = strings.TrimSpace(q)
		if strings.HasSuffix(q, ".?") {
			q = strings.TrimSuffix(q, ".?") + "?"
		}
		cleaned = append(cleaned, q)
	}
	out.Questions = cleaned

	out.RequestedDueDate = heuristics.DueDate(emailText, stringField(guess.RequestedDueDate))
	out.UrgencyLevel = heuristics.Urgency(emailText, strings.ToLower(strings.TrimSpace(stringField(guess.UrgencyLevel))))

	// Intent refinement runs last so compound cues win over the mapped label.
	out.Intent = heuristics.Intent(emailText, intent)

	return out, nil
}

// decodeParties accepts either {client, counterparty} or a positional list.
func decodeParties(raw json.RawMessage) (client, counterparty string) {
	if len(raw) == 0 {
		return "", ""
	}
	var obj struct {
		Client       json.RawMessage `json:"client"`
		Counterparty json.RawMessage `json:"counterparty"`
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		if err := json.Unmarshal(raw, &obj); err == nil {
			return stringField(obj.Client), stringField(obj.Counterparty)
		}
		return "", ""
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		var vals []string
		for _, item := range list {
			if s := stringField(item); s != "" {
				vals = append(vals, s)
			}
		}
		if len(vals) > 0 {
			client = vals[0]
		}
		if len(vals) > 1 {
			counterparty = vals[1]
		}
	}
	return client, counterparty
}

// decodeAgreement accepts {type, date} or a bare string naming the type.
// An empty type is backfilled with MSA when the email mentions one.
func decodeAgreement(raw json.RawMessage, lowerEmail string) AgreementReference {
	var ref AgreementReference
	if len(raw) > 0 {
		var obj struct {
			Type json.RawMessage `json:"type"`
			Date json.RawMessage `json:"date"`
		}
		trimmed := strings.TrimSpace(string(raw))
		switch {
		case strings.HasPrefix(trimmed, "{"):
			if err := json.Unmarshal(raw, &obj); err == nil {
				ref.Type = stringField(obj.Type)
				ref.Date = stringField(obj.Date)
			}
		default:
			ref.Type = strings.TrimSpace(stringField(raw))
		}
	}
	if ref.Type == "" && strings.Contains(lowerEmail, "msa") {
		ref.Type = "MSA"
	}
	return ref
}

// decodeQuestions accepts a list of scalars or a single bare string.
func decodeQuestions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	var out []string
	for _, item := range list {
		if s := stringField(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stringField coerces a scalar JSON value to a string. Nulls, objects, and
// arrays become empty strings; numbers and booleans keep their literal text.
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" || strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	return trimmed
}
