package heuristics

import "strings"

const signatureTailLines = 8

// Parties extracts the client and counterparty organizations. Two signals are
// combined: a "between A and B" contract clause and an organization found in
// the signature block. The signature org is trusted as the client; the
// counterparty must additionally appear verbatim (case-insensitively) in the
// email body or it is discarded. When both inputs are already set they pass
// through untouched, and when nothing matches neither party is invented.
func Parties(emailText, existingClient, existingCounterparty string) (client, counterparty string) {
	if existingClient != "" && existingCounterparty != "" {
		return existingClient, existingCounterparty
	}

	lower := strings.ToLower(emailText)
	client = existingClient
	counterparty = existingCounterparty

	var pair []string
	if m := betweenRe.FindStringSubmatch(emailText); m != nil {
		pair = []string{cleanPartyName(m[1]), cleanPartyName(m[2])}
	}

	if org := signatureOrg(emailText); org != "" && client == "" {
		client = org
	}

	// Align the client with one member of the "between" pair; the other
	// member becomes the counterparty. The branch order here is deliberate
	// and must not be reordered: when the client matches neither member the
	// pair only fills gaps, it never displaces the signature-derived client.
	if len(pair) == 2 {
		if client != "" {
			switch {
			case strings.EqualFold(client, pair[0]):
				counterparty = pair[1]
			case strings.EqualFold(client, pair[1]):
				counterparty = pair[0]
			default:
				if counterparty == "" {
					counterparty = pair[1]
				}
			}
		} else {
			client = pair[0]
			counterparty = pair[1]
		}
	}

	if counterparty == "" && len(pair) == 2 && !strings.EqualFold(pair[1], client) {
		counterparty = pair[1]
	}

	// The between regex can over-match stray text; a counterparty that never
	// appears in the body is dropped. Signature-derived clients are exempt.
	if counterparty != "" && !strings.Contains(lower, strings.ToLower(counterparty)) {
		counterparty = ""
	}
	return client, counterparty
}

func cleanPartyName(raw string) string {
	name := strings.TrimSpace(raw)
	name = entitySuffixRe.ReplaceAllStringFunc(name, strings.ToUpper)
	return strings.TrimSpace(name)
}

// signatureOrg scans the trailing non-blank lines for an organization name.
// A comma-separated line like "Legal, Helios Labs" yields the last segment; a
// line with two or more consecutive capitalized tokens yields the joined
// span. Later lines override earlier ones, mirroring sign-off placement.
func signatureOrg(emailText string) string {
	var lines []string
	for _, line := range strings.Split(emailText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > signatureTailLines {
		lines = lines[len(lines)-signatureTailLines:]
	}

	org := ""
	for _, line := range lines {
		if strings.Contains(line, ",") {
			var segs []string
			for _, seg := range strings.Split(line, ",") {
				if s := strings.TrimSpace(seg); s != "" {
					segs = append(segs, s)
				}
			}
			if len(segs) >= 2 {
				org = segs[len(segs)-1]
			}
			continue
		}
		var capTokens []string
		for _, tok := range strings.Fields(line) {
			if capTokenRe.MatchString(tok) {
				capTokens = append(capTokens, tok)
			}
		}
		if len(capTokens) >= 2 {
			org = strings.Join(capTokens, " ")
		}
	}
	return org
}
