package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"legalmail-backend/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultCandidates lists chat models in preference order. Newer generations
// come first; trailing entries survive quota exhaustion on the free tier.
var DefaultCandidates = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.5-pro",
	"gemini-1.5-flash-latest",
	"gemini-1.5-pro-latest",
	"gemini-1.5-flash-8b",
}

// Client implements llm.Client against the Gemini generateContent REST API.
// It rotates through model candidates when a model is unavailable or
// rate limited, and reports an aggregated error once all candidates fail.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	mu         sync.Mutex
	candidates []string
	idx        int
}

// NewClient constructs a Client. An empty candidates slice falls back to
// DefaultCandidates.
func NewClient(apiKey string, candidates []string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		candidates: candidates,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// NormalizeModelNames converts a comma separated list of friendly names
// ("Gemini 2.5 Pro") into API model identifiers ("gemini-2.5-pro").
func NormalizeModelNames(raw string) []string {
	var cleaned []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		low := strings.ReplaceAll(strings.ToLower(name), " ", "-")
		if !strings.HasPrefix(low, "gemini-") {
			low = "gemini-" + low
		}
		cleaned = append(cleaned, low)
	}
	return cleaned
}

// Candidates returns a copy of the rotation order.
func (c *Client) Candidates() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// Current returns the model the next call will try first.
func (c *Client) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.candidates[c.idx]
}

func (c *Client) current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.candidates[c.idx]
}

func (c *Client) rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idx = (c.idx + 1) % len(c.candidates)
	log.Printf("gemini: rotating to model %s", c.candidates[c.idx])
}

// rotateWorthy reports whether an error should trigger trying the next
// candidate rather than failing outright.
func rotateWorthy(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, cue := range []string{"404", "not found", "unsupported", "rate", "quota", "429", "exceeded"} {
		if strings.Contains(msg, cue) {
			return true
		}
	}
	return false
}

// StructuredJSON sends the analysis prompt and email and returns raw text.
func (c *Client) StructuredJSON(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	parts := []string{
		input.Prompt + "\nReturn only valid JSON without markdown.",
		input.EmailText,
	}
	return c.generate(ctx, parts)
}

// GenerateDraft sends drafting guidance plus the assembled context and
// returns the reply text.
func (c *Client) GenerateDraft(ctx context.Context, input llm.DraftInput) (string, error) {
	guidance := input.SystemPrompt +
		"\nIncorporate any relevant references to clauses 9.1, 9.2, 10.2 as applicable." +
		"\nAvoid over-committing; maintain a cautious legal tone."

	var human strings.Builder
	human.WriteString("Email to reply to:\n")
	human.WriteString(input.EmailText)
	human.WriteString("\n\n")
	if input.AnalysisJSON != "" {
		human.WriteString("Analysis JSON:\n")
		human.WriteString(input.AnalysisJSON)
		human.WriteString("\n\n")
	}
	if input.ContractSnippet != "" {
		human.WriteString("Contract Snippet:\n")
		human.WriteString(input.ContractSnippet)
		human.WriteString("\n\n")
	}
	if input.RetrievedClauses != "" {
		human.WriteString("Retrieved Clauses:\n")
		human.WriteString(input.RetrievedClauses)
		human.WriteString("\n\n")
	}
	human.WriteString("Draft a reply email string only.")

	return c.generate(ctx, []string{guidance, human.String()})
}

// generate tries each candidate at most once, rotating on availability and
// quota errors and stopping early on anything else.
func (c *Client) generate(ctx context.Context, parts []string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < len(c.Candidates()); attempt++ {
		model := c.current()
		text, err := c.call(ctx, model, parts)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !rotateWorthy(err) {
			break
		}
		log.Printf("gemini: model %s failed (%v), trying next candidate", model, err)
		c.rotate()
	}
	attempts := strings.Join(c.Candidates(), ", ")
	return "", fmt.Errorf("gemini call failed after trying models: [%s]: %w", attempts, lastErr)
}

type generateRequest struct {
	Contents         []content  `json:"contents"`
	GenerationConfig *genConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *Client) call(ctx context.Context, model string, parts []string) (string, error) {
	reqParts := make([]part, 0, len(parts))
	for _, p := range parts {
		reqParts = append(reqParts, part{Text: p})
	}
	payload := generateRequest{
		Contents:         []content{{Parts: reqParts, Role: "user"}},
		GenerationConfig: &genConfig{Temperature: 0.2},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var gResp generateResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if gResp.Error != nil {
		return "", fmt.Errorf("gemini API error: %s (code %d)", gResp.Error.Message, gResp.Error.Code)
	}
	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini API")
	}
	return strings.TrimSpace(gResp.Candidates[0].Content.Parts[0].Text), nil
}
