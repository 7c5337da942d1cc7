package llm

import (
	"context"
)

// Prompt versions participate in cache fingerprints, so bumping one
// invalidates previously cached results for that stage.
const (
	AnalyzePromptVersion = "1.0.2"
	DraftPromptVersion   = "1.0.2"
)

// Client abstracts LLM providers for email analysis and reply drafting.
type Client interface {
	// StructuredJSON sends the analysis prompt plus the raw email and returns
	// the provider's text output. Callers are responsible for locating and
	// decoding the JSON payload inside it.
	StructuredJSON(ctx context.Context, input AnalyzeInput) (string, error)
	// GenerateDraft produces a reply email body.
	GenerateDraft(ctx context.Context, input DraftInput) (string, error)
}

// AnalyzeInput captures the inputs for structured email analysis.
type AnalyzeInput struct {
	Prompt        string
	EmailText     string
	PromptVersion string
}

// DraftInput captures the inputs for reply drafting.
type DraftInput struct {
	SystemPrompt     string
	EmailText        string
	AnalysisJSON     string
	ContractSnippet  string
	RetrievedClauses string
	PromptVersion    string
}

// ModelLister is implemented by clients that rotate across model candidates.
type ModelLister interface {
	Candidates() []string
	Current() string
}
