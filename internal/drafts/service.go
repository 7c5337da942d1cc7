package drafts

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"legalmail-backend/internal/analyses"
	"legalmail-backend/internal/cache"
	"legalmail-backend/internal/llm"
	"legalmail-backend/internal/shared/metrics"
	"legalmail-backend/internal/shared/telemetry"
	"legalmail-backend/internal/shared/util"
)

const draftCacheTTL = time.Hour

var ErrEmptyEmail = errors.New("email text is required")

const baseGuidelines = "You are a careful legal assistant. Draft a professional email reply.\n" +
	"- Refer to clauses 9.1, 9.2, 10.2 when relevant.\n" +
	"- Maintain cautious legal tone.\n" +
	"- Avoid strong commitments.\n"

const variantBGuidelines = "- Provide a slightly more detailed structure with short bullet points for key actions.\n" +
	"- Offer two alternative phrasings for the main position where helpful.\n" +
	"- Aim for 150-220 words.\n"

const variantAGuidelines = "- Keep it clear and concise in 80-140 words; paragraphs only (no bullets).\n"

const fallbackDraftA = "Subject: Re: Your email\n\n" +
	"Thank you for your message. We are reviewing the points you raised. " +
	"We will respond with more detail after internal consultation.\n\n" +
	"Best regards,\nLegal Team"

const fallbackDraftB = "Subject: Re: Your email\n\n" +
	"Thank you for your message.\n\n" +
	"- We acknowledge the request and will review the relevant clauses (9.1, 9.2, 10.2) as applicable.\n" +
	"- We will coordinate internally and revert with options.\n\n" +
	"Best regards,\nLegal Team"

func init() {
	gob.Register(Result{})
}

// ClauseRetriever returns contract clauses relevant to a query snippet.
type ClauseRetriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Request carries everything needed to draft one reply.
type Request struct {
	EmailText       string
	Analysis        *analyses.Record
	ContractSnippet string
	Variant         string
}

// Result pairs the drafted reply with its risk score.
type Result struct {
	Draft     string
	RiskScore int
}

// Service drafts reply emails. Generation is retrieval augmented when a
// retriever is configured, cached per input combination, and always yields a
// usable draft: provider failures degrade to a canned fallback instead of an
// error.
type Service struct {
	LLM       llm.Client
	Cache     *cache.Store
	Retriever ClauseRetriever
}

// Draft produces a reply and risk score for the request.
func (s *Service) Draft(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.EmailText) == "" {
		return Result{}, ErrEmptyEmail
	}
	variant := normalizeVariant(req.Variant)

	key := s.cacheKey(req, variant)
	if s.Cache != nil {
		if v, ok := s.Cache.Get(key); ok {
			if res, ok := v.(Result); ok && strings.TrimSpace(res.Draft) != "" {
				telemetry.Info("draft.cache_hit", map[string]any{"variant": variant})
				return res, nil
			}
			log.Printf("drafts: ignoring invalid cached draft, regenerating")
		}
	}

	retrieved := ""
	if s.Retriever != nil {
		snippet, err := s.Retriever.Retrieve(ctx, req.ContractSnippet)
		if err != nil {
			log.Printf("drafts: clause retrieval failed: %v", err)
		} else {
			retrieved = snippet
		}
	}

	system := baseGuidelines
	if variant == "B" {
		system += variantBGuidelines
	} else {
		system += variantAGuidelines
	}

	metrics.IncDraftStarted()
	start := time.Now()

	analysisJSON := ""
	if req.Analysis != nil {
		if data, err := json.MarshalIndent(req.Analysis, "", "  "); err == nil {
			analysisJSON = string(data)
		}
	}

	draft, err := s.LLM.GenerateDraft(ctx, llm.DraftInput{
		SystemPrompt:     system,
		EmailText:        req.EmailText,
		AnalysisJSON:     analysisJSON,
		ContractSnippet:  req.ContractSnippet,
		RetrievedClauses: retrieved,
		PromptVersion:    llm.DraftPromptVersion,
	})
	if err != nil {
		metrics.IncDraftFailed()
		log.Printf("drafts: generation failed: %v", err)
		draft = ""
	} else {
		metrics.IncDraftCompleted()
		metrics.ObserveDraftDurationMs(float64(time.Since(start).Milliseconds()))
	}

	if strings.TrimSpace(draft) == "" {
		if variant == "B" {
			draft = fallbackDraftB
		} else {
			draft = fallbackDraftA
		}
	}

	res := Result{Draft: draft, RiskScore: riskScore(req.Analysis)}
	if s.Cache != nil {
		s.Cache.Set(key, res, draftCacheTTL)
	}
	return res, nil
}

func (s *Service) cacheKey(req Request, variant string) string {
	analysisFragment := "0"
	if req.Analysis != nil {
		if data, err := json.Marshal(req.Analysis); err == nil {
			analysisFragment = util.HashText(string(data))
		}
	}
	return fmt.Sprintf("draft:v%s:%s:%s:%s:%s",
		llm.DraftPromptVersion,
		util.HashText(req.EmailText),
		analysisFragment,
		util.HashText(req.ContractSnippet),
		variant,
	)
}

func normalizeVariant(v string) string {
	if strings.ToUpper(strings.TrimSpace(v)) == "B" {
		return "B"
	}
	return "A"
}

// riskScore grades how carefully the reply should be reviewed. Termination
// talk dominates, urgency and negotiation add, and an open liability
// question bumps the total. Clamped to [0, 100].
func riskScore(analysis *analyses.Record) int {
	if analysis == nil {
		return 0
	}
	risk := 0
	urgency := strings.ToLower(analysis.UrgencyLevel)
	if urgency == "" {
		urgency = "low"
	}
	intent := strings.ToLower(analysis.Intent)
	if intent == "" {
		intent = "other"
	}
	if urgency == "high" {
		risk += 25
	}
	if strings.Contains(intent, "termination") || strings.Contains(intent, "terminate") {
		risk += 35
	}
	if strings.Contains(intent, "negotiation") {
		risk += 20
	}
	for _, q := range analysis.Questions {
		if strings.Contains(strings.ToLower(q), "liability") {
			risk += 20
			break
		}
	}
	if risk < 0 {
		risk = 0
	}
	if risk > 100 {
		risk = 100
	}
	return risk
}
