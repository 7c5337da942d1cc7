package analyses

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"legalmail-backend/internal/cache"
	"legalmail-backend/internal/llm"
	"legalmail-backend/internal/shared/metrics"
	"legalmail-backend/internal/shared/telemetry"
	"legalmail-backend/internal/shared/util"
)

const analysisCacheTTL = time.Hour

func init() {
	// Cached records survive restarts when cache persistence is enabled.
	gob.Register(Record{})
}

// Service runs the extraction pipeline: model guess, lenient decode,
// heuristic refinement, then caching and optional history persistence.
type Service struct {
	Repo     Repo
	LLM      llm.Client
	Cache    *cache.Store
	Provider string
	Model    string
}

// Analyze produces a normalized Record for one email.
func (s *Service) Analyze(ctx context.Context, emailText string) (Record, error) {
	if strings.TrimSpace(emailText) == "" {
		return Record{}, ErrEmptyEmail
	}

	key := cacheKey(emailText)
	if s.Cache != nil {
		if v, ok := s.Cache.Get(key); ok {
			if rec, ok := v.(Record); ok {
				telemetry.Info("analysis.cache_hit", map[string]any{"fingerprint": key})
				return rec, nil
			}
		}
	}

	metrics.IncAnalysisStarted()
	start := time.Now()

	raw, err := s.LLM.StructuredJSON(ctx, llm.AnalyzeInput{
		Prompt:        analyzePrompt,
		EmailText:     emailText,
		PromptVersion: llm.AnalyzePromptVersion,
	})
	if err != nil {
		metrics.IncAnalysisFailed()
		return Record{}, fmt.Errorf("analysis generation: %w", err)
	}

	rec, err := Normalize(raw, emailText)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Record{}, err
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))

	if s.Cache != nil {
		s.Cache.Set(key, rec, analysisCacheTTL)
	}
	if s.Repo != nil {
		analysis := Analysis{
			ID:            uuid.NewString(),
			Fingerprint:   key,
			PromptVersion: llm.AnalyzePromptVersion,
			Provider:      s.Provider,
			Model:         s.Model,
			Record:        rec,
			CreatedAt:     time.Now().UTC(),
		}
		// History is best effort; a storage hiccup must not fail the request.
		if err := s.Repo.Create(ctx, analysis); err != nil {
			log.Printf("analyses: persist failed: %v", err)
		}
	}

	return rec, nil
}

// Get returns a stored analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if s.Repo == nil {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns stored analyses newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	if s.Repo == nil {
		return []Analysis{}, nil
	}
	return s.Repo.List(ctx, limit, offset)
}

// Models reports the provider's candidate rotation for debugging.
func (s *Service) Models() (candidates []string, current string) {
	if lister, ok := s.LLM.(llm.ModelLister); ok {
		return lister.Candidates(), lister.Current()
	}
	if s.Model != "" {
		return []string{s.Model}, s.Model
	}
	return []string{}, ""
}

func cacheKey(emailText string) string {
	return fmt.Sprintf("analysis:v%s:%s", llm.AnalyzePromptVersion, util.HashText(emailText))
}
