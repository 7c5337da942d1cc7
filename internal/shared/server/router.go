package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"legalmail-backend/internal/analyses"
	"legalmail-backend/internal/cache"
	"legalmail-backend/internal/clauses"
	"legalmail-backend/internal/drafts"
	"legalmail-backend/internal/llm"
	"legalmail-backend/internal/llm/gemini"
	"legalmail-backend/internal/services/health"
	"legalmail-backend/internal/shared/config"
	"legalmail-backend/internal/shared/metrics"
	"legalmail-backend/internal/shared/server/middleware"
	"legalmail-backend/internal/shared/server/respond"
	"legalmail-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig(cfg)),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var analysisRepo analyses.Repo
	if sqlDB != nil {
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		analysisRepo = analyses.NewMemoryRepo()
	}

	cacheStore := cache.New(cfg.CachePath, time.Hour)

	clauseStore, err := clauses.New(context.Background(), clauses.Config{
		CorpusDir:  cfg.ClauseCorpusDir,
		PersistDir: cfg.ClauseIndexDir,
	})
	if err != nil {
		log.Printf("clause index unavailable, drafts will use the default snippet: %v", err)
	}

	client, provider := newLLMClient(cfg)
	analysisSvc := &analyses.Service{
		Repo:     analysisRepo,
		LLM:      client,
		Cache:    cacheStore,
		Provider: provider,
	}
	analysisHandler := analyses.NewHandler(analysisSvc)

	draftSvc := &drafts.Service{LLM: client, Cache: cacheStore}
	if clauseStore != nil {
		draftSvc.Retriever = clauseStore
	}
	draftHandler := drafts.NewHandler(draftSvc, analysisSvc)
	healthSvc := health.NewService()

	healthHandler := func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	}
	r.GET("/health", healthHandler)

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)
	analysisHandler.RegisterRoutes(api)
	draftHandler.RegisterRoutes(api)
	r.GET("/metrics", metrics.Handler())

	return r
}

func newLLMClient(cfg config.Config) (llm.Client, string) {
	if cfg.GeminiAPIKey == "" {
		log.Printf("GEMINI_API_KEY not set, using the keyword mock model")
		return &llm.MockClient{}, "mock"
	}
	candidates := gemini.NormalizeModelNames(strings.Join(cfg.GeminiModels, ","))
	client, err := gemini.NewClient(cfg.GeminiAPIKey, candidates)
	if err != nil {
		log.Printf("gemini client init failed, using the keyword mock model: %v", err)
		return &llm.MockClient{}, "mock"
	}
	return client, "gemini"
}

func rateLimitConfig(cfg config.Config) middleware.RateLimitConfig {
	perSecond := float64(cfg.RateLimitPerMinute) / 60.0
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet {
				return "READ"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: perSecond, Burst: cfg.RateLimitPerMinute},
			"READ":    {Rate: perSecond * 5, Burst: cfg.RateLimitPerMinute * 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
