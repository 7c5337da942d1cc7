package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"legalmail-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyzeEmail)
	rg.GET("/models", h.listModels)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

// AnalyzeRequest is the payload for POST /analyze.
type AnalyzeRequest struct {
	EmailText       string `json:"email_text" binding:"required"`
	ContractSnippet string `json:"contract_snippet"`
	Debug           bool   `json:"debug"`
}

func (h *Handler) analyzeEmail(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email_text is required", nil)
		return
	}

	record, err := h.Svc.Analyze(c.Request.Context(), req.EmailText)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyEmail):
			respond.Error(c, http.StatusBadRequest, "validation_error", "email_text is required", nil)
		case errors.Is(err, ErrUpstreamJSON):
			respond.Error(c, http.StatusBadGateway, "upstream_error", "analysis model returned an unusable response", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze email", nil)
		}
		return
	}

	respond.OK(c, record)
}

func (h *Handler) listModels(c *gin.Context) {
	candidates, current := h.Svc.Models()
	respond.OK(c, gin.H{
		"candidates": candidates,
		"current":    current,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.OK(c, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	analyses, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		resp = append(resp, gin.H{
			"id":            a.ID,
			"fingerprint":   a.Fingerprint,
			"intent":        a.Record.Intent,
			"primary_topic": a.Record.PrimaryTopic,
			"urgency_level": a.Record.UrgencyLevel,
			"createdAt":     a.CreatedAt,
		})
	}

	respond.OK(c, resp)
}
