package drafts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"legalmail-backend/internal/analyses"
	"legalmail-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers for drafting. The process endpoint chains the
// analysis service in front of drafting.
type Handler struct {
	Svc      *Service
	Analyses *analyses.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, analysesSvc *analyses.Service) *Handler {
	return &Handler{Svc: svc, Analyses: analysesSvc}
}

// RegisterRoutes attaches drafting routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/draft", h.draftReply)
	rg.POST("/process", h.process)
}

// DraftRequest is the payload for POST /draft.
type DraftRequest struct {
	EmailText       string           `json:"email_text" binding:"required"`
	Analysis        *analyses.Record `json:"analysis"`
	ContractSnippet string           `json:"contract_snippet"`
	Variant         string           `json:"variant"`
	Debug           bool             `json:"debug"`
}

// ProcessRequest is the payload for POST /process.
type ProcessRequest struct {
	EmailText       string `json:"email_text" binding:"required"`
	ContractSnippet string `json:"contract_snippet"`
	Debug           bool   `json:"debug"`
}

func (h *Handler) draftReply(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email_text is required", nil)
		return
	}

	res, err := h.Svc.Draft(c.Request.Context(), Request{
		EmailText:       req.EmailText,
		Analysis:        req.Analysis,
		ContractSnippet: req.ContractSnippet,
		Variant:         req.Variant,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyEmail):
			respond.Error(c, http.StatusBadRequest, "validation_error", "email_text is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to draft reply", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"draft":      res.Draft,
		"risk_score": res.RiskScore,
	})
}

func (h *Handler) process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email_text is required", nil)
		return
	}

	record, err := h.Analyses.Analyze(c.Request.Context(), req.EmailText)
	if err != nil {
		switch {
		case errors.Is(err, analyses.ErrEmptyEmail):
			respond.Error(c, http.StatusBadRequest, "validation_error", "email_text is required", nil)
		case errors.Is(err, analyses.ErrUpstreamJSON):
			respond.Error(c, http.StatusBadGateway, "upstream_error", "analysis model returned an unusable response", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process email", nil)
		}
		return
	}

	res, err := h.Svc.Draft(c.Request.Context(), Request{
		EmailText:       req.EmailText,
		Analysis:        &record,
		ContractSnippet: req.ContractSnippet,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process email", nil)
		return
	}

	respond.OK(c, gin.H{
		"analysis":   record,
		"draft":      res.Draft,
		"risk_score": res.RiskScore,
	})
}
