package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmerrifield20/phishguard/internal/analysis"
	"github.com/jmerrifield20/phishguard/internal/samples"
	"github.com/jmerrifield20/phishguard/internal/threat"
	"go.uber.org/zap"
)

// AnalysisHandler handles HTTP requests for email analysis.
type AnalysisHandler struct {
	svc    *analysis.Service
	logger *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *analysis.Service, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, logger: logger}
}

// Register mounts the analysis routes on the given router group.
func (h *AnalysisHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/analyze")
	{
		a.POST("", h.Analyze)
		a.POST("/message", h.AnalyzeMessage)
	}

	rg.GET("/rules", h.ListRules)
	rg.GET("/tiers", h.ListTiers)
	rg.GET("/samples", h.ListSamples)
	rg.GET("/samples/:kind", h.GetSample)
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// Analyze handles POST /analyze: scores pasted email text.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, analysis.ErrInputTooLarge)
			return
		}
		RecordRejectedInput("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	report, err := h.svc.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	RecordAnalysis(report.Result)
	c.JSON(http.StatusOK, report)
}

// AnalyzeMessage handles POST /analyze/message: scores a raw RFC 5322 message.
func (h *AnalysisHandler) AnalyzeMessage(c *gin.Context) {
	report, err := h.svc.AnalyzeMessage(c.Request.Context(), c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = analysis.ErrInputTooLarge
		}
		h.writeError(c, err)
		return
	}
	RecordAnalysis(report.Result)
	c.JSON(http.StatusOK, report)
}

// writeError maps service errors onto HTTP responses.
func (h *AnalysisHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analysis.ErrInvalidInput):
		RecordRejectedInput("empty")
		c.JSON(http.StatusBadRequest, gin.H{"error": analysis.ErrInvalidInput.Error()})
	case errors.Is(err, analysis.ErrInputTooLarge):
		RecordRejectedInput("too_large")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, analysis.ErrMalformedMessage):
		RecordRejectedInput("malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis deadline exceeded"})
	default:
		h.logger.Error("analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
	}
}

// ListRules handles GET /rules. Lists the rule catalog, optionally filtered by ?q=.
func (h *AnalysisHandler) ListRules(c *gin.Context) {
	rules := analysis.FindRules(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"rules":               rules,
		"count":               len(rules),
		"shortener_fragments": threat.ShortenerFragments(),
		"misspellings":        threat.Misspellings(),
	})
}

type tierInfo struct {
	Name string `json:"name"`
	threat.Presentation
	MinScore int `json:"min_score"`
	MaxScore int `json:"max_score"`
}

// ListTiers handles GET /tiers. Returns the tiers with their display metadata.
func (h *AnalysisHandler) ListTiers(c *gin.Context) {
	tiers := threat.Tiers()
	out := make([]tierInfo, 0, len(tiers))
	for _, t := range tiers {
		lo, hi := t.ScoreRange()
		out = append(out, tierInfo{
			Name:         string(t),
			Presentation: threat.Present(t),
			MinScore:     lo,
			MaxScore:     hi,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tiers": out})
}

// ListSamples handles GET /samples.
func (h *AnalysisHandler) ListSamples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"kinds": samples.Kinds()})
}

// GetSample handles GET /samples/:kind.
func (h *AnalysisHandler) GetSample(c *gin.Context) {
	kind := c.Param("kind")
	text, ok := samples.Lookup(kind)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown sample kind"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "text": text})
}
