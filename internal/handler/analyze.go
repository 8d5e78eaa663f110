package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/service"
)

// AnalyzeHandler handles query analysis requests
type AnalyzeHandler struct {
	analyzeService *service.AnalyzeService
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzeService *service.AnalyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzeService: analyzeService}
}

// Analyze handles POST /query/analyze.
// An empty query string is analyzed normally; only a missing field is rejected.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Query == nil {
		respondError(c, http.StatusBadRequest, "Query is required")
		return
	}

	response := h.analyzeService.Analyze(c.Request.Context(), RequestIDFrom(c), *req.Query)
	c.JSON(http.StatusOK, response)
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{Success: false, Error: message})
}
