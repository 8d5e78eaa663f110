package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/service"
)

// SuggestionHandler handles autocomplete requests
type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// Suggest handles POST /query/suggestion
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req model.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Query == nil || strings.TrimSpace(*req.Query) == "" {
		respondError(c, http.StatusBadRequest, "Query is required")
		return
	}

	c.JSON(http.StatusOK, h.suggestionService.Suggest(c.Request.Context(), *req.Query, req.Limit))
}
