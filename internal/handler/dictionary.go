package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/model"
	"github.com/confluence-ai/query-analyzer/internal/service"
)

// DictionaryHandler exposes the active vocabulary and reloads it
type DictionaryHandler struct {
	store          *dictionary.Store
	analyzeService *service.AnalyzeService
	logger         zerolog.Logger
}

// NewDictionaryHandler creates a new dictionary handler
func NewDictionaryHandler(store *dictionary.Store, analyzeService *service.AnalyzeService, logger zerolog.Logger) *DictionaryHandler {
	return &DictionaryHandler{
		store:          store,
		analyzeService: analyzeService,
		logger:         logger,
	}
}

// Stats handles GET /admin/dictionary
func (h *DictionaryHandler) Stats(c *gin.Context) {
	idx := h.store.Snapshot()
	c.JSON(http.StatusOK, model.ReloadResponse{
		Success: true,
		Source:  h.store.SourceName(),
		Version: idx.Version(),
		Terms:   idx.Stats(),
	})
}

// Reload handles POST /admin/dictionary/reload.
// A failed reload answers 500 and leaves the active dictionary in place.
func (h *DictionaryHandler) Reload(c *gin.Context) {
	start := time.Now()
	idx, err := h.store.Reload(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to reload dictionary: "+err.Error())
		return
	}

	if h.analyzeService != nil {
		if err := h.analyzeService.InvalidateCache(c.Request.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("cache invalidation after reload failed")
		}
	}

	c.JSON(http.StatusOK, model.ReloadResponse{
		Success: true,
		Source:  h.store.SourceName(),
		Version: idx.Version(),
		Terms:   idx.Stats(),
		Took:    time.Since(start).Milliseconds(),
	})
}
