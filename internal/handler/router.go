package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/confluence-ai/query-analyzer/internal/dictionary"
	"github.com/confluence-ai/query-analyzer/internal/service"
)

// BuildInfo is reported by /health and /version
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RouterOptions carries everything the HTTP layer is wired to
type RouterOptions struct {
	Store             *dictionary.Store
	AnalyzeService    *service.AnalyzeService
	SuggestionService *service.SuggestionService
	Logger            zerolog.Logger
	Build             BuildInfo
	AllowedOrigins    string
	AllowedMethods    string
	AllowedHeaders    string
	AdminToken        string
}

// NewRouter builds the gin engine with every route registered
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(opts.Logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(opts.AllowedOrigins, "*")
	corsConfig.AllowMethods = splitList(opts.AllowedMethods, "GET,POST,OPTIONS")
	corsConfig.AllowHeaders = splitList(opts.AllowedHeaders, "Content-Type,Authorization")
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":             "healthy",
			"service":            "query-analyzer",
			"timestamp":          time.Now().UTC().Format(time.RFC3339),
			"version":            opts.Build.Version,
			"dictionary_version": opts.Store.Snapshot().Version(),
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    opts.Build.Version,
			"build_time": opts.Build.BuildTime,
			"git_commit": opts.Build.GitCommit,
		})
	})

	analyzeHandler := NewAnalyzeHandler(opts.AnalyzeService)
	suggestionHandler := NewSuggestionHandler(opts.SuggestionService)
	dictionaryHandler := NewDictionaryHandler(opts.Store, opts.AnalyzeService, opts.Logger)

	query := router.Group("/query")
	{
		query.POST("/analyze", analyzeHandler.Analyze)
		query.POST("/suggestion", suggestionHandler.Suggest)
	}

	if opts.AdminToken == "" {
		opts.Logger.Warn().Msg("ADMIN_TOKEN is not set, /admin routes are unauthenticated")
	}
	admin := router.Group("/admin", AdminAuth(opts.AdminToken))
	{
		admin.GET("/dictionary", dictionaryHandler.Stats)
		admin.POST("/dictionary/reload", dictionaryHandler.Reload)
	}

	return router
}

func splitList(value, fallback string) []string {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
