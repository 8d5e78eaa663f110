package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Dictionary source kinds
const (
	DictionarySourceEmbedded = "embedded"
	DictionarySourceDir      = "dir"
	DictionarySourcePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Dictionary DictionaryConfig
	Parser     ParserConfig
	Cache      CacheConfig
	Ranking    RankingConfig
	Suggestion SuggestionConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, wins over the fields below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	Host            string
	GinMode         string
	AllowedOrigins  string
	AllowedMethods  string
	AllowedHeaders  string
	ShutdownTimeout time.Duration
	AdminToken      string
}

// DictionaryConfig selects where vocabularies are read from
type DictionaryConfig struct {
	Source string // embedded, dir or postgres
	Dir    string
}

// ParserConfig holds fuzzy matching thresholds
type ParserConfig struct {
	MinSimilarity               float64
	ClassificationMinSimilarity float64
	MinFuzzyLength              int
}

// CacheConfig holds parse-result cache configuration
type CacheConfig struct {
	Driver        string // none, memory or redis
	TTL           time.Duration
	MaxEntries    int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
	RedisPrefix   string
}

// RankingConfig holds suggestion ranking weights
type RankingConfig struct {
	WeightPrefix     float64
	WeightSimilarity float64
	WeightBrevity    float64
}

// SuggestionConfig holds autocomplete settings
type SuggestionConfig struct {
	Limit int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	dsn := getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", "")))
	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                dsn,
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "furniture"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			Enabled:            getEnvAsBool("PG_ENABLED", dsn != ""),
		},
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8432),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:         getEnv("GIN_MODE", "release"),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods:  getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders:  getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Request-ID"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AdminToken:      getEnv("ADMIN_TOKEN", ""),
		},
		Dictionary: DictionaryConfig{
			Source: strings.ToLower(getEnv("DICTIONARY_SOURCE", DictionarySourceEmbedded)),
			Dir:    getEnv("DICTIONARY_DIR", ""),
		},
		Parser: ParserConfig{
			MinSimilarity:               getEnvAsFloat("PARSER_MIN_SIMILARITY", 0.75),
			ClassificationMinSimilarity: getEnvAsFloat("PARSER_CLASSIFICATION_MIN_SIMILARITY", 0.8),
			MinFuzzyLength:              getEnvAsInt("PARSER_MIN_FUZZY_LENGTH", 4),
		},
		Cache: CacheConfig{
			Driver:        strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
			TTL:           getEnvAsDuration("CACHE_TTL", 10*time.Minute),
			MaxEntries:    getEnvAsInt("CACHE_MAX_ENTRIES", 10000),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			RedisPoolSize: getEnvAsInt("REDIS_POOL_SIZE", 10),
			RedisPrefix:   getEnv("REDIS_PREFIX", "qa:"),
		},
		Ranking: RankingConfig{
			WeightPrefix:     getEnvAsFloat("RANK_WEIGHT_PREFIX", 0.6),
			WeightSimilarity: getEnvAsFloat("RANK_WEIGHT_SIMILARITY", 0.3),
			WeightBrevity:    getEnvAsFloat("RANK_WEIGHT_BREVITY", 0.1),
		},
		Suggestion: SuggestionConfig{
			Limit: getEnvAsInt("SUGGESTION_LIMIT", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup
func (c *Config) Validate() error {
	var errs []error

	switch c.Dictionary.Source {
	case DictionarySourceEmbedded:
	case DictionarySourceDir:
		if c.Dictionary.Dir == "" {
			errs = append(errs, errors.New("DICTIONARY_DIR is required when DICTIONARY_SOURCE=dir"))
		}
	case DictionarySourcePostgres:
		if !c.PostgreSQL.Enabled {
			errs = append(errs, errors.New("DICTIONARY_SOURCE=postgres needs a configured database"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DICTIONARY_SOURCE %q", c.Dictionary.Source))
	}

	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_DRIVER %q", c.Cache.Driver))
	}

	for name, v := range map[string]float64{
		"PARSER_MIN_SIMILARITY":                c.Parser.MinSimilarity,
		"PARSER_CLASSIFICATION_MIN_SIMILARITY": c.Parser.ClassificationMinSimilarity,
	} {
		if v <= 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in (0, 1], got %g", name, v))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Address is the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warn().Str("key", key).Float64("default", defaultValue).Msg("invalid float value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Bool("default", defaultValue).Msg("invalid boolean value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Dur("default", defaultValue).Msg("invalid duration value, using default")
		return defaultValue
	}
	return value
}
