package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/confluence-ai/query-analyzer/internal/model"
)

const (
	productTable = `"Product"`
	brandTable   = `"Brand"`

	defaultNameLimit = 10
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewWithDB wraps an existing connection
func NewWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FetchProductNames returns published products whose name starts with prefix
func (r *PostgresRepository) FetchProductNames(ctx context.Context, prefix string, limit int) ([]model.NamedItem, error) {
	return r.fetchNames(ctx, productTable, `AND "isPublished" = true`, prefix, limit)
}

// FetchBrandNames returns brands whose name starts with prefix
func (r *PostgresRepository) FetchBrandNames(ctx context.Context, prefix string, limit int) ([]model.NamedItem, error) {
	return r.fetchNames(ctx, brandTable, "", prefix, limit)
}

func (r *PostgresRepository) fetchNames(ctx context.Context, table, extra, prefix string, limit int) ([]model.NamedItem, error) {
	if limit <= 0 {
		limit = defaultNameLimit
	}
	query := fmt.Sprintf(`
		SELECT DISTINCT id, name
		FROM %s
		WHERE id IS NOT NULL AND name ILIKE $1 %s
		ORDER BY name
		LIMIT $2
	`, table, extra)

	items := []model.NamedItem{}
	if err := r.db.SelectContext(ctx, &items, query, likePrefix(prefix), limit); err != nil {
		return nil, fmt.Errorf("failed to fetch names from %s: %w", table, err)
	}
	return items, nil
}

// likePrefix escapes LIKE wildcards in prefix and appends %
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.TrimSpace(prefix)) + "%"
}

// LogQuery stores one analyzed query
func (r *PostgresRepository) LogQuery(ctx context.Context, entry *model.QueryLog) error {
	logQuery := `
		INSERT INTO query_logs (
			request_id, query, suggested_query, product_types, features, styles,
			classification_summary, price_min, price_max, currency,
			dictionary_version, cached, response_time_ms
		)
		VALUES (
			:request_id, :query, :suggested_query, :product_types, :features, :styles,
			:classification_summary, :price_min, :price_max, :currency,
			:dictionary_version, :cached, :response_time_ms
		)
	`
	if _, err := r.db.NamedExecContext(ctx, logQuery, entry); err != nil {
		return fmt.Errorf("failed to log query: %w", err)
	}
	return nil
}
