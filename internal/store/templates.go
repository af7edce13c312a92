// Package store persists templates and rendered contracts in Postgres and
// keeps a Redis read-through cache of templates.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"time"

	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/common/metrics"
	"contract-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	selectTemplateQuery = `SELECT id, name, description, category, content, fields, optional_clauses, is_active, sort_order, version FROM contract_templates WHERE id = $1`

	upsertTemplateQuery = `INSERT INTO contract_templates (id, name, description, category, content, fields, optional_clauses, is_active, sort_order, version, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, NOW())
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category, content = EXCLUDED.content, fields = EXCLUDED.fields, optional_clauses = EXCLUDED.optional_clauses, is_active = EXCLUDED.is_active, sort_order = EXCLUDED.sort_order, version = contract_templates.version + 1, updated_at = NOW()
RETURNING version`
)

// TemplateStore loads and saves templates. A nil cache disables caching.
type TemplateStore struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewTemplateStore(db *sql.DB, cache *redis.Client, ttl time.Duration, prefix string, log logger.Logger) *TemplateStore {
	return &TemplateStore{
		db:     db,
		cache:  cache,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "template-store"}),
	}
}

// CacheKey is the Redis key holding the cached template.
func (s *TemplateStore) CacheKey(templateID string) string {
	return s.prefix + templateID
}

// Get returns the template, serving from the cache when possible.
func (s *TemplateStore) Get(ctx context.Context, templateID string) (*models.Template, error) {
	if tmpl, ok := s.fromCache(ctx, templateID); ok {
		return tmpl, nil
	}

	var (
		tmpl                     models.Template
		content, fields, clauses []byte
	)
	err := s.db.QueryRowContext(ctx, selectTemplateQuery, templateID).Scan(
		&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.Category,
		&content, &fields, &clauses,
		&tmpl.IsActive, &tmpl.SortOrder, &tmpl.Version,
	)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewTemplateNotFoundError(templateID)
		}
		return nil, errors.NewDatabaseQueryFailedError("select template", err)
	}

	if err := decodeTemplateColumns(&tmpl, content, fields, clauses); err != nil {
		return nil, errors.NewDatabaseQueryFailedError("decode template", err)
	}

	s.toCache(ctx, &tmpl)
	return &tmpl, nil
}

// Save upserts the template and returns its new version. The cached copy is
// dropped so the next Get reads the saved row.
func (s *TemplateStore) Save(ctx context.Context, tmpl *models.Template) (int, error) {
	content, err := json.Marshal(tmpl.Content)
	if err != nil {
		return 0, errors.NewInternalError(fmt.Errorf("encode content: %w", err))
	}
	fields, err := json.Marshal(nonNilFields(tmpl.Fields))
	if err != nil {
		return 0, errors.NewInternalError(fmt.Errorf("encode fields: %w", err))
	}
	clauses, err := json.Marshal(nonNilClauses(tmpl.OptionalClauses))
	if err != nil {
		return 0, errors.NewInternalError(fmt.Errorf("encode clauses: %w", err))
	}

	var version int
	err = s.db.QueryRowContext(ctx, upsertTemplateQuery,
		tmpl.ID, tmpl.Name, tmpl.Description, tmpl.Category,
		string(content), string(fields), string(clauses),
		tmpl.IsActive, tmpl.SortOrder,
	).Scan(&version)
	if err != nil {
		return 0, errors.NewDatabaseInsertFailedError(err)
	}

	s.Invalidate(ctx, tmpl.ID)
	return version, nil
}

// Invalidate removes a cached template. Failures are logged only.
func (s *TemplateStore) Invalidate(ctx context.Context, templateID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.CacheKey(templateID)).Err(); err != nil {
		s.logger.Warn("failed to invalidate cached template", map[string]interface{}{
			"templateId": templateID,
			"error":      err.Error(),
		})
	}
}

func (s *TemplateStore) fromCache(ctx context.Context, templateID string) (*models.Template, bool) {
	if s.cache == nil {
		return nil, false
	}

	val, err := s.cache.Get(ctx, s.CacheKey(templateID)).Result()
	if err != nil {
		if !stdErrors.Is(err, redis.Nil) {
			metrics.TemplateCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn("template cache read failed", map[string]interface{}{
				"templateId": templateID,
				"error":      err.Error(),
			})
			return nil, false
		}
		metrics.TemplateCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var tmpl models.Template
	if err := json.Unmarshal([]byte(val), &tmpl); err != nil {
		metrics.TemplateCacheLookups.WithLabelValues("corrupt").Inc()
		s.logger.Debug("discarding undecodable cached template", map[string]interface{}{
			"templateId": templateID,
			"error":      err.Error(),
		})
		return nil, false
	}
	metrics.TemplateCacheLookups.WithLabelValues("hit").Inc()
	return &tmpl, true
}

func (s *TemplateStore) toCache(ctx context.Context, tmpl *models.Template) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(tmpl)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.CacheKey(tmpl.ID), data, s.ttl).Err(); err != nil {
		s.logger.Warn("template cache write failed", map[string]interface{}{
			"templateId": tmpl.ID,
			"error":      err.Error(),
		})
	}
}

func decodeTemplateColumns(tmpl *models.Template, content, fields, clauses []byte) error {
	if err := json.Unmarshal(content, &tmpl.Content); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := json.Unmarshal(fields, &tmpl.Fields); err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	if err := json.Unmarshal(clauses, &tmpl.OptionalClauses); err != nil {
		return fmt.Errorf("optional clauses: %w", err)
	}
	return nil
}

func nonNilFields(f []models.Field) []models.Field {
	if f == nil {
		return []models.Field{}
	}
	return f
}

func nonNilClauses(c []models.Clause) []models.Clause {
	if c == nil {
		return []models.Clause{}
	}
	return c
}
