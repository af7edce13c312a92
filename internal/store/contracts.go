package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stdErrors "errors"
	"fmt"

	"contract-workers/internal/common/errors"
	"contract-workers/internal/models"
)

const (
	insertContractQuery = `INSERT INTO contracts (id, template_id, template_version, owner_id, title, rendered_content, plain_text, template_data, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectContractQuery = `SELECT id, template_id, template_version, owner_id, title, rendered_content, plain_text, template_data, created_at FROM contracts WHERE id = $1`
)

// ContractStore persists rendered contract records.
type ContractStore struct {
	db *sql.DB
}

func NewContractStore(db *sql.DB) *ContractStore {
	return &ContractStore{db: db}
}

// Insert writes a new contract record.
func (s *ContractStore) Insert(ctx context.Context, rec *models.ContractRecord) error {
	data, err := json.Marshal(rec.TemplateData)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("encode template data: %w", err))
	}

	_, err = s.db.ExecContext(ctx, insertContractQuery,
		rec.ID, rec.TemplateID, rec.TemplateVersion, rec.OwnerID, rec.Title,
		rec.RenderedContent, rec.PlainText, string(data), rec.CreatedAt,
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// Get loads one contract record.
func (s *ContractStore) Get(ctx context.Context, contractID string) (*models.ContractRecord, error) {
	var (
		rec  models.ContractRecord
		data []byte
	)
	err := s.db.QueryRowContext(ctx, selectContractQuery, contractID).Scan(
		&rec.ID, &rec.TemplateID, &rec.TemplateVersion, &rec.OwnerID, &rec.Title,
		&rec.RenderedContent, &rec.PlainText, &data, &rec.CreatedAt,
	)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewContractNotFoundError(contractID)
		}
		return nil, errors.NewDatabaseQueryFailedError("select contract", err)
	}

	if err := json.Unmarshal(data, &rec.TemplateData); err != nil {
		return nil, errors.NewDatabaseQueryFailedError("decode contract", err)
	}
	return &rec, nil
}
