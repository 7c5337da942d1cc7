package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis row with the record stored as JSONB.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, fingerprint, prompt_version, provider, model, record, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	payload, err := json.Marshal(analysis.Record)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.Fingerprint,
		analysis.PromptVersion,
		analysis.Provider,
		analysis.Model,
		string(payload),
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT id, fingerprint, prompt_version, provider, model, record, created_at
FROM analyses
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID)
	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// List returns analyses newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	const query = `
SELECT id, fingerprint, prompt_version, provider, model, record, created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var promptVersion sql.NullString
	var provider sql.NullString
	var model sql.NullString
	var record sql.NullString
	err := row.Scan(
		&a.ID,
		&a.Fingerprint,
		&promptVersion,
		&provider,
		&model,
		&record,
		&a.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	a.PromptVersion = promptVersion.String
	a.Provider = provider.String
	a.Model = model.String
	if record.Valid {
		if err := json.Unmarshal([]byte(record.String), &a.Record); err != nil {
			// keep empty
			a.Record = Record{}
		}
	}
	return a, nil
}
