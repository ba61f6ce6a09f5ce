package storage

import (
	"context"
	"fmt"
)

type LLMCallRecord struct {
	CallID       string
	RunID        string
	Operation    string
	ProviderName string
	Model        string
	RequestID    string
	Status       string
	ErrorType    string
}

type LLMAuditRepo struct {
	db *DB
}

func NewLLMAuditRepo(db *DB) *LLMAuditRepo {
	return &LLMAuditRepo{db: db}
}

func (r *LLMAuditRepo) Insert(ctx context.Context, rec LLMCallRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO llm_calls(call_id, run_id, operation, provider_name, model, request_id, status, error_type)
VALUES (COALESCE(NULLIF($1,'')::uuid, gen_random_uuid()), NULLIF($2,''), $3, $4, $5, $6, $7, NULLIF($8,''))`,
		rec.CallID, rec.RunID, rec.Operation, rec.ProviderName, rec.Model, rec.RequestID, rec.Status, rec.ErrorType)
	if err != nil {
		return fmt.Errorf("insert llm call: %w", err)
	}
	return nil
}

func (r *LLMAuditRepo) CountByStatus(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT status, COUNT(*) FROM llm_calls WHERE run_id=$1 GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("count llm calls: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan llm call count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}
