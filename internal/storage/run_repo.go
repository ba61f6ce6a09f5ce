package storage

import (
	"context"
	"fmt"

	"advisorlens/internal/models"
)

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) UpsertRun(ctx context.Context, run models.AnalysisRun) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO analysis_runs (run_id, transcript_path, status, fail_reason, results_path, report_path)
VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''))
ON CONFLICT (run_id)
DO UPDATE SET
  transcript_path = EXCLUDED.transcript_path,
  status = EXCLUDED.status,
  fail_reason = EXCLUDED.fail_reason,
  results_path = COALESCE(EXCLUDED.results_path, analysis_runs.results_path),
  report_path = COALESCE(EXCLUDED.report_path, analysis_runs.report_path),
  updated_at = NOW()`,
		run.RunID, run.TranscriptPath, run.Status, run.FailReason, run.ResultsPath, run.ReportPath,
	)
	if err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

func (r *RunRepo) UpdateRunStatus(ctx context.Context, runID, status, failReason string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE analysis_runs SET status=$2, fail_reason=NULLIF($3,''), updated_at=NOW() WHERE run_id=$1`,
		runID, status, failReason)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

func (r *RunRepo) SetArtifacts(ctx context.Context, runID, resultsPath, reportPath string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE analysis_runs SET
  results_path=COALESCE(NULLIF($2,''), results_path),
  report_path=COALESCE(NULLIF($3,''), report_path),
  updated_at=NOW()
WHERE run_id=$1`,
		runID, resultsPath, reportPath)
	if err != nil {
		return fmt.Errorf("set run artifacts: %w", err)
	}
	return nil
}

func (r *RunRepo) GetRun(ctx context.Context, runID string) (models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := r.db.Pool.QueryRow(ctx, `
SELECT run_id, transcript_path, status, COALESCE(fail_reason,''), COALESCE(results_path,''), COALESCE(report_path,''), created_at, updated_at
FROM analysis_runs
WHERE run_id=$1`, runID).
		Scan(&run.RunID, &run.TranscriptPath, &run.Status, &run.FailReason, &run.ResultsPath, &run.ReportPath, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return models.AnalysisRun{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (r *RunRepo) ListRuns(ctx context.Context) ([]models.AnalysisRun, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT run_id, transcript_path, status, COALESCE(fail_reason,''), COALESCE(results_path,''), COALESCE(report_path,''), created_at, updated_at
FROM analysis_runs
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.AnalysisRun, 0)
	for rows.Next() {
		var run models.AnalysisRun
		if err := rows.Scan(&run.RunID, &run.TranscriptPath, &run.Status, &run.FailReason, &run.ResultsPath, &run.ReportPath, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}
