package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/leakwatch/internal/domain/scanerrors"
)

type SkipRepository struct {
	db *sql.DB
}

func NewSkipRepository(db *sql.DB) *SkipRepository {
	return &SkipRepository{db: db}
}

// Save catat satu unit kerja yang dilewati
func (r *SkipRepository) Save(ctx context.Context, e *domain.ScanSkip) error {
	const q = `
INSERT INTO scan_skips (tenant_id, scan_id, url, stage, reason, created_at)
VALUES (?,?,?,?,?,?);`
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(e.TenantID), e.ScanID, e.URL, e.Stage, e.Reason, created,
	)
	return err
}

// ListByScan daftar skip satu scan
func (r *SkipRepository) ListByScan(ctx context.Context, tenant string, scanID string, limit int) ([]*domain.ScanSkip, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
SELECT id, tenant_id, scan_id, url, stage, reason, created_at
FROM scan_skips WHERE tenant_id=? AND scan_id=? ORDER BY id ASC LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, scanID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ScanSkip
	for rows.Next() {
		var e domain.ScanSkip
		if err := rows.Scan(&e.ID, &e.TenantID, &e.ScanID, &e.URL, &e.Stage, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
