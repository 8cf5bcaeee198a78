package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/leakwatch/internal/domain/scans"
)

type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Save insert/update Scan record
func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO scans
(id, tenant_id, status, progress, urls, enable_clearnet, enable_mirrors,
 crawl_authors, keywords, total_results, credentials_found, urls_scanned,
 error, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (id) DO UPDATE SET
 status=EXCLUDED.status, progress=EXCLUDED.progress,
 total_results=EXCLUDED.total_results, credentials_found=EXCLUDED.credentials_found,
 urls_scanned=EXCLUDED.urls_scanned, error=EXCLUDED.error, updated_at=EXCLUDED.updated_at;
`
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = created
	}
	_, err := r.db.ExecContext(ctx, q,
		s.ID, stringOrDash(s.TenantID), stringOrDash(string(s.Status)), s.Progress,
		jsonList(s.URLs),
		s.Options.EnableClearnet, s.Options.EnableMirrors, s.Options.CrawlAuthors,
		jsonList(s.Options.Keywords),
		s.TotalResults, s.CredentialsFound, s.URLsScanned,
		s.Error, created, updated,
	)
	return err
}

const scanColumns = `
id, tenant_id, status, progress, urls, enable_clearnet, enable_mirrors,
crawl_authors, keywords, total_results, credentials_found, urls_scanned,
error, created_at, updated_at`

func scanRow(row interface{ Scan(...any) error }) (*domain.Scan, error) {
	var s domain.Scan
	var urls, keywords string
	if err := row.Scan(
		&s.ID, &s.TenantID, &s.Status, &s.Progress, &urls,
		&s.Options.EnableClearnet, &s.Options.EnableMirrors, &s.Options.CrawlAuthors,
		&keywords,
		&s.TotalResults, &s.CredentialsFound, &s.URLsScanned,
		&s.Error, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.URLs = parseJSONList(urls)
	s.Options.Keywords = parseJSONList(keywords)
	return &s, nil
}

// Get by ID + Tenant
func (r *ScanRepository) Get(ctx context.Context, tenant string, id domain.ScanID) (*domain.Scan, error) {
	const q = `SELECT` + scanColumns + `
FROM scans WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	return scanRow(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest scans per tenant
func (r *ScanRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT` + scanColumns + `
FROM scans WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus update status + progress tanpa menyentuh hasil
func (r *ScanRepository) UpdateStatus(ctx context.Context, tenant string, id domain.ScanID, status domain.Status, progress float64) error {
	const q = `UPDATE scans SET status=$1, progress=$2, updated_at=$3 WHERE tenant_id=$4 AND id=$5;`
	_, err := r.db.ExecContext(ctx, q, string(status), progress, time.Now(), tenant, id)
	return err
}

// UpdateResult tulis status akhir + totals satu run
func (r *ScanRepository) UpdateResult(ctx context.Context, tenant string, id domain.ScanID, status domain.Status, totals domain.Totals, errMsg string) error {
	const q = `
UPDATE scans
SET status=$1, progress=1.0, total_results=$2, credentials_found=$3,
    urls_scanned=$4, error=$5, updated_at=$6
WHERE tenant_id=$7 AND id=$8;`
	_, err := r.db.ExecContext(ctx, q,
		string(status), totals.TotalResults, totals.CredentialsFound,
		totals.URLsScanned, errMsg, time.Now(), tenant, id,
	)
	return err
}
