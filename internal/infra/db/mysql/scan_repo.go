package mysql

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
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), progress=VALUES(progress),
 total_results=VALUES(total_results), credentials_found=VALUES(credentials_found),
 urls_scanned=VALUES(urls_scanned), error=VALUES(error), updated_at=VALUES(updated_at);
`
	tenant := stringOrDash(s.TenantID)
	status := stringOrDash(string(s.Status))
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	_, err := r.db.ExecContext(ctx, q,
		s.ID, tenant, status, s.Progress, jsonList(s.URLs),
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
FROM scans WHERE tenant_id=? AND id=? LIMIT 1;`
	return scanRow(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest scans per tenant
func (r *ScanRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT` + scanColumns + `
FROM scans WHERE tenant_id=? ORDER BY created_at DESC LIMIT ?;`
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
	const q = `UPDATE scans SET status=?, progress=?, updated_at=? WHERE tenant_id=? AND id=?;`
	_, err := r.db.ExecContext(ctx, q, string(status), progress, time.Now(), tenant, id)
	return err
}

// UpdateResult tulis status akhir + totals satu run
func (r *ScanRepository) UpdateResult(ctx context.Context, tenant string, id domain.ScanID, status domain.Status, totals domain.Totals, errMsg string) error {
	const q = `
UPDATE scans
SET status=?, progress=1.0, total_results=?, credentials_found=?,
    urls_scanned=?, error=?, updated_at=?
WHERE tenant_id=? AND id=?;`
	_, err := r.db.ExecContext(ctx, q,
		string(status), totals.TotalResults, totals.CredentialsFound,
		totals.URLsScanned, errMsg, time.Now(), tenant, id,
	)
	return err
}
