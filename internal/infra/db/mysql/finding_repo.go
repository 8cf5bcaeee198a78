package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/leakwatch/internal/domain/findings"
)

type FindingRepository struct {
	db *sql.DB
}

func NewFindingRepository(db *sql.DB) *FindingRepository {
	return &FindingRepository{db: db}
}

// Save insert/update satu finding. URL unik per scan: paste yang sama
// ketemu lagi di scan berikutnya tetap jadi row baru (scan_id beda).
func (r *FindingRepository) Save(ctx context.Context, f *domain.Finding) error {
	const q = `
INSERT INTO findings
(id, scan_id, tenant_id, url, source, author, title, relevance_score,
 emails, target_emails, has_credentials, content_preview, evidence_url, discovered_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 relevance_score=VALUES(relevance_score), emails=VALUES(emails),
 target_emails=VALUES(target_emails), has_credentials=VALUES(has_credentials),
 content_preview=VALUES(content_preview), evidence_url=VALUES(evidence_url);
`
	discovered := f.DiscoveredAt
	if discovered.IsZero() {
		discovered = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		f.ID, f.ScanID, stringOrDash(f.TenantID), f.URL, f.Source,
		stringOrDash(f.Author), f.Title, f.RelevanceScore,
		jsonList(f.Emails), jsonList(f.TargetEmails),
		f.HasCredentials, f.ContentPreview, f.EvidenceURL, discovered,
	)
	return err
}

const findingColumns = `
id, scan_id, tenant_id, url, source, author, title, relevance_score,
emails, target_emails, has_credentials, content_preview, evidence_url, discovered_at`

func findingRow(row interface{ Scan(...any) error }) (*domain.Finding, error) {
	var f domain.Finding
	var emails, targetEmails string
	if err := row.Scan(
		&f.ID, &f.ScanID, &f.TenantID, &f.URL, &f.Source, &f.Author, &f.Title,
		&f.RelevanceScore, &emails, &targetEmails, &f.HasCredentials,
		&f.ContentPreview, &f.EvidenceURL, &f.DiscoveredAt,
	); err != nil {
		return nil, err
	}
	f.Emails = parseJSONList(emails)
	f.TargetEmails = parseJSONList(targetEmails)
	return &f, nil
}

// ByScan semua finding satu scan, skor tertinggi duluan
func (r *FindingRepository) ByScan(ctx context.Context, tenant string, scanID string) ([]*domain.Finding, error) {
	const q = `SELECT` + findingColumns + `
FROM findings WHERE tenant_id=? AND scan_id=? ORDER BY relevance_score DESC;`
	rows, err := r.db.QueryContext(ctx, q, tenant, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFindings(rows)
}

// Search query lintas scan dengan filter opsional
func (r *FindingRepository) Search(ctx context.Context, tenant string, filter domain.SearchFilter) ([]*domain.Finding, error) {
	query := `SELECT` + findingColumns + `
FROM findings WHERE tenant_id=?`
	args := []any{tenant}

	if filter.Query != "" {
		query += " AND (content_preview LIKE ? OR title LIKE ? OR url LIKE ?)"
		needle := "%" + escapeLikePattern(filter.Query) + "%"
		args = append(args, needle, needle, needle)
	}
	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	if filter.MinScore > 0 {
		query += " AND relevance_score >= ?"
		args = append(args, filter.MinScore)
	}
	if filter.HasCredentials != nil {
		query += " AND has_credentials = ?"
		args = append(args, *filter.HasCredentials)
	}
	if filter.EmailDomain != "" {
		query += " AND target_emails LIKE ?"
		args = append(args, "%"+escapeLikePattern(filter.EmailDomain)+"%")
	}
	query += " ORDER BY relevance_score DESC LIMIT 200;"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFindings(rows)
}

// CountCredentialed jumlah finding ber-kredensial milik tenant
func (r *FindingRepository) CountCredentialed(ctx context.Context, tenant string) (int, error) {
	const q = `SELECT COUNT(*) FROM findings WHERE tenant_id=? AND has_credentials=1;`
	var n int
	err := r.db.QueryRowContext(ctx, q, tenant).Scan(&n)
	return n, err
}

func collectFindings(rows *sql.Rows) ([]*domain.Finding, error) {
	var out []*domain.Finding
	for rows.Next() {
		f, err := findingRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
