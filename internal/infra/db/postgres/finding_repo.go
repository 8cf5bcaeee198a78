package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/leakwatch/internal/domain/findings"
)

type FindingRepository struct {
	db *sql.DB
}

func NewFindingRepository(db *sql.DB) *FindingRepository {
	return &FindingRepository{db: db}
}

// Save insert/update satu finding
func (r *FindingRepository) Save(ctx context.Context, f *domain.Finding) error {
	const q = `
INSERT INTO findings
(id, scan_id, tenant_id, url, source, author, title, relevance_score,
 emails, target_emails, has_credentials, content_preview, evidence_url, discovered_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
 relevance_score=EXCLUDED.relevance_score, emails=EXCLUDED.emails,
 target_emails=EXCLUDED.target_emails, has_credentials=EXCLUDED.has_credentials,
 content_preview=EXCLUDED.content_preview, evidence_url=EXCLUDED.evidence_url;
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
FROM findings WHERE tenant_id=$1 AND scan_id=$2 ORDER BY relevance_score DESC;`
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
FROM findings WHERE tenant_id=$1`
	args := []any{tenant}
	n := 1

	next := func() string {
		n++
		return fmt.Sprintf("$%d", n)
	}

	if filter.Query != "" {
		p := next()
		query += fmt.Sprintf(" AND (content_preview ILIKE %s OR title ILIKE %s OR url ILIKE %s)", p, p, p)
		args = append(args, "%"+escapeLikePattern(filter.Query)+"%")
	}
	if filter.Source != "" {
		query += " AND source = " + next()
		args = append(args, filter.Source)
	}
	if filter.MinScore > 0 {
		query += " AND relevance_score >= " + next()
		args = append(args, filter.MinScore)
	}
	if filter.HasCredentials != nil {
		query += " AND has_credentials = " + next()
		args = append(args, *filter.HasCredentials)
	}
	if filter.EmailDomain != "" {
		query += " AND target_emails ILIKE " + next()
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
	const q = `SELECT COUNT(*) FROM findings WHERE tenant_id=$1 AND has_credentials=TRUE;`
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
