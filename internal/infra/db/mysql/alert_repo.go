package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/leakwatch/internal/domain/alerts"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Save insert satu alert
func (r *AlertRepository) Save(ctx context.Context, a *domain.Alert) error {
	const q = `
INSERT INTO alerts
(id, tenant_id, scan_id, title, description, severity, status, source_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 severity=VALUES(severity), status=VALUES(status), description=VALUES(description);
`
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		a.ID, stringOrDash(a.TenantID), a.ScanID, a.Title, a.Description,
		string(a.Severity), string(a.Status), a.SourceURL, created,
	)
	return err
}

// Latest N alert terakhir per tenant
func (r *AlertRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, scan_id, title, description, severity, status, source_url, created_at
FROM alerts WHERE tenant_id=? ORDER BY created_at DESC LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(
			&a.ID, &a.TenantID, &a.ScanID, &a.Title, &a.Description,
			&a.Severity, &a.Status, &a.SourceURL, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// CountBySeverity sebaran alert per severity
func (r *AlertRepository) CountBySeverity(ctx context.Context, tenant string) (map[domain.Severity]int, error) {
	const q = `SELECT severity, COUNT(*) FROM alerts WHERE tenant_id=? GROUP BY severity;`
	rows, err := r.db.QueryContext(ctx, q, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Severity]int)
	for rows.Next() {
		var sev string
		var n int
		if err := rows.Scan(&sev, &n); err != nil {
			return nil, err
		}
		out[domain.Severity(sev)] = n
	}
	return out, rows.Err()
}

// CountByStatus sebaran alert per status lifecycle
func (r *AlertRepository) CountByStatus(ctx context.Context, tenant string) (map[domain.Status]int, error) {
	const q = `SELECT status, COUNT(*) FROM alerts WHERE tenant_id=? GROUP BY status;`
	rows, err := r.db.QueryContext(ctx, q, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Status]int)
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[domain.Status(st)] = n
	}
	return out, rows.Err()
}

// CountSince jumlah alert dalam N jam terakhir
func (r *AlertRepository) CountSince(ctx context.Context, tenant string, hours int) (int, error) {
	if hours <= 0 {
		hours = 24
	}
	cut := time.Now().Add(-time.Duration(hours) * time.Hour)
	const q = `SELECT COUNT(*) FROM alerts WHERE tenant_id=? AND created_at >= ?;`
	var n int
	err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&n)
	return n, err
}
