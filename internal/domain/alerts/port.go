package alerts

import "context"

// Repository port untuk persistence alert
type Repository interface {
	Save(ctx context.Context, a *Alert) error
	Latest(ctx context.Context, tenant string, limit int) ([]*Alert, error)
	CountBySeverity(ctx context.Context, tenant string) (map[Severity]int, error)
	CountByStatus(ctx context.Context, tenant string) (map[Status]int, error)
	CountSince(ctx context.Context, tenant string, hours int) (int, error)
}
