package findings

import "context"

// SearchFilter untuk query hasil scan dari API
type SearchFilter struct {
	Query          string
	Source         string
	MinScore       float64
	HasCredentials *bool
	EmailDomain    string
}

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, f *Finding) error
	ByScan(ctx context.Context, tenant string, scanID string) ([]*Finding, error)
	Search(ctx context.Context, tenant string, filter SearchFilter) ([]*Finding, error)
	CountCredentialed(ctx context.Context, tenant string) (int, error)
}
