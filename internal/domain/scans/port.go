package scans

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, s *Scan) error
	Get(ctx context.Context, tenant string, id ScanID) (*Scan, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Scan, error)
	UpdateStatus(ctx context.Context, tenant string, id ScanID, status Status, progress float64) error
	UpdateResult(ctx context.Context, tenant string, id ScanID, status Status, totals Totals, errMsg string) error
}

// Totals hasil akhir satu run
type Totals struct {
	TotalResults     int
	CredentialsFound int
	URLsScanned      int
}
