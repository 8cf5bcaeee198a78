package scanerrors

import "context"

// Repository defines persistence for skipped units of work
type Repository interface {
	Save(ctx context.Context, e *ScanSkip) error
	ListByScan(ctx context.Context, tenant string, scanID string, limit int) ([]*ScanSkip, error)
}
